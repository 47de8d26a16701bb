package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/zenith/internal/model"
)

func setupTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	// :memory: 每个连接一份库，固定单连接
	sqlDB.SetMaxOpenConns(1)
	if err := InitSchema(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newPost(title string, at time.Time) *model.Post {
	return &model.Post{
		ID:        model.NewID(),
		Title:     title,
		Category:  model.DefaultCategory,
		Content:   "content of " + title,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func strPtr(s string) *string { return &s }

func TestGormPost_CreateAndGet(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()
	at := model.Now()

	p := newPost("hello", at)
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "hello", got.Title)
	assert.Equal(t, model.DefaultCategory, got.Category)
	assert.True(t, got.CreatedAt.Equal(at))
	assert.True(t, got.UpdatedAt.Equal(at))
}

func TestGormPost_GetMissingAndMalformed(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, model.NewID())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormPost_ListNewestFirst(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()
	base := model.Now()

	a := newPost("A", base.Add(1*time.Second))
	b := newPost("B", base.Add(2*time.Second))
	c := newPost("C", base.Add(3*time.Second))
	for _, p := range []*model.Post{b, a, c} {
		require.NoError(t, repo.Create(ctx, p))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{list[0].Title, list[1].Title, list[2].Title})
}

func TestGormPost_UpdatePartial(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()
	at := model.Now()

	p := newPost("title", at)
	p.Category = "Tech"
	require.NoError(t, repo.Create(ctx, p))

	later := at.Add(time.Minute)
	got, err := repo.Update(ctx, p.ID, model.PostPatch{Content: strPtr("new body"), UpdatedAt: later})
	require.NoError(t, err)
	assert.Equal(t, "title", got.Title)
	assert.Equal(t, "Tech", got.Category)
	assert.Equal(t, "new body", got.Content)
	assert.True(t, got.CreatedAt.Equal(at))
	assert.True(t, got.UpdatedAt.Equal(later))
}

func TestGormPost_UpdateMissing(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	_, err := repo.Update(context.Background(), model.NewID(), model.PostPatch{Title: strPtr("x"), UpdatedAt: model.Now()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormPost_Delete(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	p := newPost("bye", model.Now())
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrNotFound)
}

func TestGormProduct_CRUD(t *testing.T) {
	repo := NewProductRepository(setupTestDB(t))
	ctx := context.Background()
	at := model.Now()

	p := &model.Product{ID: model.NewID(), Name: "Keyboard", Price: 49.9, Stock: 10, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.UpdateStock(ctx, p.ID, 3, at.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Stock)
	assert.Equal(t, "Keyboard", got.Name)
	assert.InDelta(t, 49.9, got.Price, 0.001)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.UpdateStock(ctx, model.NewID(), 1, at)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func BenchmarkPostCreate(b *testing.B) {
	repo := NewPostRepository(setupTestDB(b))
	ctx := context.Background()
	base := model.Now()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = repo.Create(ctx, newPost(fmt.Sprintf("p%d", i), base.Add(time.Duration(i)*time.Millisecond)))
	}
}

func BenchmarkPostList(b *testing.B) {
	repo := NewPostRepository(setupTestDB(b))
	ctx := context.Background()
	base := model.Now()

	const N = 2000
	for i := 0; i < N; i++ {
		_ = repo.Create(ctx, newPost(fmt.Sprintf("p%d", i), base.Add(time.Duration(i)*time.Millisecond)))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = repo.List(ctx)
	}
}
