package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/zenith/internal/model"
	"github.com/d60-Lab/zenith/internal/repository"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repository.InitSchema(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// tickClock 每次调用前进一秒
func tickClock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
}

func newTestPostService(t *testing.T) PostService {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return NewPostServiceWithClock(repository.NewPostRepository(setupDB(t)), tickClock(start))
}

func ptr[T any](v T) *T { return &v }

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	svc := newTestPostService(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p, err := svc.Create(ctx, CreatePostInput{Title: "t", Content: "c"})
		require.NoError(t, err)
		assert.True(t, model.ValidID(p.ID))
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.True(t, p.CreatedAt.Equal(p.UpdatedAt))
	}
}

func TestCreate_TrimsAndDefaultsCategory(t *testing.T) {
	svc := newTestPostService(t)

	p, err := svc.Create(context.Background(), CreatePostInput{Title: "  Hello  ", Category: "   ", Content: "\tworld\n"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", p.Title)
	assert.Equal(t, "world", p.Content)
	assert.Equal(t, model.DefaultCategory, p.Category)

	p, err = svc.Create(context.Background(), CreatePostInput{Title: "x", Category: " Travel ", Content: "y"})
	require.NoError(t, err)
	assert.Equal(t, "Travel", p.Category)
}

func TestCreate_ValidationStoresNothing(t *testing.T) {
	svc := newTestPostService(t)
	ctx := context.Background()

	cases := []CreatePostInput{
		{Title: "", Content: "hello"},
		{Title: "hello", Content: ""},
		{Title: "   ", Content: "hello"},
		{},
	}
	for _, in := range cases {
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidPost)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestPostService(t)

	_, err := svc.Get(context.Background(), model.NewID())
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.Get(context.Background(), "definitely-not-an-id")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdate_OnlyContentAdvancesUpdatedAt(t *testing.T) {
	svc := newTestPostService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreatePostInput{Title: "Title", Category: "Tech", Content: "old"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, p.ID, UpdatePostInput{Content: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, "Title", got.Title)
	assert.Equal(t, "Tech", got.Category)
	assert.Equal(t, "new", got.Content)
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt))
	assert.True(t, got.CreatedAt.Equal(p.CreatedAt))
}

func TestUpdate_BlankFieldsIgnored(t *testing.T) {
	svc := newTestPostService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreatePostInput{Title: "Title", Content: "body"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, p.ID, UpdatePostInput{Title: ptr("  "), Category: ptr(""), Content: nil})
	require.NoError(t, err)
	assert.Equal(t, "Title", got.Title)
	assert.Equal(t, model.DefaultCategory, got.Category)
	assert.Equal(t, "body", got.Content)
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt))
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestPostService(t)
	_, err := svc.Update(context.Background(), model.NewID(), UpdatePostInput{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDelete_ThenGetIsNotFound(t *testing.T) {
	svc := newTestPostService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreatePostInput{Title: "t", Content: "c"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrPostNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	svc := newTestPostService(t)
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C"} {
		_, err := svc.Create(ctx, CreatePostInput{Title: title, Content: "x"})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C", list[0].Title)
	assert.Equal(t, "B", list[1].Title)
	assert.Equal(t, "A", list[2].Title)
}

type brokenPostRepo struct{ err error }

func (r brokenPostRepo) List(context.Context) ([]*model.Post, error)          { return nil, r.err }
func (r brokenPostRepo) GetByID(context.Context, string) (*model.Post, error) { return nil, r.err }
func (r brokenPostRepo) Create(context.Context, *model.Post) error            { return r.err }
func (r brokenPostRepo) Update(context.Context, string, model.PostPatch) (*model.Post, error) {
	return nil, r.err
}
func (r brokenPostRepo) Delete(context.Context, string) error { return r.err }

func TestStorageErrorsAreWrapped(t *testing.T) {
	cause := errors.New("server selection timeout")
	svc := NewPostService(brokenPostRepo{err: cause})
	ctx := context.Background()

	_, err := svc.List(ctx)
	assert.ErrorIs(t, err, cause)

	_, err = svc.Get(ctx, model.NewID())
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrPostNotFound)

	_, err = svc.Create(ctx, CreatePostInput{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, cause)

	_, err = svc.Update(ctx, model.NewID(), UpdatePostInput{})
	assert.ErrorIs(t, err, cause)

	assert.ErrorIs(t, svc.Delete(ctx, model.NewID()), cause)
}
