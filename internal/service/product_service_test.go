package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/zenith/internal/model"
	"github.com/d60-Lab/zenith/internal/repository"
)

func newTestProductService(t *testing.T) ProductService {
	return NewProductService(repository.NewProductRepository(setupDB(t)))
}

func TestProductCreate(t *testing.T) {
	svc := newTestProductService(t)

	p, err := svc.Create(context.Background(), CreateProductInput{Name: " Desk ", Price: ptr(120.0), Stock: ptr(int64(0))})
	require.NoError(t, err)
	assert.Equal(t, "Desk", p.Name)
	assert.Equal(t, int64(0), p.Stock)
	assert.True(t, model.ValidID(p.ID))
}

func TestProductCreate_Validation(t *testing.T) {
	svc := newTestProductService(t)
	ctx := context.Background()

	cases := map[string]CreateProductInput{
		"missing name":   {Price: ptr(1.0), Stock: ptr(int64(1))},
		"missing price":  {Name: "x", Stock: ptr(int64(1))},
		"zero price":     {Name: "x", Price: ptr(0.0), Stock: ptr(int64(1))},
		"missing stock":  {Name: "x", Price: ptr(1.0)},
		"negative stock": {Name: "x", Price: ptr(1.0), Stock: ptr(int64(-2))},
	}
	for name, in := range cases {
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidProduct, name)
	}
}

func TestProductUpdateStock(t *testing.T) {
	svc := newTestProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductInput{Name: "Pen", Price: ptr(2.5), Stock: ptr(int64(100))})
	require.NoError(t, err)

	got, err := svc.UpdateStock(ctx, p.ID, UpdateStockInput{Stock: ptr(int64(42))})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Stock)
	assert.Equal(t, "Pen", got.Name)
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt))

	_, err = svc.UpdateStock(ctx, p.ID, UpdateStockInput{})
	assert.ErrorIs(t, err, ErrInvalidStock)

	_, err = svc.UpdateStock(ctx, model.NewID(), UpdateStockInput{Stock: ptr(int64(1))})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductDelete(t *testing.T) {
	svc := newTestProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductInput{Name: "Cup", Price: ptr(4.0), Stock: ptr(int64(3))})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
