package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/d60-Lab/zenith/internal/model"
	"github.com/d60-Lab/zenith/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("name, price and stock are required")
	ErrInvalidStock    = errors.New("stock must be a non-negative integer")
)

type CreateProductInput struct {
	Name  string   `json:"name" validate:"required"`
	Price *float64 `json:"price" validate:"required,gt=0"`
	Stock *int64   `json:"stock" validate:"required,gte=0"`
}

type UpdateStockInput struct {
	Stock *int64 `json:"stock" validate:"required,gte=0"`
}

// ProductService 商品服务，PATCH 只允许改库存
type ProductService interface {
	List(ctx context.Context) ([]*model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, in CreateProductInput) (*model.Product, error)
	UpdateStock(ctx context.Context, id string, in UpdateStockInput) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	repo repository.ProductRepository
	now  func() time.Time
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo, now: model.Now}
}

func (s *productService) List(ctx context.Context) ([]*model.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []*model.Product{}
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

func (s *productService) Create(ctx context.Context, in CreateProductInput) (*model.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	now := s.now()
	p := &model.Product{
		ID:        model.NewID(),
		Name:      in.Name,
		Price:     *in.Price,
		Stock:     *in.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *productService) UpdateStock(ctx context.Context, id string, in UpdateStockInput) (*model.Product, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStock, err)
	}
	p, err := s.repo.UpdateStock(ctx, id, *in.Stock, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return p, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}
