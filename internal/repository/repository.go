package repository

import (
	"context"
	"errors"
	"time"

	"github.com/d60-Lab/zenith/internal/model"
)

// ErrNotFound id 不存在或语法非法
var ErrNotFound = errors.New("record not found")

// PostRepository 文章仓储，每个方法对应一次存储调用
type PostRepository interface {
	// List 按 createdAt 倒序返回全部文章
	List(ctx context.Context) ([]*model.Post, error)

	GetByID(ctx context.Context, id string) (*model.Post, error)

	// Create 写入文章，ID 与时间戳由调用方填好
	Create(ctx context.Context, post *model.Post) error

	// Update 原子地应用 patch 并返回更新后的文章
	Update(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error)

	Delete(ctx context.Context, id string) error
}

// ProductRepository 商品仓储
type ProductRepository interface {
	List(ctx context.Context) ([]*model.Product, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	// UpdateStock 只改库存，返回更新后的商品
	UpdateStock(ctx context.Context, id string, stock int64, updatedAt time.Time) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}
