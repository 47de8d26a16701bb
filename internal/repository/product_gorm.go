package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/zenith/internal/model"
)

type gormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 关系型商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository { return &gormProductRepository{db: db} }

func (r *gormProductRepository) List(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *gormProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if !model.ValidID(id) {
		return nil, ErrNotFound
	}
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormProductRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *gormProductRepository) UpdateStock(ctx context.Context, id string, stock int64, updatedAt time.Time) (*model.Product, error) {
	if !model.ValidID(id) {
		return nil, ErrNotFound
	}
	var p model.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).Where("id = ?", id).
			Updates(map[string]interface{}{"stock": stock, "updated_at": updatedAt})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("id = ?", id).First(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormProductRepository) Delete(ctx context.Context, id string) error {
	if !model.ValidID(id) {
		return ErrNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
