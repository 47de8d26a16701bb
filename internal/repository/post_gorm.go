package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/zenith/internal/model"
)

type gormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 关系型（postgres / sqlite）文章仓储
func NewPostRepository(db *gorm.DB) PostRepository { return &gormPostRepository{db: db} }

func (r *gormPostRepository) List(ctx context.Context) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *gormPostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	if !model.ValidID(id) {
		return nil, ErrNotFound
	}
	var post model.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *gormPostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Update 在一个事务里 update + 回读，对齐文档库 findOneAndUpdate 的语义
func (r *gormPostRepository) Update(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	if !model.ValidID(id) {
		return nil, ErrNotFound
	}
	updates := map[string]interface{}{"updated_at": patch.UpdatedAt}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}

	var post model.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Post{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("id = ?", id).First(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *gormPostRepository) Delete(ctx context.Context, id string) error {
	if !model.ValidID(id) {
		return ErrNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
