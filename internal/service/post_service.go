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
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidPost  = errors.New("title and content are required")
)

// CreatePostInput 创建文章入参
type CreatePostInput struct {
	Title    string `json:"title" validate:"required"`
	Category string `json:"category"`
	Content  string `json:"content" validate:"required"`
}

// UpdatePostInput 部分更新入参，缺省或空白字段不修改
type UpdatePostInput struct {
	Title    *string `json:"title"`
	Category *string `json:"category"`
	Content  *string `json:"content"`
}

// PostService 文章服务
type PostService interface {
	List(ctx context.Context) ([]*model.Post, error)
	Get(ctx context.Context, id string) (*model.Post, error)
	Create(ctx context.Context, in CreatePostInput) (*model.Post, error)
	Update(ctx context.Context, id string, in UpdatePostInput) (*model.Post, error)
	Delete(ctx context.Context, id string) error
}

type postService struct {
	repo repository.PostRepository
	now  func() time.Time
}

func NewPostService(repo repository.PostRepository) PostService {
	return &postService{repo: repo, now: model.Now}
}

// NewPostServiceWithClock 测试用，注入时钟
func NewPostServiceWithClock(repo repository.PostRepository, now func() time.Time) PostService {
	return &postService{repo: repo, now: now}
}

func (s *postService) List(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	return posts, nil
}

func (s *postService) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return post, nil
}

func (s *postService) Create(ctx context.Context, in CreatePostInput) (*model.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Category = strings.TrimSpace(in.Category)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPost, err)
	}
	if in.Category == "" {
		in.Category = model.DefaultCategory
	}

	now := s.now()
	post := &model.Post{
		ID:        model.NewID(),
		Title:     in.Title,
		Category:  in.Category,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, id string, in UpdatePostInput) (*model.Post, error) {
	patch := model.PostPatch{
		Title:     trimPtr(in.Title),
		Category:  trimPtr(in.Category),
		Content:   trimPtr(in.Content),
		UpdatedAt: s.now(),
	}
	post, err := s.repo.Update(ctx, id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update post %s: %w", id, err)
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}
