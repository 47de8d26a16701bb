package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/zenith/internal/service"
	"github.com/d60-Lab/zenith/pkg/response"
)

const (
	msgPostNotFound   = "Post not found"
	msgPostRequired   = "Title and content are required"
	msgInvalidBody    = "Invalid request body"
	msgPostDeleted    = "Post deleted successfully"
	msgFetchPosts     = "Failed to fetch posts"
	msgFetchPost      = "Failed to fetch post"
	msgCreatePost     = "Failed to create post"
	msgUpdatePost     = "Failed to update post"
	msgDeletePostFail = "Failed to delete post"
)

// ListPosts 文章列表
// @Summary 文章列表（按创建时间倒序）
// @Tags 文章
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Post}
// @Failure 500 {object} response.Response
// @Router /api/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.postService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err, msgFetchPosts)
		return
	}
	response.Success(c, posts)
}

// GetPost 文章详情
// @Summary 按 id 查询文章
// @Tags 文章
// @Produce json
// @Param id path string true "文章ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.postService.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrPostNotFound) {
		response.NotFound(c, msgPostNotFound)
		return
	}
	if err != nil {
		response.InternalError(c, err, msgFetchPost)
		return
	}
	response.Success(c, post)
}

// CreatePost 发布文章
// @Summary 创建文章
// @Tags 文章
// @Accept json
// @Produce json
// @Param request body service.CreatePostInput true "文章内容"
// @Success 201 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req service.CreatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		// 空 body 等同于没填标题和正文
		if errors.Is(err, io.EOF) {
			response.BadRequest(c, msgPostRequired)
			return
		}
		response.BadRequest(c, msgInvalidBody)
		return
	}
	post, err := h.postService.Create(c.Request.Context(), req)
	if errors.Is(err, service.ErrInvalidPost) {
		response.BadRequest(c, msgPostRequired)
		return
	}
	if err != nil {
		response.InternalError(c, err, msgCreatePost)
		return
	}
	response.Created(c, post)
}

// UpdatePost 部分更新
// @Summary 更新文章（只改传入的非空字段）
// @Tags 文章
// @Accept json
// @Produce json
// @Param id path string true "文章ID"
// @Param request body service.UpdatePostInput false "待更新字段"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/posts/{id} [patch]
func (h *Handler) UpdatePost(c *gin.Context) {
	var req service.UpdatePostInput
	// 空 body 只刷新 updatedAt
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, msgInvalidBody)
		return
	}
	post, err := h.postService.Update(c.Request.Context(), c.Param("id"), req)
	if errors.Is(err, service.ErrPostNotFound) {
		response.NotFound(c, msgPostNotFound)
		return
	}
	if err != nil {
		response.InternalError(c, err, msgUpdatePost)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除文章
// @Summary 删除文章
// @Tags 文章
// @Produce json
// @Param id path string true "文章ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	err := h.postService.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrPostNotFound) {
		response.NotFound(c, msgPostNotFound)
		return
	}
	if err != nil {
		response.InternalError(c, err, msgDeletePostFail)
		return
	}
	response.Message(c, msgPostDeleted)
}
