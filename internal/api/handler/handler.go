package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/zenith/internal/service"
	"github.com/d60-Lab/zenith/pkg/response"
)

// Handler 所有 HTTP 入口共享的依赖
type Handler struct {
	postService    service.PostService
	productService service.ProductService
	staticDir      string
	ping           func(ctx context.Context) error
}

func NewHandler(postService service.PostService, productService service.ProductService, staticDir string, ping func(ctx context.Context) error) *Handler {
	return &Handler{
		postService:    postService,
		productService: productService,
		staticDir:      staticDir,
		ping:           ping,
	}
}

// Health 存储连通性检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			response.Fail(c, http.StatusServiceUnavailable, "Storage unavailable")
			return
		}
	}
	response.Success(c, gin.H{"status": "ok"})
}
