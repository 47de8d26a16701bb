package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/d60-Lab/zenith/config"
	_ "github.com/d60-Lab/zenith/docs"
	"github.com/d60-Lab/zenith/internal/api/handler"
	"github.com/d60-Lab/zenith/internal/api/middleware"
	"github.com/d60-Lab/zenith/pkg/logger"
)

// SetupRouter 注册中间件与路由；limiter 为 nil 时不限流
func SetupRouter(cfg *config.Config, h *handler.Handler, limiter middleware.Limiter) *gin.Engine {
	r := gin.New()
	// 默认信任所有代理，ClientIP 会直接取客户端伪造的 X-Forwarded-For
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/healthz", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 静态页面
	r.GET("/post", h.PostPage)
	r.GET("/editor", h.EditorPage)
	r.NoRoute(h.Static)

	api := r.Group("/api")
	if limiter != nil {
		api.Use(middleware.RateLimit(limiter))
	}
	write := middleware.RequireAuth(cfg.Auth.JWTSecret)
	{
		posts := api.Group("/posts")
		posts.GET("", h.ListPosts)
		posts.GET("/:id", h.GetPost)
		posts.POST("", write, h.CreatePost)
		posts.PATCH("/:id", write, h.UpdatePost)
		posts.DELETE("/:id", write, h.DeletePost)
	}
	{
		products := api.Group("/products")
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.POST("", write, h.CreateProduct)
		products.PATCH("/:id", write, h.UpdateStock)
		products.DELETE("/:id", write, h.DeleteProduct)
	}

	return r
}
