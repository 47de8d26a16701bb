package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/zenith/pkg/logger"
)

// Response 统一返回结构
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success 200 + data
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Created 201 + data
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// Message 200，只带确认信息
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: msg})
}

func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: msg})
}

func BadRequest(c *gin.Context, msg string) { Fail(c, http.StatusBadRequest, msg) }

func NotFound(c *gin.Context, msg string) { Fail(c, http.StatusNotFound, msg) }

func Unauthorized(c *gin.Context, msg string) { Fail(c, http.StatusUnauthorized, msg) }

func TooManyRequests(c *gin.Context, msg string) { Fail(c, http.StatusTooManyRequests, msg) }

// InternalError 对外只返回通用信息，原因写日志并上报 sentry
func InternalError(c *gin.Context, err error, msg string) {
	if err != nil {
		logger.Error(msg,
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
		)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else if sentry.CurrentHub().Client() != nil {
			sentry.CaptureException(err)
		}
	}
	Fail(c, http.StatusInternalServerError, msg)
}
