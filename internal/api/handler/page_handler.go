package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/zenith/pkg/response"
)

// PostPage 单篇文章页
func (h *Handler) PostPage(c *gin.Context) { h.servePage(c, "post.html") }

// EditorPage 编辑页
func (h *Handler) EditorPage(c *gin.Context) { h.servePage(c, "editor.html") }

// Static 兜底：/api 下返回 JSON 404，其余尝试静态文件
func (h *Handler) Static(c *gin.Context) {
	p := c.Request.URL.Path
	if strings.HasPrefix(p, "/api/") || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
		response.NotFound(c, "Not found")
		return
	}
	if p == "/" {
		p = "/index.html"
	}
	h.servePage(c, path.Clean(p))
}

func (h *Handler) servePage(c *gin.Context, name string) {
	// path.Clean 以 / 开头时不会越过根目录
	file := filepath.Join(h.staticDir, filepath.FromSlash(path.Clean("/"+name)))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.File(file)
}
