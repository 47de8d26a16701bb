package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/zenith/pkg/auth"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })
	r.POST("/write", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("editor")) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func do(r http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	r := newEngine(RequestID())

	w := do(r, http.MethodGet, "/ping", nil)
	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())

	w = do(r, http.MethodGet, "/ping", http.Header{RequestIDHeader: {"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRecovery_Returns500Envelope(t *testing.T) {
	r := newEngine(RequestID(), Logger(), Recovery())

	w := do(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, w.Body.String())
}

func TestLocalLimiter_Burst(t *testing.T) {
	r := newEngine(RateLimit(NewLocalLimiter(0.001, 2)))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/ping", nil).Code)
}

// fakeClock 手动推进的时钟
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestLocalLimiter_EvictsIdleKeys(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLocalLimiter(1, 5)
	l.now = clock.Now
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		ok, err := l.Allow(ctx, fmt.Sprintf("10.0.0.%d", i))
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Len(t, l.buckets, 100)

	clock.Advance(l.idle)
	_, _ = l.Allow(ctx, "10.0.1.1")
	assert.Len(t, l.buckets, 1)
}

func TestLocalLimiter_CapsTrackedKeys(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLocalLimiter(1, 1)
	l.now = clock.Now
	l.maxKeys = 3
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		clock.Advance(time.Millisecond)
		_, _ = l.Allow(ctx, fmt.Sprintf("k%d", i))
		assert.LessOrEqual(t, len(l.buckets), 3)
	}
	// 最久未见的先被淘汰
	assert.Contains(t, l.buckets, "k9")
	assert.NotContains(t, l.buckets, "k0")
}

func TestLocalLimiter_KeepsActiveBudget(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLocalLimiter(0.001, 1)
	l.now = clock.Now
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "a")
	assert.True(t, ok)
	clock.Advance(time.Second)
	ok, _ = l.Allow(ctx, "a")
	assert.False(t, ok)
}

func TestRedisLimiter_SharedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	// 窗口足够长，测试期间不会滚动
	l := NewRedisLimiter(rdb, 3, time.Hour)
	r := newEngine(RateLimit(l))

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", nil).Code)
	}
	w := do(r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Too many requests"}`, w.Body.String())
}

func TestRateLimit_FailsOpenWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	r := newEngine(RateLimit(NewRedisLimiter(rdb, 1, time.Hour)))
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", nil).Code)
}

func TestNewLimiter_PicksBackend(t *testing.T) {
	_, ok := NewLimiter(nil, 5, 5).(*LocalLimiter)
	assert.True(t, ok)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	_, ok = NewLimiter(rdb, 5, 5).(*RedisLimiter)
	assert.True(t, ok)
}

func TestRequireAuth(t *testing.T) {
	r := newEngine(RequireAuth("secret"))

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/write", nil).Code)
	assert.Equal(t, http.StatusUnauthorized,
		do(r, http.MethodPost, "/write", http.Header{"Authorization": {"Bearer garbage"}}).Code)

	tok, err := auth.GenerateToken("secret", "editor-1", time.Hour)
	require.NoError(t, err)
	w := do(r, http.MethodPost, "/write", http.Header{"Authorization": {"Bearer " + tok}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "editor-1", w.Body.String())
}

func TestRequireAuth_DisabledWithoutSecret(t *testing.T) {
	r := newEngine(RequireAuth(""))
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/write", nil).Code)
}
