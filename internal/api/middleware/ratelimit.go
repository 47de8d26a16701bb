package middleware

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/zenith/pkg/logger"
	"github.com/d60-Lab/zenith/pkg/response"
)

// Limiter 判断 key 本次请求是否放行
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter 固定窗口计数，多实例共享配额
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

// NewRedisLimiter 每个 window 内最多 limit 次
func NewRedisLimiter(rdb *redis.Client, limit int64, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := fmt.Sprintf("rl:%s:%d", key, time.Now().UnixNano()/int64(l.window))
	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= l.limit, nil
}

// defaultMaxKeys 本地限流最多同时跟踪的客户端数
const defaultMaxKeys = 10000

type localBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// LocalLimiter 单进程令牌桶，每个 key 一个桶；空闲到桶已回满的 key 会被清掉
type LocalLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*localBucket
	rps       rate.Limit
	burst     int
	maxKeys   int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewLocalLimiter(rps float64, burst int) *LocalLimiter {
	// 空闲超过回满时间的桶与新桶等价，删掉不改变限流结果
	idle := time.Minute
	if rps > 0 {
		if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return &LocalLimiter{
		buckets: make(map[string]*localBucket),
		rps:     rate.Limit(rps),
		burst:   burst,
		maxKeys: defaultMaxKeys,
		idle:    idle,
		now:     time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}
	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= l.maxKeys {
			l.sweep(now)
		}
		if len(l.buckets) >= l.maxKeys {
			l.evictOldest()
		}
		b = &localBucket{lim: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1), nil
}

func (l *LocalLimiter) sweep(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.seen) >= l.idle {
			delete(l.buckets, k)
		}
	}
	l.lastSweep = now
}

func (l *LocalLimiter) evictOldest() {
	var oldest string
	var at time.Time
	found := false
	for k, b := range l.buckets {
		if !found || b.seen.Before(at) {
			oldest, at, found = k, b.seen, true
		}
	}
	delete(l.buckets, oldest)
}

// NewLimiter 配了 redis 用共享计数，否则退回本地令牌桶
func NewLimiter(rdb *redis.Client, rps float64, burst int) Limiter {
	if rdb == nil {
		return NewLocalLimiter(rps, burst)
	}
	perSecond := int64(math.Max(1, math.Ceil(rps)))
	return NewRedisLimiter(rdb, perSecond+int64(burst), time.Second)
}

// RateLimit 按客户端 IP 限流；限流器出错时放行
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			response.TooManyRequests(c, "Too many requests")
			return
		}
		c.Next()
	}
}
