package middleware

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/beego/beego/v2/server/web"
	beecontext "github.com/beego/beego/v2/server/web/context"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shikhar1verma/chat-contract-pdf/internal/logger"
)

// RateLimiter 按客户端IP的固定窗口限流器。
// 配置了Redis时用INCR+EXPIRE实现跨实例共享计数，否则退回进程内计数。
type RateLimiter struct {
	redisClient *redis.Client

	mu      sync.Mutex
	windows map[string]*localWindow
}

type localWindow struct {
	count     int
	expiresAt time.Time
}

// NewRateLimiter 创建限流器。redisClient可以为nil。
func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	rl := &RateLimiter{
		redisClient: redisClient,
		windows:     make(map[string]*localWindow),
	}
	go rl.cleanup()
	return rl
}

// Limit 生成限流过滤器：每个IP对该路由每分钟最多perMinute次请求
func (rl *RateLimiter) Limit(route string, perMinute int) web.FilterFunc {
	return func(ctx *beecontext.Context) {
		if perMinute <= 0 {
			return
		}

		clientIP := clientIP(ctx)
		if rl.allow(route, clientIP, perMinute) {
			return
		}

		ctx.Output.SetStatus(429)
		ctx.Output.Header("Content-Type", "application/json")
		ctx.Output.Header("Retry-After", "60")
		body := fmt.Sprintf(`{"success":false,"error":{"code":"TOO_MANY_REQUESTS","message":"Rate limit exceeded: %d per minute"}}`, perMinute)
		ctx.Output.Body([]byte(body))
	}
}

func (rl *RateLimiter) allow(route, clientIP string, perMinute int) bool {
	if rl.redisClient != nil {
		allowed, err := rl.allowRedis(route, clientIP, perMinute)
		if err == nil {
			return allowed
		}
		logger.Warn("Rate limiter falling back to in-memory counters", zap.Error(err))
	}
	return rl.allowLocal(route, clientIP, perMinute)
}

func (rl *RateLimiter) allowRedis(route, clientIP string, perMinute int) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := fmt.Sprintf("ratelimit:%s:%s", route, clientIP)
	count, err := rl.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := rl.redisClient.Expire(ctx, key, time.Minute).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(perMinute), nil
}

func (rl *RateLimiter) allowLocal(route, clientIP string, perMinute int) bool {
	now := time.Now()
	key := route + ":" + clientIP

	rl.mu.Lock()
	defer rl.mu.Unlock()

	window, ok := rl.windows[key]
	if !ok || now.After(window.expiresAt) {
		rl.windows[key] = &localWindow{count: 1, expiresAt: now.Add(time.Minute)}
		return true
	}
	window.count++
	return window.count <= perMinute
}

func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		now := time.Now()
		rl.mu.Lock()
		for key, window := range rl.windows {
			if now.After(window.expiresAt) {
				delete(rl.windows, key)
			}
		}
		rl.mu.Unlock()
	}
}

// clientIP 获取客户端真实IP
func clientIP(ctx *beecontext.Context) string {
	if xff := ctx.Input.Header("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := ctx.Input.Header("X-Real-IP"); xri != "" {
		return xri
	}
	return ctx.Input.IP()
}
