package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitOptions 滑动窗口限流参数
type RateLimitOptions struct {
	Max     int
	Window  time.Duration
	Message string
	// SkipSuccessful 只统计失败的请求（状态码 >= 400）
	SkipSuccessful bool
}

type rateEntry struct {
	timestamps []time.Time
}

// prune 移除窗口外的记录
func (e *rateEntry) prune(cutoff time.Time) {
	kept := e.timestamps[:0]
	for _, t := range e.timestamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	e.timestamps = kept
}

// drop 移除一条指定记录
func (e *rateEntry) drop(ts time.Time) {
	for i, t := range e.timestamps {
		if t.Equal(ts) {
			e.timestamps = append(e.timestamps[:i], e.timestamps[i+1:]...)
			return
		}
	}
}

// RateLimit 按客户端 IP 的滑动窗口限流，超过则返回 429
func RateLimit(opts RateLimitOptions) gin.HandlerFunc {
	if opts.Message == "" {
		opts.Message = "请求过于频繁，请稍后再试"
	}
	var (
		mu    sync.Mutex
		store = make(map[string]*rateEntry)
	)
	// 定期清理过期数据
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			cutoff := time.Now().Add(-opts.Window)
			for ip, e := range store {
				e.prune(cutoff)
				if len(e.timestamps) == 0 {
					delete(store, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()
		mu.Lock()
		e, ok := store[ip]
		if !ok {
			e = &rateEntry{}
			store[ip] = e
		}
		e.prune(now.Add(-opts.Window))
		remaining := opts.Max - len(e.timestamps)
		if remaining <= 0 {
			mu.Unlock()
			c.Header("RateLimit-Limit", strconv.Itoa(opts.Max))
			c.Header("RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(opts.Window.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": opts.Message,
			})
			c.Abort()
			return
		}
		e.timestamps = append(e.timestamps, now)
		mu.Unlock()

		c.Header("RateLimit-Limit", strconv.Itoa(opts.Max))
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining-1))
		c.Next()

		if opts.SkipSuccessful && c.Writer.Status() < http.StatusBadRequest {
			mu.Lock()
			e.drop(now)
			mu.Unlock()
		}
	}
}

// LoginRateLimit 登录接口限流，成功的登录不计数
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	return RateLimit(RateLimitOptions{
		Max:            maxAttempts,
		Window:         window,
		Message:        "登录尝试过多，请15分钟后再试",
		SkipSuccessful: true,
	})
}
