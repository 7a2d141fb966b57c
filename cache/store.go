// Package cache 提供可选的 Redis 缓存，未配置或不可用时退回进程内缓存。
package cache

import (
	"context"
	"time"
)

// Store 缓存后端，值统一为序列化后的字节
type Store interface {
	// Get 未命中或已过期时返回 ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeleteByPattern 删除匹配 glob 模式（如 menus:*）的所有键
	DeleteByPattern(ctx context.Context, pattern string) error
	// Flush 清空本应用的全部缓存
	Flush(ctx context.Context) error
	Close() error
}

// Error 缓存错误
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss 键不存在或已过期
	ErrCacheMiss Error = "cache miss"
	// ErrCacheClosed 缓存已关闭
	ErrCacheClosed Error = "cache closed"
)
