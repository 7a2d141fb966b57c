package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"navhub/config"

	"github.com/charmbracelet/log"
)

// Manager 缓存入口。
// 配置了 Redis 且可用时使用 Redis，否则使用内存缓存；
// Redis 出错后记录日志并切换到内存缓存，错误不会返回给调用方。
// nil Manager 等同于关闭缓存，所有读取都未命中。
type Manager struct {
	redis    Store
	memory   *MemoryStore
	degraded atomic.Bool
	ttl      time.Duration
	logger   *log.Logger
}

// NewManager 按配置创建缓存
func NewManager(cfg config.CacheConfig) *Manager {
	m := &Manager{
		memory: NewMemoryStore(cfg.MaxEntries, cfg.EvictBatch),
		ttl:    cfg.TTL(),
		logger: log.Default().WithPrefix("cache"),
	}
	if m.ttl <= 0 {
		m.ttl = 5 * time.Minute
	}

	if cfg.RedisURL == "" {
		m.logger.Info("使用内存缓存（未配置Redis）")
		return m
	}

	opts := DefaultRedisOptions()
	opts.URL = cfg.RedisURL
	if cfg.Prefix != "" {
		opts.Prefix = cfg.Prefix
	}
	rs, err := NewRedisStore(opts)
	if err != nil {
		m.logger.Error("Redis连接失败，切换到内存缓存", "err", err)
		return m
	}
	m.redis = rs
	m.logger.Info("Redis已连接")
	return m
}

// NewMemoryManager 只使用内存缓存
func NewMemoryManager(ttl time.Duration, maxEntries, evictBatch int) *Manager {
	return &Manager{
		memory: NewMemoryStore(maxEntries, evictBatch),
		ttl:    ttl,
		logger: log.Default().WithPrefix("cache"),
	}
}

// Backend 当前生效的后端
func (m *Manager) Backend() string {
	if m == nil {
		return "disabled"
	}
	if m.useRedis() {
		return "redis"
	}
	return "memory"
}

// TTL 默认缓存时间
func (m *Manager) TTL() time.Duration {
	if m == nil {
		return 0
	}
	return m.ttl
}

func (m *Manager) useRedis() bool {
	return m.redis != nil && !m.degraded.Load()
}

func (m *Manager) store() Store {
	if m.useRedis() {
		return m.redis
	}
	return m.memory
}

// fail 记录错误；Redis 出错时切换到内存缓存
func (m *Manager) fail(op string, err error) {
	if m.useRedis() {
		if m.degraded.CompareAndSwap(false, true) {
			m.logger.Error("Redis错误，切换到内存缓存", "op", op, "err", err)
		}
		return
	}
	m.logger.Error("缓存操作失败", "op", op, "err", err)
}

// GetBytes 读取原始字节
func (m *Manager) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	if m == nil {
		return nil, false
	}
	val, err := m.store().Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			m.fail("get", err)
		}
		return nil, false
	}
	return val, len(val) > 0
}

// Get 读取并反序列化到 dest，未命中或失败返回 false
func (m *Manager) Get(ctx context.Context, key string, dest any) bool {
	val, ok := m.GetBytes(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		m.logger.Error("缓存读取失败", "key", key, "err", err)
		return false
	}
	return true
}

// SetBytes 写入原始字节，ttl <= 0 时使用默认时间
func (m *Manager) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if m == nil {
		return
	}
	if ttl <= 0 {
		ttl = m.ttl
	}
	if err := m.store().Set(ctx, key, value, ttl); err != nil {
		m.fail("set", err)
	}
}

// Set 序列化后写入
func (m *Manager) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if m == nil {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		m.logger.Error("缓存写入失败", "key", key, "err", err)
		return
	}
	m.SetBytes(ctx, key, b, ttl)
}

// Delete 删除单个键
func (m *Manager) Delete(ctx context.Context, key string) {
	if m == nil {
		return
	}
	if err := m.store().Delete(ctx, key); err != nil {
		m.fail("delete", err)
	}
}

// DeleteByPattern 删除匹配的键，如 menus:*
func (m *Manager) DeleteByPattern(ctx context.Context, patterns ...string) {
	if m == nil {
		return
	}
	for _, p := range patterns {
		if err := m.store().DeleteByPattern(ctx, p); err != nil {
			m.fail("delete pattern", err)
		}
	}
}

// FlushAll 清空全部缓存
func (m *Manager) FlushAll(ctx context.Context) {
	if m == nil {
		return
	}
	if err := m.store().Flush(ctx); err != nil {
		m.fail("flush", err)
	}
	// 切换过后端时内存里可能还留有数据
	if m.redis != nil {
		_ = m.memory.Flush(ctx)
	}
}

// Close 关闭 Redis 连接
func (m *Manager) Close() error {
	if m == nil || m.redis == nil {
		return nil
	}
	return m.redis.Close()
}
