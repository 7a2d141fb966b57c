package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore 基于 Redis 的缓存，所有键带统一前缀
type RedisStore struct {
	client *redis.Client
	prefix string
	closed atomic.Bool
}

// RedisOptions Redis 连接参数
type RedisOptions struct {
	URL            string
	Prefix         string
	PoolSize       int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DefaultRedisOptions 默认连接参数
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Prefix:         "nav:",
		PoolSize:       10,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
	}
}

// NewRedisStore 连接 Redis 并 PING 一次，失败时返回错误
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}
	if opts.PoolSize > 0 {
		redisOpts.PoolSize = opts.PoolSize
	}
	if opts.ConnectTimeout > 0 {
		redisOpts.DialTimeout = opts.ConnectTimeout
	}
	if opts.ReadTimeout > 0 {
		redisOpts.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		redisOpts.WriteTimeout = opts.WriteTimeout
	}
	// 只重试 3 次
	redisOpts.MaxRetries = 3

	client := redis.NewClient(redisOpts)

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisStore{client: client, prefix: opts.Prefix}, nil
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrCacheClosed
	}
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	return s.client.Set(ctx, s.key(key), value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	return s.client.Del(ctx, s.key(key)).Err()
}

// DeleteByPattern 用 SCAN 代替 KEYS，避免阻塞 Redis
func (s *RedisStore) DeleteByPattern(ctx context.Context, pattern string) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	return s.scanDelete(ctx, s.prefix+pattern)
}

// Flush 只清空本应用前缀下的键
func (s *RedisStore) Flush(ctx context.Context) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	return s.scanDelete(ctx, s.prefix+"*")
}

func (s *RedisStore) scanDelete(ctx context.Context, match string) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (s *RedisStore) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		return s.client.Close()
	}
	return nil
}
