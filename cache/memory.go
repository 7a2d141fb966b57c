package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/gobwas/glob"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore 进程内缓存。
// 写入时清理过期项；条目数超过上限时按插入顺序删除最早的一批（FIFO，不是 LRU）。
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	order      []string // 插入顺序，与 entries 的键一一对应
	maxEntries int
	evictBatch int
	now        func() time.Time
}

// NewMemoryStore 创建进程内缓存
func NewMemoryStore(maxEntries, evictBatch int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	if evictBatch <= 0 {
		evictBatch = 200
	}
	return &MemoryStore{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		evictBatch: evictBatch,
		now:        time.Now,
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !s.now().Before(e.expiresAt) {
		s.remove(key)
		return nil, ErrCacheMiss
	}
	return e.value, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 覆盖已有键时保留原插入位置
	if _, ok := s.entries[key]; !ok {
		s.order = append(s.order, key)
	}
	s.entries[key] = memoryEntry{value: value, expiresAt: s.now().Add(ttl)}
	s.cleanup()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(key)
	return nil
}

func (s *MemoryStore) DeleteByPattern(_ context.Context, pattern string) error {
	g, err := glob.Compile(pattern)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = slices.DeleteFunc(s.order, func(k string) bool {
		if g.Match(k) {
			delete(s.entries, k)
			return true
		}
		return false
	})
	return nil
}

func (s *MemoryStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	s.order = nil
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Len 当前条目数（含尚未清理的过期项）
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) remove(key string) {
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	if i := slices.Index(s.order, key); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

// cleanup 调用方持有锁
func (s *MemoryStore) cleanup() {
	now := s.now()
	s.order = slices.DeleteFunc(s.order, func(k string) bool {
		if !now.Before(s.entries[k].expiresAt) {
			delete(s.entries, k)
			return true
		}
		return false
	})

	if len(s.entries) > s.maxEntries {
		n := min(s.evictBatch, len(s.order))
		for _, k := range s.order[:n] {
			delete(s.entries, k)
		}
		s.order = slices.Delete(s.order, 0, n)
	}
}
