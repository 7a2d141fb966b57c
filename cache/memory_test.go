package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore(10, 2)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(10, 2)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Second))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), time.Minute))

	now = now.Add(2 * time.Second)
	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// 写入时清理过期项
	require.NoError(t, s.Set(ctx, "c", []byte("3"), time.Minute))
	assert.Equal(t, 2, s.Len())
}

func TestMemoryStore_FIFOTrim(t *testing.T) {
	s := NewMemoryStore(10, 3)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Set(ctx, fmt.Sprintf("k%d", i), []byte("x"), time.Minute))
	}
	// 读取不影响淘汰顺序
	_, err := s.Get(ctx, "k0")
	require.NoError(t, err)
	// 覆盖不改变插入位置
	require.NoError(t, s.Set(ctx, "k1", []byte("y"), time.Minute))
	assert.Equal(t, 10, s.Len())

	require.NoError(t, s.Set(ctx, "k10", []byte("x"), time.Minute))
	assert.Equal(t, 8, s.Len())

	for _, k := range []string{"k0", "k1", "k2"} {
		_, err := s.Get(ctx, k)
		assert.ErrorIs(t, err, ErrCacheMiss, k)
	}
	for _, k := range []string{"k3", "k9", "k10"} {
		_, err := s.Get(ctx, k)
		assert.NoError(t, err, k)
	}
}

func TestMemoryStore_DeleteByPattern(t *testing.T) {
	s := NewMemoryStore(100, 10)
	ctx := context.Background()

	for _, k := range []string{"menus:/api/menus", "menus:/api/menus?page=1", "cards:/api/cards/1", "ads:/api/ads"} {
		require.NoError(t, s.Set(ctx, k, []byte("x"), time.Minute))
	}

	require.NoError(t, s.DeleteByPattern(ctx, "menus:*"))
	assert.Equal(t, 2, s.Len())
	_, err := s.Get(ctx, "cards:/api/cards/1")
	assert.NoError(t, err)

	// 删除后重新写入，顺序表中不应出现重复键
	require.NoError(t, s.Set(ctx, "menus:/api/menus", []byte("x"), time.Minute))
	require.NoError(t, s.Delete(ctx, "menus:/api/menus"))
	require.NoError(t, s.Set(ctx, "menus:/api/menus", []byte("x"), time.Minute))
	assert.Len(t, s.order, s.Len())

	require.NoError(t, s.Flush(ctx))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_InvalidPattern(t *testing.T) {
	s := NewMemoryStore(10, 2)
	assert.Error(t, s.DeleteByPattern(context.Background(), "menus:[*"))
}
