package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravtsov/checkout-service/pkg/cache"
)

func TestLRUCache_SetGet(t *testing.T) {
	c := cache.NewLRUCache(10, time.Minute)

	c.Set("a", []byte("first"))
	c.Set("b", []byte("second"))

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("first"), got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Overwrite(t *testing.T) {
	c := cache.NewLRUCache(10, time.Minute)

	c.Set("a", []byte("old"))
	c.Set("a", []byte("new"))

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
	assert.Equal(t, 1, c.Size())
}

func TestLRUCache_EvictsOldest(t *testing.T) {
	c := cache.NewLRUCache(2, time.Minute)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	// touching "a" makes "b" the eviction candidate
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", []byte("3"))

	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Size())
}

func TestLRUCache_TTL(t *testing.T) {
	c := cache.NewLRUCache(10, 10*time.Millisecond)

	c.Set("a", []byte("1"))
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestLRUCache_Remove(t *testing.T) {
	c := cache.NewLRUCache(10, time.Minute)

	c.Set("a", []byte("1"))
	c.Remove("a")
	c.Remove("never-existed")

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}
