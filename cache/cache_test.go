package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string, int](3)

	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("z")
	assert.False(t, ok)

	c.Set("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, uint64(1), c.Stats().Evicts)
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := New[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCache_GetOrLoad(t *testing.T) {
	c := New[uint64, string](4)
	calls := 0
	load := func() (string, error) {
		calls++
		return "digest", nil
	}

	v, hit, err := c.GetOrLoad(7, load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "digest", v)

	v, hit, err = c.GetOrLoad(7, load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "digest", v)
	assert.Equal(t, 1, calls)
}

func TestCache_GetOrLoadErrorNotCached(t *testing.T) {
	c := New[uint64, string](4)
	boom := errors.New("bad schema")

	_, _, err := c.GetOrLoad(1, func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	v, hit, err := c.GetOrLoad(1, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "ok", v)
}

func TestCache_Stats(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)

	c.Get("a")
	c.Get("a")
	c.Get("b")
	_, _, _ = c.GetOrLoad("c", func() (int, error) { return 3, nil })

	stats := c.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, 2, stats.Capacity)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
	assert.Equal(t, uint64(1), stats.Loads)
	assert.InDelta(t, 0.5, stats.HitRate, 0.001)
}

func TestCache_ZeroCapacity(t *testing.T) {
	c := New[int, int](0)
	for i := 0; i < 50; i++ {
		c.Set(i, i)
	}
	assert.Equal(t, 50, c.Len())
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int, int](100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Set(i, i*10)
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _, _ = c.GetOrLoad(i, func() (int, error) { return i * 10, nil })
		}(i)
	}
	wg.Wait()

	for i := 0; i < 100; i++ {
		v, ok := c.Get(i)
		require.True(t, ok)
		assert.Equal(t, i*10, v)
	}
}

func BenchmarkCache_Get(b *testing.B) {
	c := New[int, int](1000)
	for i := 0; i < 1000; i++ {
		c.Set(i, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(i % 1000)
	}
}

func BenchmarkCache_GetOrLoad(b *testing.B) {
	c := New[int, int](1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = c.GetOrLoad(i%1000, func() (int, error) { return i, nil })
	}
}
