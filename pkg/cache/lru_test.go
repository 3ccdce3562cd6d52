package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/simpleforms/pkg/cache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestLRU_Basic(t *testing.T) {
	t.Parallel()

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int](3, 0)
		c.Put("a", 1)
		c.Put("b", 2)

		v, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, v)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int](3, 0)
		v, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Zero(t, v)
	})

	t.Run("update keeps single entry", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int](3, 0)
		c.Put("a", 1)
		c.Put("a", 2)
		v, _ := c.Get("a")
		assert.Equal(t, 2, v)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("remove and clear", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int](3, 0)
		c.Put("a", 1)
		c.Put("b", 2)
		assert.True(t, c.Remove("a"))
		assert.False(t, c.Remove("a"))
		c.Clear()
		assert.Equal(t, 0, c.Len())
	})
}

func TestLRU_Eviction(t *testing.T) {
	t.Parallel()

	var evicted []string
	c := cache.New(2, 0, cache.WithEvictCallback(func(k string, _ int) {
		evicted = append(evicted, k)
	}))

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"b"}, evicted)
}

func TestLRU_TTL(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := cache.New(4, time.Minute, cache.WithClock[string, int](clock.Now))

	c.Put("a", 1)
	clock.Advance(30 * time.Second)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	clock.Advance(30 * time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry should expire exactly at ttl")
	assert.Equal(t, 0, c.Len())

	c.Put("b", 2)
	clock.Advance(50 * time.Second)
	c.Put("b", 3)
	clock.Advance(50 * time.Second)
	v, ok = c.Get("b")
	assert.True(t, ok, "put resets the expiry")
	assert.Equal(t, 3, v)
}

func TestLRU_Panics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { cache.New[string, int](0, 0) })
	assert.Panics(t, func() { cache.New[string, int](1, -time.Second) })
}

func TestLRU_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.New[int, int](16, time.Hour)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				c.Put(i*100+j, j)
				c.Get(j)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}
