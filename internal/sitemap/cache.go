package sitemap

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader produces a fresh Result, typically (*Fetcher).Fetch.
type Loader func(ctx context.Context) (Result, error)

// Cache holds a single inventory for ttl. A value is published only once it
// is fully built, so readers never observe a partial inventory. Concurrent
// misses share one load.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu          sync.Mutex
	value       *Result
	populatedAt time.Time
	generation  uint64

	group singleflight.Group
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

// Get returns the cached Result while it is younger than ttl. Otherwise it
// calls load, publishes the result and returns it. The boolean reports a hit.
func (c *Cache) Get(ctx context.Context, load Loader) (Result, bool, error) {
	c.mu.Lock()
	if c.value != nil && c.now().Sub(c.populatedAt) < c.ttl {
		v := *c.value
		c.mu.Unlock()
		return v, true, nil
	}
	gen := c.generation
	c.mu.Unlock()

	ch := c.group.DoChan(flightKey(gen), func() (any, error) {
		// the load outlives any single waiter
		res, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.generation == gen {
			c.value = &res
			c.populatedAt = c.now()
		}
		c.mu.Unlock()
		return res, nil
	})

	select {
	case <-ctx.Done():
		return Result{}, false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Result{}, false, r.Err
		}
		return r.Val.(Result), false, nil
	}
}

// Invalidate drops the cached value. A load already in flight still returns
// to its callers but is not published.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.value = nil
	c.populatedAt = time.Time{}
	c.generation++
	c.mu.Unlock()
}

// PopulatedAt reports when the current value was stored; ok is false when empty.
func (c *Cache) PopulatedAt() (t time.Time, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.populatedAt, c.value != nil
}

func flightKey(gen uint64) string {
	return "inventory/" + strconv.FormatUint(gen, 10)
}
