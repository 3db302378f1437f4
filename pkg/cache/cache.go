package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

const defaultJanitorInterval = 2 * time.Minute

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// Stats are cumulative counters since the cache was created.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Expired   uint64
}

// LRU is a size bounded cache with per-entry TTL. The least recently used
// entry is evicted once capacity is exceeded; expired entries are dropped
// lazily on Get and periodically by Run.
type LRU[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	ll       *list.List
	items    map[string]*list.Element
	stats    Stats

	now             func() time.Time
	janitorInterval time.Duration
}

type Option func(*options)

type options struct {
	now             func() time.Time
	janitorInterval time.Duration
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithJanitorInterval(d time.Duration) Option {
	return func(o *options) { o.janitorInterval = d }
}

func New[V any](capacity int, ttl time.Duration, opts ...Option) *LRU[V] {
	o := options{now: time.Now, janitorInterval: defaultJanitorInterval}
	for _, opt := range opts {
		opt(&o)
	}
	if capacity < 1 {
		capacity = 1
	}

	return &LRU[V]{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),

		now:             o.now,
		janitorInterval: o.janitorInterval,
	}
}

func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	ele, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}

	ent := ele.Value.(*entry[V])
	if c.now().After(ent.expiresAt) {
		c.remove(ele)
		c.stats.Expired++
		c.stats.Misses++
		return zero, false
	}

	c.ll.MoveToFront(ele)
	c.stats.Hits++
	return ent.value, true
}

// Set stores value under key and restarts its TTL.
func (c *LRU[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if ele, ok := c.items[key]; ok {
		ent := ele.Value.(*entry[V])
		ent.value = value
		ent.expiresAt = expiresAt
		c.ll.MoveToFront(ele)
		return
	}

	c.items[key] = c.ll.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	for c.ll.Len() > c.capacity {
		c.remove(c.ll.Back())
		c.stats.Evictions++
	}
}

// Delete drops key so the next Get misses.
func (c *LRU[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, ok := c.items[key]; ok {
		c.remove(ele)
	}
}

func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Run evicts expired entries on every janitor tick until ctx is done.
func (c *LRU[V]) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.purgeExpired()
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *LRU[V]) purgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	purged := 0
	for e := c.ll.Back(); e != nil; {
		prev := e.Prev()
		if now.After(e.Value.(*entry[V]).expiresAt) {
			c.remove(e)
			purged++
		}
		e = prev
	}
	c.stats.Expired += uint64(purged)
	return purged
}

func (c *LRU[V]) remove(e *list.Element) {
	c.ll.Remove(e)
	delete(c.items, e.Value.(*entry[V]).key)
}
