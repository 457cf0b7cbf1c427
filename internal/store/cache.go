package store

import (
	"sync"
	"time"

	"bond-tc-sim/internal/sim"

	"github.com/google/uuid"
)

// Entry is a stored ensemble run.
type Entry struct {
	ID        string
	Result    *sim.Result
	CreatedAt time.Time
	ExpiresAt time.Time
}

// RunCache keeps recent ensemble results in memory so their paths can be
// fetched after the simulation response. Entries expire after the TTL; when
// full, the oldest entry is evicted. A nil *RunCache stores nothing.
type RunCache struct {
	mu       sync.RWMutex
	entries  map[string]*Entry
	ttl      time.Duration
	capacity int
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// New returns a cache and starts its cleanup goroutine; call Close to stop it.
// capacity <= 0 means unbounded.
func New(ttl time.Duration, capacity int) *RunCache {
	return newRunCache(ttl, capacity, time.Now)
}

func newRunCache(ttl time.Duration, capacity int, now func() time.Time) *RunCache {
	c := &RunCache{
		entries:  make(map[string]*Entry),
		ttl:      ttl,
		capacity: capacity,
		now:      now,
		stop:     make(chan struct{}),
	}
	go c.cleanup(cleanupInterval(ttl))
	return c
}

// Put stores a result under a new ID.
func (c *RunCache) Put(res *sim.Result) string {
	id := uuid.NewString()
	if c == nil {
		return id
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity > 0 && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	now := c.now()
	c.entries[id] = &Entry{
		ID:        id,
		Result:    res,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	return id
}

// Get retrieves a stored run if present and not expired.
func (c *RunCache) Get(id string) (*Entry, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok || c.now().After(e.ExpiresAt) {
		return nil, false
	}
	return e, true
}

func (c *RunCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *RunCache) Close() {
	if c == nil {
		return
	}
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *RunCache) evictOldestLocked() {
	var oldest *Entry
	for _, e := range c.entries {
		if oldest == nil || e.CreatedAt.Before(oldest.CreatedAt) {
			oldest = e
		}
	}
	if oldest != nil {
		delete(c.entries, oldest.ID)
	}
}

// Purge removes expired entries and returns how many were dropped.
func (c *RunCache) Purge() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for id, e := range c.entries {
		if now.After(e.ExpiresAt) {
			delete(c.entries, id)
			n++
		}
	}
	return n
}

// cleanup periodically removes expired entries
func (c *RunCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.Purge()
		}
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	every := ttl / 2
	if every < time.Second {
		every = time.Second
	}
	if every > 5*time.Minute {
		every = 5 * time.Minute
	}
	return every
}
