package cache

import (
	"context"
	"sync"
	"time"

	"linkaudit/internal/models"
)

type Options struct {
	TTL        time.Duration
	MaxEntries int
}

type entry struct {
	info      models.HeaderInfo
	expiresAt time.Time
}

// Memory keeps header results in process. Entries expire after TTL (zero
// means never) and the oldest keys are evicted first once MaxEntries is hit.
type Memory struct {
	mu    sync.RWMutex
	items map[string]*entry
	order []string
	opts  Options
	now   func() time.Time
}

func NewMemory(opts Options) *Memory {
	return &Memory{
		items: make(map[string]*entry),
		order: make([]string, 0, 128),
		opts:  opts,
		now:   time.Now,
	}
}

func (c *Memory) Read(_ context.Context, key string) (models.HeaderInfo, bool, error) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return models.HeaderInfo{}, false, nil
	}
	if c.expired(e) {
		c.deleteExpired(key)
		return models.HeaderInfo{}, false, nil
	}
	return e.info, true, nil
}

func (c *Memory) expired(e *entry) bool {
	return !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt)
}

// deleteExpired removes key only if the entry stored now is still expired;
// a Write may have replaced it since it was read.
func (c *Memory) deleteExpired(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok && c.expired(e) {
		delete(c.items, key)
		c.removeFromOrder(key)
	}
}

func (c *Memory) Write(_ context.Context, key string, info models.HeaderInfo) error {
	e := &entry{info: info}
	if c.opts.TTL > 0 {
		e.expiresAt = c.now().Add(c.opts.TTL)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[key]; !exists {
		c.order = append(c.order, key)
	}
	c.items[key] = e
	c.evictIfNeeded()
	return nil
}

func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Memory) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// FIFO eviction
func (c *Memory) evictIfNeeded() {
	if c.opts.MaxEntries <= 0 || len(c.items) <= c.opts.MaxEntries {
		return
	}
	excess := len(c.items) - c.opts.MaxEntries
	for excess > 0 && len(c.order) > 0 {
		victim := c.order[0]
		c.order = c.order[1:]
		delete(c.items, victim)
		excess--
	}
}
