package querycache

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/five82/shaker/internal/logging"
)

// Status is the fetch state of a query key.
type Status int

const (
	Unfetched Status = iota
	InFlight
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case InFlight:
		return "IN_FLIGHT"
	case Succeeded:
		return "SUCCEEDED"
	case Failed:
		return "FAILED"
	default:
		return "UNFETCHED"
	}
}

// Entry is the observable state of one key.
type Entry struct {
	Status Status
	Err    error
}

// FetchFunc performs the remote lookup for key.
type FetchFunc[V any] func(ctx context.Context, key string) (V, error)

type entry[V any] struct {
	status Status
	value  V
	err    error
}

// Cache memoizes successful fetches per key for the lifetime of the value.
type Cache[V any] struct {
	fetch FetchFunc[V]
	log   *slog.Logger
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]*entry[V]
}

// New returns an empty cache backed by fetch.
func New[V any](fetch FetchFunc[V], logger *slog.Logger) *Cache[V] {
	return &Cache[V]{
		fetch:   fetch,
		log:     logging.OrDiscard(logger).With("component", "querycache"),
		entries: make(map[string]*entry[V]),
	}
}

// Get returns the cached value for key, or fetches it. Callers arriving while
// a fetch for key is in flight wait for that fetch instead of starting one.
func (c *Cache[V]) Get(ctx context.Context, key string) (V, error) {
	if v, ok := c.Peek(key); ok {
		c.log.Debug("cache hit", "key", key)
		return v, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// A previous flight may have finished between Peek and DoChan.
		if v, ok := c.Peek(key); ok {
			return v, nil
		}
		c.set(key, &entry[V]{status: InFlight})
		c.log.Debug("fetching", "key", key)

		v, err := c.fetch(detached, key)
		if err != nil {
			c.set(key, &entry[V]{status: Failed, err: err})
			c.log.Warn("fetch failed", "key", key, "error", err)
			return v, err
		}
		c.set(key, &entry[V]{status: Succeeded, value: v})
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Peek returns the cached value for key without fetching.
func (c *Cache[V]) Peek(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[key]; ok && e.status == Succeeded {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Prime stores value for key as if it had been fetched. It does nothing
// when key already succeeded or is in flight, and reports whether it stored.
func (c *Cache[V]) Prime(key string, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && (e.status == Succeeded || e.status == InFlight) {
		return false
	}
	c.entries[key] = &entry[V]{status: Succeeded, value: value}
	return true
}

// State reports the fetch state for key.
func (c *Cache[V]) State(key string) Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry{Status: Unfetched}
	}
	return Entry{Status: e.status, Err: e.err}
}

// States returns the fetch state of every key seen so far.
func (c *Cache[V]) States() map[string]Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Entry, len(c.entries))
	for k, e := range c.entries {
		out[k] = Entry{Status: e.status, Err: e.err}
	}
	return out
}

func (c *Cache[V]) set(key string, e *entry[V]) {
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}
