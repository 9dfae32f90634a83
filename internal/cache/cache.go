// Package cache is the response cache shared by every gateway call: raw JSON
// bodies keyed by request, fresh for a fixed TTL.
package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"aghi-dashboard/internal/metrics"

	"golang.org/x/sync/singleflight"
)

// TTL applies to every key; there is no per-key override.
const TTL = 5 * time.Minute

// Entry is a cached response body and the time it was fetched.
type Entry struct {
	Key       string
	Value     []byte
	FetchedAt time.Time
}

// Cache maps request keys to entries. Writes only add or replace whole
// entries, so readers never see a partially written value.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	epoch   uint64
	now     func() time.Time
	flight  singleflight.Group
}

// New returns an empty cache on the wall clock.
func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock returns an empty cache that reads time from now.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		now:     now,
	}
}

// Get returns the value for key if it is younger than TTL. A stale entry is
// dropped on the way out and reported as absent.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	if c.now().Sub(e.FetchedAt) < TTL {
		metrics.CacheHitsTotal.Inc()
		return e.Value, true
	}

	c.mu.Lock()
	// Only drop the entry we judged stale; a concurrent Put may have replaced it.
	if cur, still := c.entries[key]; still && cur.FetchedAt.Equal(e.FetchedAt) {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	metrics.CacheMissesTotal.Inc()
	return nil, false
}

// Put stores value under key, replacing whatever was there.
func (c *Cache) Put(key string, value []byte) {
	c.mu.Lock()
	c.entries[key] = Entry{Key: key, Value: value, FetchedAt: c.now()}
	c.mu.Unlock()
}

// Clear empties the whole store. Fetches that were in flight when Clear ran
// still return to their callers but are not written back.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.epoch++
	c.mu.Unlock()
}

// Len counts stored entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fetch returns the fresh cached value for key or runs fetch to produce it.
// Concurrent callers asking for the same key share one fetch. Errors are
// never cached.
func (c *Cache) Fetch(ctx context.Context, key string, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.mu.RLock()
	epoch := c.epoch
	c.mu.RUnlock()

	v, err, shared := c.flight.Do(fmt.Sprintf("%d|%s", epoch, key), func() (interface{}, error) {
		body, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.epoch == epoch {
			c.entries[key] = Entry{Key: key, Value: body, FetchedAt: c.now()}
		}
		c.mu.Unlock()
		return body, nil
	})
	if shared {
		metrics.CacheSharedTotal.Inc()
	}
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Key encodes a request so that logically identical requests collide and
// distinct ones never do. Query parameters are sorted; empty values are kept
// because "state=" and no state are different requests upstream.
func Key(method, endpoint string, query url.Values, body []byte) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(method))
	b.WriteByte(' ')
	b.WriteString(endpoint)
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(query.Encode())
	}
	if len(body) > 0 {
		b.WriteString(" body=")
		b.Write(body)
	}
	return b.String()
}
