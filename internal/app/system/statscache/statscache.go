// Package statscache holds the admin console's derived read-models: a
// TTL-cached stats snapshot and a bounded recent-activity feed.
//
// Both are process-wide mutable state, so each is owned by one
// mutex-guarded structure. TTL eviction is an explicit timestamp comparison
// on read; the feed is a fixed-capacity ring buffer with FIFO eviction.
package statscache

import (
	"context"
	"sync"
	"time"
)

// StatsData is the aggregate snapshot served by the admin stats endpoint.
type StatsData struct {
	TotalUsers      int64 `json:"totalUsers"`
	ApprovedUsers   int64 `json:"approvedUsers"`
	PendingRequests int64 `json:"pendingRequests"`
	TotalClubs      int64 `json:"totalClubs"`
	TotalMembers    int64 `json:"totalMembers"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// Loader produces a fresh StatsData when the cached one has expired.
type Loader func(ctx context.Context) (StatsData, error)

// Cache is a single-value TTL cache for StatsData.
type Cache struct {
	mu        sync.Mutex
	ttl       time.Duration
	data      StatsData
	fetchedAt time.Time
}

// NewCache creates a stats cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl}
}

// Get returns the cached snapshot when it is still fresh, otherwise runs
// the loader and caches its result. A loader failure leaves the previous
// snapshot (and its timestamp) untouched.
func (c *Cache) Get(ctx context.Context, load Loader) (StatsData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.ttl {
		return c.data, nil
	}

	data, err := load(ctx)
	if err != nil {
		return StatsData{}, err
	}
	data.GeneratedAt = time.Now().UTC()
	c.data = data
	c.fetchedAt = data.GeneratedAt
	return data, nil
}

// Invalidate drops the cached snapshot so the next Get reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
}

// Entry is one line in the recent-activity feed.
type Entry struct {
	Kind    string    `json:"kind"` // registration | approval | rejection | club_deleted
	Actor   string    `json:"actor"`
	Subject string    `json:"subject"`
	Detail  string    `json:"detail,omitempty"`
	At      time.Time `json:"at"`
}

// Feed is a bounded, concurrency-safe ring buffer of recent activity.
// When full, recording a new entry evicts the oldest.
type Feed struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewFeed creates a feed that retains the last cap entries.
func NewFeed(cap int) *Feed {
	if cap <= 0 {
		cap = 50
	}
	return &Feed{entries: make([]Entry, cap)}
}

// Record appends an entry, evicting the oldest when the buffer is full.
func (f *Feed) Record(e Entry) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[f.next] = e
	f.next++
	if f.next == len(f.entries) {
		f.next = 0
		f.full = true
	}
}

// Recent returns the retained entries, newest first.
func (f *Feed) Recent() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int
	if f.full {
		n = len(f.entries)
	} else {
		n = f.next
	}
	out := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		idx := f.next - 1 - i
		if idx < 0 {
			idx += len(f.entries)
		}
		out = append(out, f.entries[idx])
	}
	return out
}
