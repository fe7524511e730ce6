package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

const (
	DefaultTTL        = 30 * time.Minute
	DefaultMaxEntries = 2048
)

// Store caches raw upstream payloads by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

type Stats struct {
	Entries   int    `json:"entries"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Expired   uint64 `json:"expired"`
}

// ExpiringStore exposes absolute expiry times so a copy made between tiers
// keeps the deadline of the original entry.
type ExpiringStore interface {
	Store
	GetWithExpiry(ctx context.Context, key string) (value []byte, expiresAt time.Time, ok bool)
	SetUntil(ctx context.Context, key string, value []byte, expiresAt time.Time)
}

// Peeker reads without touching lookup stats or recency.
type Peeker interface {
	Peek(ctx context.Context, key string) ([]byte, bool)
}

// StatsReporter is implemented by stores that count lookups.
type StatsReporter interface {
	Stats() Stats
}

type entry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// Memory is a size-bounded LRU whose entries expire ttl after they were set,
// or earlier when SetUntil gives a closer deadline. Expired entries are
// removed on the lookup that finds them.
type Memory struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	order      *list.List
	entries    map[string]*list.Element
	stats      Stats
	now        func() time.Time
}

type MemoryOption func(*Memory)

// WithClock swaps the time source, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

func NewMemory(ttl time.Duration, maxEntries int, opts ...MemoryOption) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries < 1 {
		maxEntries = DefaultMaxEntries
	}

	m := &Memory{
		ttl:        ttl,
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool) {
	value, _, ok := m.GetWithExpiry(ctx, key)
	return value, ok
}

func (m *Memory) GetWithExpiry(_ context.Context, key string) ([]byte, time.Time, bool) {
	if key == "" {
		return nil, time.Time{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		m.stats.Misses++
		return nil, time.Time{}, false
	}

	e := el.Value.(*entry)
	if !m.now().Before(e.expiresAt) {
		m.removeElement(el)
		m.stats.Expired++
		m.stats.Misses++
		return nil, time.Time{}, false
	}

	m.order.MoveToFront(el)
	m.stats.Hits++
	return e.value, e.expiresAt, true
}

func (m *Memory) Peek(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if !m.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) {
	m.SetUntil(ctx, key, value, time.Time{})
}

// SetUntil stores value until expiresAt, capped at now+ttl. A zero expiresAt
// means now+ttl; a deadline already past stores nothing.
func (m *Memory) SetUntil(_ context.Context, key string, value []byte, expiresAt time.Time) {
	if key == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if limit := now.Add(m.ttl); expiresAt.IsZero() || expiresAt.After(limit) {
		expiresAt = limit
	}
	if !expiresAt.After(now) {
		return
	}

	if el, ok := m.entries[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		m.order.MoveToFront(el)
		return
	}

	el := m.order.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
	m.entries[key] = el

	for m.order.Len() > m.maxEntries {
		oldest := m.order.Back()
		if oldest == nil {
			break
		}
		m.removeElement(oldest)
		m.stats.Evictions++
	}
}

func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		m.removeElement(el)
	}
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.stats
	out.Entries = m.order.Len()
	return out
}

func (m *Memory) removeElement(el *list.Element) {
	m.order.Remove(el)
	delete(m.entries, el.Value.(*entry).key)
}
