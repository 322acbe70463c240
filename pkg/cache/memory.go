package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// record is a single cached value. exp is a UnixNano deadline; zero means
// the record never expires.
type record[V any] struct {
	key string
	val V
	exp int64
}

func (r *record[V]) stale(now int64) bool {
	return r.exp != 0 && now > r.exp
}

// Memory is an in-process Cache with TTL expiration and, when a capacity is
// configured, least-recently-used eviction. It is the default URL cache for
// single-instance deployments.
//
// Lookup is a map hit; recency order lives in a doubly-linked list whose
// front holds the most recently touched record.
type Memory[V any] struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List
	ttl     time.Duration
	cap     int
	stop    chan struct{}
	closed  bool
}

// NewMemory creates an in-process cache.
//
//	urls := cache.NewMemory[string](
//	    cache.WithDefaultTTL(10*time.Minute),
//	    cache.WithMaxEntries(10_000),
//	)
//	defer urls.Close()
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	cfg := memoryConfig{ttl: time.Hour, sweep: time.Minute}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Memory[V]{
		entries: make(map[string]*list.Element),
		lru:     list.New(),
		ttl:     cfg.ttl,
		cap:     cfg.cap,
		stop:    make(chan struct{}),
	}

	if cfg.sweep > 0 {
		go m.sweeper(cfg.sweep)
	}

	return m
}

// Get returns the value for key, refreshing its recency. Expired records
// are dropped on access, so Get stays correct with the sweeper disabled.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	var zero V

	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return zero, ErrNotFound
	}

	rec := el.Value.(*record[V])
	if rec.stale(time.Now().UnixNano()) {
		m.drop(el)
		return zero, ErrNotFound
	}

	m.lru.MoveToFront(el)
	return rec.val, nil
}

// Set stores value under key. Overwriting an existing key replaces both the
// value and its deadline and counts as a touch for eviction order. At
// capacity the least recently touched record makes room.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	exp := m.deadline(ttl)

	if el, ok := m.entries[key]; ok {
		rec := el.Value.(*record[V])
		rec.val = value
		rec.exp = exp
		m.lru.MoveToFront(el)
		return nil
	}

	if m.cap > 0 && len(m.entries) >= m.cap {
		if tail := m.lru.Back(); tail != nil {
			m.drop(tail)
		}
	}

	m.entries[key] = m.lru.PushFront(&record[V]{key: key, val: value, exp: exp})
	return nil
}

// Delete removes key if present.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if el, ok := m.entries[key]; ok {
		m.drop(el)
	}
	return nil
}

// Has reports whether key is present and unexpired, without touching its
// recency.
func (m *Memory[V]) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	if el.Value.(*record[V]).stale(time.Now().UnixNano()) {
		m.drop(el)
		return false, nil
	}
	return true, nil
}

// Clear drops every record.
func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	m.entries = make(map[string]*list.Element)
	m.lru.Init()
	return nil
}

// Close stops the sweeper and rejects further writes. Close is idempotent;
// reads keep working so in-flight requests can drain.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.stop)
	}
	return nil
}

// deadline resolves the Set ttl against the configured default. Zero or
// negative after resolution means no deadline.
func (m *Memory[V]) deadline(ttl time.Duration) int64 {
	if ttl == 0 {
		ttl = m.ttl
	}
	if ttl <= 0 {
		return 0
	}
	return time.Now().Add(ttl).UnixNano()
}

func (m *Memory[V]) sweeper(every time.Duration) {
	tick := time.NewTicker(every)
	defer tick.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-tick.C:
			m.removeStale()
		}
	}
}

func (m *Memory[V]) removeStale() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UnixNano()
	var next *list.Element
	for el := m.lru.Front(); el != nil; el = next {
		next = el.Next()
		if el.Value.(*record[V]).stale(now) {
			m.drop(el)
		}
	}
}

// drop removes el from both indexes. Caller holds mu.
func (m *Memory[V]) drop(el *list.Element) {
	m.lru.Remove(el)
	delete(m.entries, el.Value.(*record[V]).key)
}

var _ Cache[any] = (*Memory[any])(nil)
