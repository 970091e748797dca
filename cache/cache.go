// Copyright 2025 The eolscout Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache maps (provider, fingerprint) pairs to lookup results with
// per-provider TTLs and guarantees at most one concurrent in-flight lookup
// per key. Results served from the cache are deep copies; callers can't
// mutate the stored entry.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/log"
	"github.com/eolscout/eolscout/lookup"
	"github.com/mohae/deepcopy"
	"golang.org/x/sync/singleflight"
)

// Default TTLs. Negative entries (not_found) expire sooner so a product that
// gains data upstream isn't shadowed for a full day.
const (
	DefaultTTL         = 24 * time.Hour
	DefaultNegativeTTL = time.Hour
)

// Entry is the stored cache value: either a successful result or a negative
// marker recording the terminal error kind.
type Entry struct {
	Result    lookup.Result    `json:"result"`
	Negative  bool             `json:"negative,omitempty"`
	ErrorKind lookup.ErrorKind `json:"error_kind,omitempty"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// Store is the backend holding cache entries. Implementations must enforce
// the TTL at read time (an expired entry is a miss) and must be safe for
// concurrent use. Keys are (agentID, fingerprint); the agent id is part of
// the key so two providers may disagree without overwriting one another.
type Store interface {
	Get(agentID string, fp fingerprint.Fingerprint) (Entry, bool)
	Put(agentID string, fp fingerprint.Fingerprint, e Entry) error
	// Delete removes one entry, reporting whether it existed.
	Delete(agentID string, fp fingerprint.Fingerprint) (bool, error)
	// DeletePrefix removes all entries for one agent, or every entry when
	// agentID is empty. Returns the number of deleted entries.
	DeletePrefix(agentID string) (int, error)
}

// Key renders the canonical persistent-store key for an entry.
func Key(agentID string, fp fingerprint.Fingerprint) string {
	return fmt.Sprintf("eol/%s/%s", agentID, fp.Hex16())
}

// Cache wraps a Store with single-flight coalescing and negative caching.
type Cache struct {
	store       Store
	ttl         time.Duration
	negativeTTL time.Duration
	now         func() time.Time

	group   singleflight.Group
	mu      sync.Mutex
	flights map[string]*flight
}

// flight tracks the live waiters of one in-flight lookup. The leader runs
// with flight.ctx, which is cancelled once the last waiter abandons.
type flight struct {
	waiters int
	ctx     context.Context
	cancel  context.CancelFunc
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the positive-entry TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithNegativeTTL overrides the negative-entry TTL.
func WithNegativeTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.negativeTTL = ttl }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a Cache over the given store. A nil store defaults to the
// in-process memory store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:       store,
		ttl:         DefaultTTL,
		negativeTTL: DefaultNegativeTTL,
		now:         time.Now,
		flights:     map[string]*flight{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.store == nil {
		// The fallback store shares the cache clock, so WithClock moves
		// entry expiry along with it.
		c.store = &MemoryStore{entries: map[string]Entry{}, now: c.now}
	}
	return c
}

// Lookup returns the cached result for (agentID, fp) or, on miss, invokes fn
// exactly once across all concurrent callers of the same key and caches its
// outcome. The second return reports whether the result came from the cache.
//
// Cancellation: a waiter whose ctx is cancelled stops waiting immediately.
// The underlying fn keeps running as long as at least one live waiter
// remains; when the last one abandons, fn's context is cancelled too.
func (c *Cache) Lookup(ctx context.Context, agentID string, fp fingerprint.Fingerprint, fn func(context.Context) (lookup.Result, error)) (lookup.Result, bool, error) {
	if e, ok := c.store.Get(agentID, fp); ok {
		if e.Negative {
			return lookup.Result{}, true, lookup.NewError(e.ErrorKind, agentID, nil)
		}
		return copyResult(e.Result), true, nil
	}

	key := Key(agentID, fp)

	c.mu.Lock()
	f, ok := c.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		c.flights[key] = f
	}
	f.waiters++
	c.mu.Unlock()

	ch := c.group.DoChan(key, func() (any, error) {
		defer func() {
			c.mu.Lock()
			// The map may already hold a successor flight started after
			// every waiter of this one abandoned; only remove our own.
			if c.flights[key] == f {
				delete(c.flights, key)
			}
			c.mu.Unlock()
			f.cancel()
		}()
		res, err := fn(f.ctx)
		if err != nil {
			if kind := lookup.KindOf(err); kind == lookup.ErrNotFound {
				_ = c.store.Put(agentID, fp, Entry{
					Negative:  true,
					ErrorKind: kind,
					ExpiresAt: c.now().Add(c.negativeTTL),
				})
			}
			return nil, err
		}
		if putErr := c.store.Put(agentID, fp, Entry{Result: res, ExpiresAt: c.now().Add(c.ttl)}); putErr != nil {
			// A failed write only costs us a future cache hit.
			log.Warnf("cache put for %s failed: %v", key, putErr)
		}
		return res, nil
	})

	select {
	case r := <-ch:
		c.abandon(key, f)
		if r.Err != nil {
			return lookup.Result{}, false, r.Err
		}
		return copyResult(r.Val.(lookup.Result)), false, nil
	case <-ctx.Done():
		c.abandon(key, f)
		return lookup.Result{}, false, lookup.NewError(lookup.ErrCancelled, agentID, ctx.Err())
	}
}

// abandon drops one waiter; the last one out cancels the leader.
func (c *Cache) abandon(key string, f *flight) {
	c.mu.Lock()
	f.waiters--
	last := f.waiters == 0
	if last && c.flights[key] == f {
		delete(c.flights, key)
	}
	c.mu.Unlock()
	if last {
		f.cancel()
	}
}

// Purge removes cached entries, all of them or just one agent's.
func (c *Cache) Purge(agentID string) (int, error) {
	return c.store.DeletePrefix(agentID)
}

// Evict removes the single entry for (agentID, fp), returning how many
// entries were removed (0 or 1).
func (c *Cache) Evict(agentID string, fp fingerprint.Fingerprint) (int, error) {
	ok, err := c.store.Delete(agentID, fp)
	if ok {
		return 1, err
	}
	return 0, err
}

func copyResult(r lookup.Result) lookup.Result {
	return deepcopy.Copy(r).(lookup.Result)
}

// MemoryStore is the in-process Store with read-time TTL enforcement.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]Entry{}, now: time.Now}
}

// Get implements Store.
func (m *MemoryStore) Get(agentID string, fp fingerprint.Fingerprint) (Entry, bool) {
	m.mu.RLock()
	e, ok := m.entries[Key(agentID, fp)]
	m.mu.RUnlock()
	if !ok || m.now().After(e.ExpiresAt) {
		return Entry{}, false
	}
	return e, true
}

// Put implements Store.
func (m *MemoryStore) Put(agentID string, fp fingerprint.Fingerprint, e Entry) error {
	m.mu.Lock()
	m.entries[Key(agentID, fp)] = e
	m.mu.Unlock()
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(agentID string, fp fingerprint.Fingerprint) (bool, error) {
	key := Key(agentID, fp)
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok, nil
}

// DeletePrefix implements Store.
func (m *MemoryStore) DeletePrefix(agentID string) (int, error) {
	prefix := "eol/"
	if agentID != "" {
		prefix = fmt.Sprintf("eol/%s/", agentID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for k := range m.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(m.entries, k)
			deleted++
		}
	}
	return deleted, nil
}
