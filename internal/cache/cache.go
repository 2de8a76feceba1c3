// Package cache is the client-side query cache for job lists. It is the
// only shared mutable state in the core; every write goes through either a
// generation-checked fetch write (CompareAndSet) or the optimistic
// update/rollback protocol in the service layer (Set/Invalidate).
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/suleigolden/sulber-core/internal/entity"
	"github.com/suleigolden/sulber-core/internal/match"
)

// Entry is a cached value plus the time it was stored, so callers can apply
// a bounded-staleness window.
type Entry struct {
	Data     []byte
	StoredAt time.Time
}

// Store is a keyed byte store with per-key generations.
//
// Generations implement cancel-on-supersede: a fetch reads the generation
// before going to the network and writes its result with CompareAndSet,
// which is a no-op if the generation moved in the meantime (an optimistic
// patch or an invalidation happened). Set and Invalidate bump the
// generation; CompareAndSet does not.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, data []byte) error
	Generation(ctx context.Context, key string) (int64, error)
	CompareAndSet(ctx context.Context, key string, gen int64, data []byte) (bool, error)
	Invalidate(ctx context.Context, keys ...string) error
}

// AvailableJobsKey keys the provider's available-jobs list. The address is
// part of the key: changing the declared service area supersedes any
// in-flight fetch for the old area.
func AvailableJobsKey(providerID string, addr *entity.Address) string {
	if addr == nil {
		return "availableJobs:" + providerID + ":"
	}
	fp := strings.Join([]string{
		match.Normalize(addr.Country),
		match.Normalize(addr.State),
		match.Normalize(addr.City),
		match.Normalize(addr.Street),
	}, "|")
	return "availableJobs:" + providerID + ":" + fp
}

// RoleJobsKey keys the actor's own job list (customer or provider).
func RoleJobsKey(userID string) string {
	return "roleJobs:" + userID
}

type memEntry struct {
	data     []byte
	storedAt time.Time
	gen      int64
}

// Memory is the in-process Store used for single-node runs and tests.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*memEntry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]*memEntry)}
}

func (m *Memory) entry(key string) *memEntry {
	e, ok := m.entries[key]
	if !ok {
		e = &memEntry{}
		m.entries[key] = e
	}
	return e
}

func (m *Memory) Get(ctx context.Context, key string) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || e.data == nil {
		return Entry{}, false, nil
	}
	data := make([]byte, len(e.data))
	copy(data, e.data)
	return Entry{Data: data, StoredAt: e.storedAt}, true, nil
}

func (m *Memory) Set(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(key)
	e.data = make([]byte, len(data))
	copy(e.data, data)
	e.storedAt = time.Now()
	e.gen++
	return nil
}

func (m *Memory) Generation(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entry(key).gen, nil
}

func (m *Memory) CompareAndSet(ctx context.Context, key string, gen int64, data []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(key)
	if e.gen != gen {
		return false, nil
	}
	e.data = make([]byte, len(data))
	copy(e.data, data)
	e.storedAt = time.Now()
	return true, nil
}

func (m *Memory) Invalidate(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		e := m.entry(key)
		e.data = nil
		e.gen++
	}
	return nil
}
