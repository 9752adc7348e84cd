package registry

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 32

// Memory is an in-process Registry for single-instance deployments. Entries
// are spread over fixed shards, each behind its own RWMutex, so concurrent
// lookups do not contend on one global lock. Expired entries are evicted
// lazily on lookup; Sweep can be scheduled to bound memory between lookups.
type Memory struct {
	shards [shardCount]memoryShard
}

type memoryShard struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	subjectID int64
	expiresAt time.Time
}

// NewMemory returns an empty in-process registry.
func NewMemory() *Memory {
	m := &Memory{}
	for i := range m.shards {
		m.shards[i].entries = make(map[string]memoryEntry)
	}
	return m
}

func (m *Memory) shard(sessionID string) *memoryShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &m.shards[h.Sum32()%shardCount]
}

// Register stores or overwrites the entry for sessionID with expiry now+ttl.
func (m *Memory) Register(_ context.Context, sessionID string, subjectID int64, ttl time.Duration) error {
	s := m.shard(sessionID)
	s.mu.Lock()
	s.entries[sessionID] = memoryEntry{subjectID: subjectID, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

// Lookup returns the owning subject id for an unexpired entry. An expired
// entry is removed and reported as absent.
func (m *Memory) Lookup(_ context.Context, sessionID string) (int64, bool, error) {
	s := m.shard(sessionID)
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok {
		return 0, false, nil
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock: a concurrent Register may have
		// replaced the entry since the read.
		if cur, ok := s.entries[sessionID]; ok && time.Now().After(cur.expiresAt) {
			delete(s.entries, sessionID)
		}
		s.mu.Unlock()
		return 0, false, nil
	}
	return e.subjectID, true, nil
}

// Revoke removes the entry for sessionID. Missing entries are a no-op.
func (m *Memory) Revoke(_ context.Context, sessionID string) error {
	s := m.shard(sessionID)
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

// Size returns the number of stored entries, expired-but-unswept included.
func (m *Memory) Size(_ context.Context) (int, error) {
	n := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n, nil
}

// Sweep removes all expired entries and returns how many were evicted.
// Correctness does not depend on it; it only bounds memory for sessions that
// expire without ever being looked up again.
func (m *Memory) Sweep() int {
	now := time.Now()
	evicted := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		for id, e := range s.entries {
			if now.After(e.expiresAt) {
				delete(s.entries, id)
				evicted++
			}
		}
		s.mu.Unlock()
	}
	return evicted
}
