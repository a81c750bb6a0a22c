package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. It serializes bags to JSON
// so reads always pass through the same decode path as the Redis store,
// including the legacy cart-entry migration. Expired entries are dropped
// lazily on lookup.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration

	now func() time.Time
}

// NewMemoryStore creates an in-process store with the given TTL in hours.
func NewMemoryStore(ttlHours int) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      storageTTL(ttlHours),
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, sid string) (*Data, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sid]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, sid)
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	var data Data
	if err := json.Unmarshal(entry.payload, &data); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sid, err)
	}
	return &data, nil
}

func (s *MemoryStore) Save(ctx context.Context, sid string, data *Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sid, err)
	}

	s.mu.Lock()
	s.sessions[sid] = memoryEntry{payload: payload, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sid string) error {
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()
	return nil
}
