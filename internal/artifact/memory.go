package artifact

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the in-process Store. Contents do not survive a restart;
// clients that lose an id simply re-run the query.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
		now:     time.Now,
	}
}

// Stage inserts the bytes under a fresh UUID. Concurrent stages produce
// independent entries; there is no cross-entry coordination.
func (s *MemoryStore) Stage(ctx context.Context, bytes []byte, kind, domain string) (string, error) {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = &Record{
		ID:        id,
		Kind:      kind,
		Domain:    domain,
		Bytes:     bytes,
		CreatedAt: s.now(),
	}
	return id, nil
}

// Fetch returns the staged record without consuming it.
func (s *MemoryStore) Fetch(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Size reports the number of staged records.
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
