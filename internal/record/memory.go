package record

import (
	"maps"
	"slices"
	"sync"
)

// MemoryStore keeps records for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Get(player string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[player]
	if !ok {
		return Record{Player: player}, nil
	}
	return rec, nil
}

func (s *MemoryStore) Submit(res Result) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, improved := merge(s.records[res.Player], res)
	s.records[res.Player] = rec
	return rec, improved, nil
}

func (s *MemoryStore) Top(n int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return top(slices.Collect(maps.Values(s.records)), n), nil
}

var _ Store = (*MemoryStore)(nil)
