package reporter

import "sync"

// IndexStore is an in-memory IndexSource whose values can be changed at
// runtime, typically through the admin surface.
type IndexStore struct {
	mu     sync.RWMutex
	values map[string]int
}

// NewIndexStore returns an empty store.
func NewIndexStore() *IndexStore {
	return &IndexStore{values: make(map[string]int)}
}

// Set stores the current index value for a path.
func (s *IndexStore) Set(path string, v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[path] = v
}

// Value implements IndexSource.
func (s *IndexStore) Value(path string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[path]
	return v, ok
}
