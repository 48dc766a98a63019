// ABOUTME: In-memory gift registry
// ABOUTME: Thread-safe lookup of generated gifts by ID
package gift

import "sync"

// Store holds gifts keyed by ID
type Store struct {
	mu    sync.RWMutex
	gifts map[string]*Gift
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{gifts: make(map[string]*Gift)}
}

// Put adds or replaces a gift
func (s *Store) Put(g *Gift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gifts[g.ID] = g
}

// Get returns the gift with the given ID
func (s *Store) Get(id string) (*Gift, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.gifts[id]
	return g, ok
}

// Len returns the number of stored gifts
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.gifts)
}
