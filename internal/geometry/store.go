package geometry

import "sync"

// Store holds geometry records keyed by handle. Removal is destructive:
// once a record is taken the handle resolves to nothing.
type Store struct {
	records map[Handle]*Record
	mu      sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[Handle]*Record),
	}
}

// Insert stores a record, replacing any previous record for the handle.
func (s *Store) Insert(h Handle, rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[h] = rec
}

// Get returns the record for a handle without removing it.
func (s *Store) Get(h Handle) (*Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[h]
	if ok {
		s.hits++
	} else {
		s.misses++
	}
	return rec, ok
}

// Remove takes the record out of the store and returns it.
func (s *Store) Remove(h Handle) (*Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[h]
	if !ok {
		s.misses++
		return nil, false
	}
	s.hits++
	delete(s.records, h)
	return rec, true
}

// Contains reports whether a record exists for the handle.
func (s *Store) Contains(h Handle) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[h]
	return ok
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Stats returns lookup statistics.
func (s *Store) Stats() (hits, misses int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits, s.misses
}
