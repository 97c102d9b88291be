package registry

import "sync"

// store is an insertion-ordered map shared by the three registries.
// Re-registering an existing key replaces the value in place, keeping
// the key's original position; last registration wins.
type store[T any] struct {
	mu    sync.RWMutex
	keys  []string
	items map[string]T
}

func newStore[T any]() *store[T] {
	return &store[T]{items: make(map[string]T)}
}

func (s *store[T]) put(key string, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.items[key] = item
}

func (s *store[T]) get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[key]
	return item, ok
}

func (s *store[T]) values() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, s.items[key])
	}
	return out
}

func (s *store[T]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}
