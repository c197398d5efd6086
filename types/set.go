package types

import (
	"fmt"
	"sync"

	"github.com/goccy/go-json"
)

// Set is a concurrency safe generic set with JSON array representation.
type Set[T comparable] struct {
	mu       sync.Mutex
	storage  map[T]struct{}
	ordering []T
}

func NewSet[T comparable](values ...T) *Set[T] {
	set := &Set[T]{
		storage: make(map[T]struct{}),
	}
	set.Insert(values...)
	return set
}

func (s *Set[T]) Insert(values ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, value := range values {
		if _, found := s.storage[value]; found {
			continue
		}
		s.storage[value] = struct{}{}
		s.ordering = append(s.ordering, value)
	}
}

func (s *Set[T]) Exists(value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found := s.storage[value]
	return found
}

func (s *Set[T]) Remove(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.storage[value]; !found {
		return
	}
	delete(s.storage, value)
	for i, stored := range s.ordering {
		if stored == value {
			s.ordering = append(s.ordering[:i], s.ordering[i+1:]...)
			break
		}
	}
}

// Array returns set elements in insertion order.
func (s *Set[T]) Array() []T {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, len(s.ordering))
	copy(out, s.ordering)
	return out
}

func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.storage)
}

// Difference returns elements present in s but missing from other.
func (s *Set[T]) Difference(other *Set[T]) *Set[T] {
	diff := NewSet[T]()
	for _, elem := range s.Array() {
		if !other.Exists(elem) {
			diff.Insert(elem)
		}
	}
	return diff
}

// ProperSubsetOf reports whether other misses at least one element of s.
func (s *Set[T]) ProperSubsetOf(other *Set[T]) bool {
	return s.Difference(other).Len() > 0
}

func (s *Set[T]) String() string {
	return fmt.Sprintf("%v", s.Array())
}

func (s *Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Array())
}

func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}

	s.mu.Lock()
	s.storage = make(map[T]struct{})
	s.ordering = nil
	s.mu.Unlock()

	s.Insert(values...)
	return nil
}
