package orderedset

// Set is an insertion-ordered set of comparable values.
//
// Mutations never modify a slice previously returned by [Set.Values], so a caller may range over a
// snapshot without holding whatever lock guards the Set.
// A Set is not concurrency safe on its own.
type Set[T comparable] struct {
	index  map[T]struct{}
	values []T
}

// New creates a [Set] with the given values, in order.
// Duplicate values after the first occurrence are ignored.
func New[T comparable](vals ...T) *Set[T] {
	s := &Set[T]{}
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

// Add appends val if it's not already present.
// Returns false if val was already in the [Set].
func (s *Set[T]) Add(val T) bool {
	if s.index == nil {
		s.index = map[T]struct{}{}
	}
	if _, ok := s.index[val]; ok {
		return false
	}
	s.index[val] = struct{}{}
	// Capping capacity forces append to allocate, leaving earlier snapshots untouched.
	n := len(s.values)
	s.values = append(s.values[:n:n], val)
	return true
}

// Remove deletes val, preserving the order of the remaining values.
// Returns false if val was not present.
func (s *Set[T]) Remove(val T) bool {
	if _, ok := s.index[val]; !ok {
		return false
	}
	delete(s.index, val)
	if len(s.index) == 0 {
		s.values = nil
		return true
	}
	remaining := make([]T, 0, len(s.values)-1)
	for _, v := range s.values {
		if v != val {
			remaining = append(remaining, v)
		}
	}
	s.values = remaining
	return true
}

func (s *Set[T]) Has(val T) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[val]
	return ok
}

func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Values returns the current snapshot of values in insertion order.
// The returned slice must not be modified.
func (s *Set[T]) Values() []T {
	if s == nil {
		return nil
	}
	return s.values
}

// Clear removes all values.
func (s *Set[T]) Clear() {
	s.index = nil
	s.values = nil
}
