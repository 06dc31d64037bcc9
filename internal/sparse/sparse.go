// Package sparse provides a sparse set over dense uint32 identifiers.
//
// A sparse set supports O(1) insertion, membership testing and clearing while
// keeping a dense list of its members in insertion order. Both engines use it
// to deduplicate automaton states: the epsilon-NFA while computing closures,
// and the Pike VM while building one generation of threads.
package sparse

// SparseSet is a set of uint32 values drawn from [0, capacity).
// The sparse array maps a value to its index in the dense array; a value is
// present when the two agree, so Clear never has to touch the sparse array.
type SparseSet struct {
	sparse []uint32
	dense  []uint32
}

// NewSparseSet creates a new sparse set able to hold values below capacity.
func NewSparseSet(capacity uint32) *SparseSet {
	return &SparseSet{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds a value to the set and reports whether it was newly added.
// Panics if value >= Capacity().
func (s *SparseSet) Insert(value uint32) bool {
	if s.Contains(value) {
		return false
	}
	//nolint:gosec // G115: len(dense) < capacity which fits in uint32
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains returns true if the value is in the set.
// Values outside the capacity are never members.
func (s *SparseSet) Contains(value uint32) bool {
	if uint64(value) >= uint64(len(s.sparse)) {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}

// Clear removes all elements from the set in O(1) time.
func (s *SparseSet) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of elements in the set.
func (s *SparseSet) Len() int {
	return len(s.dense)
}

// IsEmpty returns true if the set contains no elements.
func (s *SparseSet) IsEmpty() bool {
	return len(s.dense) == 0
}

// Capacity returns the exclusive upper bound on storable values.
func (s *SparseSet) Capacity() int {
	return len(s.sparse)
}

// Values returns the members in insertion order.
// The returned slice is valid until the next mutation.
func (s *SparseSet) Values() []uint32 {
	return s.dense
}
