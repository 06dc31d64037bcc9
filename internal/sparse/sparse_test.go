package sparse

import (
	"testing"
)

func TestSparseSet_Basic(t *testing.T) {
	s := NewSparseSet(100)

	if !s.IsEmpty() {
		t.Error("new set should be empty")
	}
	if s.Contains(0) {
		t.Error("empty set should not contain 0")
	}

	if !s.Insert(5) {
		t.Error("first insert should return true")
	}
	if !s.Contains(5) {
		t.Error("set should contain 5 after insert")
	}
	if s.Insert(5) {
		t.Error("duplicate insert should return false")
	}
	if s.Len() != 1 {
		t.Errorf("len should be 1, got %d", s.Len())
	}

	s.Insert(10)
	s.Insert(3)
	s.Insert(7)
	if s.Len() != 4 {
		t.Errorf("len should be 4, got %d", s.Len())
	}

	s.Clear()
	if !s.IsEmpty() {
		t.Error("set should be empty after clear")
	}
	if s.Contains(5) {
		t.Error("cleared set should not contain 5")
	}
}

func TestSparseSet_InsertionOrder(t *testing.T) {
	s := NewSparseSet(100)
	s.Insert(5)
	s.Insert(2)
	s.Insert(8)
	s.Insert(1)

	expected := []uint32{5, 2, 8, 1}
	values := s.Values()
	if len(values) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(values))
	}
	for i, v := range values {
		if v != expected[i] {
			t.Errorf("at index %d: expected %d, got %d", i, expected[i], v)
		}
	}
}

func TestSparseSet_OutOfRange(t *testing.T) {
	s := NewSparseSet(4)
	if s.Contains(4) {
		t.Error("value equal to capacity must not be a member")
	}
	if s.Contains(1 << 31) {
		t.Error("large value must not be a member")
	}
	if s.Capacity() != 4 {
		t.Errorf("capacity = %d, want 4", s.Capacity())
	}
}

func TestSparseSet_StaleSparseEntries(t *testing.T) {
	// After Clear the sparse array still holds old indices; membership must
	// be decided by the dense array alone.
	s := NewSparseSet(8)
	s.Insert(3)
	s.Insert(6)
	s.Clear()
	s.Insert(6)

	if s.Contains(3) {
		t.Error("3 should not survive Clear")
	}
	if !s.Contains(6) {
		t.Error("6 should be a member after re-insert")
	}
	if got := s.Values(); len(got) != 1 || got[0] != 6 {
		t.Errorf("Values() = %v, want [6]", got)
	}
}
