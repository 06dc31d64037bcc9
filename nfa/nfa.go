package nfa

import (
	"fmt"
	"slices"

	"github.com/coregx/symrex/internal/conv"
	"github.com/coregx/symrex/internal/sparse"
)

// StateID uniquely identifies an automaton state.
// IDs are dense and zero-based; they are assigned once and never reused.
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID
const InvalidState StateID = 0xFFFFFFFF

// Rule is a transition between two states.
//
// A Rule with a nil Check is an epsilon rule: it fires without consuming
// input. Otherwise it fires when Check accepts the current symbol. Copying a
// Rule shares its predicate.
type Rule[I any] struct {
	From  StateID
	To    StateID
	Check func(sym I) bool
}

// NewEpsilonRule creates an unconditional transition.
func NewEpsilonRule[I any](from, to StateID) Rule[I] {
	return Rule[I]{From: from, To: to}
}

// NewCheckRule creates a transition gated by check.
func NewCheckRule[I any](from, to StateID, check func(sym I) bool) Rule[I] {
	return Rule[I]{From: from, To: to, Check: check}
}

// IsEpsilon reports whether the rule fires without consuming input.
func (r Rule[I]) IsEpsilon() bool {
	return r.Check == nil
}

// String returns a human-readable representation of the rule
func (r Rule[I]) String() string {
	if r.IsEpsilon() {
		return fmt.Sprintf("Rule(%d -ε-> %d)", r.From, r.To)
	}
	return fmt.Sprintf("Rule(%d -#<fn>-> %d)", r.From, r.To)
}

// EpsilonClosure returns the smallest state set containing seeds and closed
// under every epsilon rule in rules. The result is sorted ascending.
//
// Epsilon cycles are fine: a state is expanded at most once.
func EpsilonClosure[I any](seeds []StateID, rules []Rule[I]) []StateID {
	n := stateCount(seeds, rules)
	return closeOver(seeds, epsilonIndex(n, rules), sparse.NewSparseSet(conv.IntToUint32(n)))
}

// stateCount returns one more than the largest state mentioned by seeds or
// rules, i.e. the size of the dense ID space they use.
func stateCount[I any](seeds []StateID, rules []Rule[I]) int {
	hi := -1
	for _, s := range seeds {
		if s != InvalidState && int(s) > hi {
			hi = int(s)
		}
	}
	for _, r := range rules {
		if r.From != InvalidState && int(r.From) > hi {
			hi = int(r.From)
		}
		if r.To != InvalidState && int(r.To) > hi {
			hi = int(r.To)
		}
	}
	return hi + 1
}

// epsilonIndex groups epsilon targets by source state.
func epsilonIndex[I any](n int, rules []Rule[I]) [][]StateID {
	index := make([][]StateID, n)
	for _, r := range rules {
		if r.IsEpsilon() && r.From != InvalidState && r.To != InvalidState {
			index[r.From] = append(index[r.From], r.To)
		}
	}
	return index
}

// closeOver runs the closure worklist. seen is cleared first and is used as
// both the membership test and the result accumulator.
func closeOver(seeds []StateID, index [][]StateID, seen *sparse.SparseSet) []StateID {
	seen.Clear()
	stack := make([]StateID, 0, len(seeds))
	for _, s := range seeds {
		if int(s) >= seen.Capacity() {
			continue
		}
		if seen.Insert(uint32(s)) {
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, to := range index[s] {
			if seen.Insert(uint32(to)) {
				stack = append(stack, to)
			}
		}
	}

	result := make([]StateID, seen.Len())
	for i, v := range seen.Values() {
		result[i] = StateID(v)
	}
	slices.Sort(result)
	return result
}
