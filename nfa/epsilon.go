package nfa

import (
	"fmt"
	"slices"

	"github.com/coregx/symrex/internal/conv"
	"github.com/coregx/symrex/internal/sparse"
)

// EpsilonNFA simulates an epsilon-NFA over predicate rules.
//
// The current state set is always an epsilon closure. The closure of the seed
// state is computed once at construction and retained for Reset.
//
// An EpsilonNFA is stateful and not safe for concurrent use; use Clone to give
// each goroutine its own copy.
type EpsilonNFA[I any] struct {
	rules []Rule[I]

	// Rules indexed by source state. Immutable after New and shared by clones.
	epsilon [][]StateID
	checks  [][]Rule[I]
	goal    []bool

	initial []StateID
	current []StateID

	// scratch for closure computation
	seen *sparse.SparseSet
	next []StateID
}

// New creates an automaton whose initial and current state sets are the
// epsilon closure of seed.
//
// Returns a *BuildError wrapping ErrInvalidState if seed, a goal or a rule
// endpoint is InvalidState.
func New[I any](seed StateID, rules []Rule[I], goals []StateID) (*EpsilonNFA[I], error) {
	if seed == InvalidState {
		return nil, &BuildError{Message: "seed state is invalid", StateID: InvalidState, Err: ErrInvalidState}
	}
	for i, r := range rules {
		if r.From == InvalidState || r.To == InvalidState {
			return nil, &BuildError{
				Message: fmt.Sprintf("rule %d (%s) has an invalid endpoint", i, r),
				StateID: InvalidState,
				Err:     ErrInvalidState,
			}
		}
	}
	for _, g := range goals {
		if g == InvalidState {
			return nil, &BuildError{Message: "goal state is invalid", StateID: InvalidState, Err: ErrInvalidState}
		}
	}

	n := stateCount(append([]StateID{seed}, goals...), rules)
	e := &EpsilonNFA[I]{
		rules:   slices.Clone(rules),
		epsilon: epsilonIndex(n, rules),
		checks:  make([][]Rule[I], n),
		goal:    make([]bool, n),
		seen:    sparse.NewSparseSet(conv.IntToUint32(n)),
	}
	for _, r := range rules {
		if !r.IsEpsilon() {
			e.checks[r.From] = append(e.checks[r.From], r)
		}
	}
	for _, g := range goals {
		e.goal[g] = true
	}

	e.initial = closeOver([]StateID{seed}, e.epsilon, e.seen)
	e.current = e.initial
	return e, nil
}

// TryUpdate advances the automaton by one symbol.
//
// Every check rule leaving an active state whose predicate accepts sym fires
// in the same step; the targets are then epsilon-closed. If nothing fires the
// current state set is left unchanged and TryUpdate returns false, so callers
// can try candidate symbols without committing.
func (e *EpsilonNFA[I]) TryUpdate(sym I) bool {
	e.next = e.next[:0]
	for _, s := range e.current {
		for _, r := range e.checks[s] {
			if r.Check(sym) {
				e.next = append(e.next, r.To)
			}
		}
	}
	if len(e.next) == 0 {
		return false
	}
	e.current = closeOver(e.next, e.epsilon, e.seen)
	return true
}

// Run folds TryUpdate over syms, stopping at the first symbol that fires no
// rule. It reports whether every symbol was consumed.
func (e *EpsilonNFA[I]) Run(syms []I) bool {
	for _, sym := range syms {
		if !e.TryUpdate(sym) {
			return false
		}
	}
	return true
}

// Accept runs syms and reports whether all of them were consumed and the
// resulting state set contains a goal state.
func (e *EpsilonNFA[I]) Accept(syms []I) bool {
	return e.Run(syms) && e.IsAccepting()
}

// IsAccepting reports whether a goal state is currently active.
func (e *EpsilonNFA[I]) IsAccepting() bool {
	for _, s := range e.current {
		if e.goal[s] {
			return true
		}
	}
	return false
}

// Reset restores the initial state set.
func (e *EpsilonNFA[I]) Reset() {
	e.current = e.initial
}

// Current returns a copy of the active state set, sorted ascending.
func (e *EpsilonNFA[I]) Current() []StateID {
	return slices.Clone(e.current)
}

// Initial returns a copy of the initial state set, sorted ascending.
func (e *EpsilonNFA[I]) Initial() []StateID {
	return slices.Clone(e.initial)
}

// Rules returns a copy of the automaton's rules.
func (e *EpsilonNFA[I]) Rules() []Rule[I] {
	return slices.Clone(e.rules)
}

// States returns the size of the state ID space the automaton refers to.
func (e *EpsilonNFA[I]) States() int {
	return len(e.goal)
}

// Clone returns an independent copy sharing the immutable rule tables.
func (e *EpsilonNFA[I]) Clone() *EpsilonNFA[I] {
	c := *e
	c.seen = sparse.NewSparseSet(conv.IntToUint32(len(e.goal)))
	c.next = nil
	return &c
}

// String returns a human-readable representation of the automaton
func (e *EpsilonNFA[I]) String() string {
	goals := make([]StateID, 0)
	for s, ok := range e.goal {
		if ok {
			goals = append(goals, StateID(s))
		}
	}
	return fmt.Sprintf("EpsilonNFA{current: %v, rules: %v, goals: %v}", e.current, e.rules, goals)
}
