package nfa

import (
	"fmt"
)

// Builder constructs an EpsilonNFA incrementally.
// It hands out dense state IDs and checks that every rule refers to a state
// it allocated.
type Builder[I any] struct {
	states int
	rules  []Rule[I]
	goals  []StateID
}

// NewBuilder creates a new NFA builder with default capacity
func NewBuilder[I any]() *Builder[I] {
	return NewBuilderWithCapacity[I](16)
}

// NewBuilderWithCapacity creates a new NFA builder with specified initial rule capacity
func NewBuilderWithCapacity[I any](capacity int) *Builder[I] {
	return &Builder[I]{
		rules: make([]Rule[I], 0, capacity),
	}
}

// AddState allocates a new state and returns its ID
func (b *Builder[I]) AddState() StateID {
	id := StateID(b.states)
	b.states++
	return id
}

// AddEpsilon adds an unconditional transition
func (b *Builder[I]) AddEpsilon(from, to StateID) {
	b.rules = append(b.rules, NewEpsilonRule[I](from, to))
}

// AddCheck adds a transition gated by check
func (b *Builder[I]) AddCheck(from, to StateID, check func(sym I) bool) {
	b.rules = append(b.rules, NewCheckRule(from, to, check))
}

// AddGoal marks an accepting state
func (b *Builder[I]) AddGoal(id StateID) {
	b.goals = append(b.goals, id)
}

// States returns the current number of states
func (b *Builder[I]) States() int {
	return b.states
}

// Validate checks that the automaton is well-formed:
// - At least one state exists
// - The seed, every goal and every rule endpoint is an allocated state
func (b *Builder[I]) Validate(seed StateID) error {
	if b.states == 0 {
		return &BuildError{Message: "no states allocated", StateID: InvalidState, Err: ErrNoStates}
	}
	if !b.valid(seed) {
		return &BuildError{Message: "seed state out of bounds", StateID: seed, Err: ErrInvalidState}
	}
	for _, g := range b.goals {
		if !b.valid(g) {
			return &BuildError{Message: "goal state out of bounds", StateID: g, Err: ErrInvalidState}
		}
	}
	for i, r := range b.rules {
		if !b.valid(r.From) {
			return &BuildError{
				Message: fmt.Sprintf("rule %d source out of bounds", i),
				StateID: r.From,
				Err:     ErrInvalidState,
			}
		}
		if !b.valid(r.To) {
			return &BuildError{
				Message: fmt.Sprintf("rule %d target %d out of bounds", i, r.To),
				StateID: r.From,
				Err:     ErrInvalidState,
			}
		}
	}
	return nil
}

func (b *Builder[I]) valid(id StateID) bool {
	return id != InvalidState && int(id) < b.states
}

// Build validates and returns the automaton seeded at seed.
func (b *Builder[I]) Build(seed StateID) (*EpsilonNFA[I], error) {
	if err := b.Validate(seed); err != nil {
		return nil, err
	}
	return New(seed, b.rules, b.goals)
}
