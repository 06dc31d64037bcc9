// Package nfa provides an epsilon-NFA over caller-supplied symbol predicates.
//
// Transitions are Rules between dense integer states. A Rule either fires
// unconditionally (an epsilon rule) or when its predicate accepts the current
// input symbol. EpsilonNFA simulates the automaton Thompson style: it tracks
// the set of all active states and advances the whole set per symbol. It
// answers membership only and records no capture positions; package vm is the
// capture-aware engine.
package nfa

import (
	"errors"
	"fmt"
)

// Common NFA errors
var (
	// ErrInvalidState indicates an invalid NFA state ID was encountered
	ErrInvalidState = errors.New("invalid NFA state")

	// ErrNoStates indicates an automaton was built without any states
	ErrNoStates = errors.New("NFA has no states")

	// ErrInvalidRegexp indicates a malformed tree was passed to Compile
	ErrInvalidRegexp = errors.New("invalid regexp tree")

	// ErrInvalidRepeat indicates repeat bounds that are negative, inverted
	// or above the configured maximum
	ErrInvalidRepeat = errors.New("invalid repeat bounds")

	// ErrTooLarge indicates the automaton would exceed MaxStates
	ErrTooLarge = errors.New("NFA too large")
)

// BuildError represents an error during NFA construction.
type BuildError struct {
	Message string
	StateID StateID
	Err     error
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}

// Unwrap returns the underlying error
func (e *BuildError) Unwrap() error {
	return e.Err
}
