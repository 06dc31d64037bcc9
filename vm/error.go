// Package vm compiles a syntax tree into a flat instruction program and runs
// it with a Pike VM.
//
// The program is an array of instructions indexed by program counter. Split
// and Jmp carry resolved targets, Save instructions mark capture boundaries
// and Check instructions test one input symbol with a caller predicate. The
// Pike VM executes every live thread in lock step over the input, ordered by
// priority, so it recovers leftmost-first capture positions without
// backtracking.
package vm

import (
	"errors"
	"fmt"

	"github.com/coregx/symrex/syntax"
)

// Common compilation errors
var (
	// ErrInvalidRegexp indicates a malformed syntax tree (nil node, missing
	// predicate, wrong operand count, empty group name, unknown op)
	ErrInvalidRegexp = errors.New("invalid regular expression tree")

	// ErrInvalidRepeat indicates a negative, inverted or oversized repeat count
	ErrInvalidRepeat = errors.New("invalid repeat count")

	// ErrTooComplex indicates the tree is nested too deeply to compile
	ErrTooComplex = errors.New("expression too complex")

	// ErrProgramTooLarge indicates the compiled program exceeds the configured size
	ErrProgramTooLarge = errors.New("compiled program too large")

	// ErrInvalidProgram indicates a program that breaks a layout invariant
	ErrInvalidProgram = errors.New("invalid program")
)

// CompileError wraps compilation errors with the operator being compiled
type CompileError struct {
	Op  syntax.Op
	Err error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Op != 0 {
		return fmt.Sprintf("regex compilation failed at %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("regex compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}
