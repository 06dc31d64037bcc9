package vm

import (
	"fmt"
	"strings"
)

// PC is a program counter: an index into Program.Insts.
type PC uint32

// InstOp identifies the kind of instruction.
type InstOp uint8

const (
	// InstBegin succeeds only at input position 0. Zero-width.
	InstBegin InstOp = iota

	// InstEnd succeeds only at the end of input. Zero-width.
	InstEnd

	// InstCheck consumes one symbol; the thread dies if Check rejects it.
	InstCheck

	// InstSaveOpen records the current position in slot 2*Group. Zero-width.
	InstSaveOpen

	// InstSaveClose records the current position in slot 2*Group+1. Zero-width.
	InstSaveClose

	// InstSaveNamedOpen is InstSaveOpen for a group that also has Name.
	InstSaveNamedOpen

	// InstSaveNamedClose is InstSaveClose for a group that also has Name.
	InstSaveNamedClose

	// InstSplit forks to X and Y. X has strictly higher priority. Zero-width.
	InstSplit

	// InstJmp continues at X. Zero-width.
	InstJmp

	// InstMatch is the accepting terminal.
	InstMatch
)

// String returns a human-readable representation of the InstOp
func (op InstOp) String() string {
	switch op {
	case InstBegin:
		return "Begin"
	case InstEnd:
		return "End"
	case InstCheck:
		return "Check"
	case InstSaveOpen:
		return "SaveOpen"
	case InstSaveClose:
		return "SaveClose"
	case InstSaveNamedOpen:
		return "SaveNamedOpen"
	case InstSaveNamedClose:
		return "SaveNamedClose"
	case InstSplit:
		return "Split"
	case InstJmp:
		return "Jmp"
	case InstMatch:
		return "Match"
	default:
		return fmt.Sprintf("Unknown(%d)", op)
	}
}

// Inst is a single VM instruction.
// The op determines which fields are valid.
type Inst[I any] struct {
	Op InstOp

	// For Split: preferred and fallback targets. For Jmp: X only.
	X, Y PC

	// For Save*: capture group index and, for named saves, the group name.
	Group int
	Name  string

	// For Check: the symbol predicate.
	Check func(sym I) bool
}

// IsSave reports whether the instruction records a capture boundary.
func (in *Inst[I]) IsSave() bool {
	switch in.Op {
	case InstSaveOpen, InstSaveClose, InstSaveNamedOpen, InstSaveNamedClose:
		return true
	}
	return false
}

// Slot returns the capture slot written by a save instruction.
func (in *Inst[I]) Slot() int {
	switch in.Op {
	case InstSaveOpen, InstSaveNamedOpen:
		return 2 * in.Group
	case InstSaveClose, InstSaveNamedClose:
		return 2*in.Group + 1
	}
	return -1
}

// String returns a human-readable representation of the instruction
func (in *Inst[I]) String() string {
	switch in.Op {
	case InstSplit:
		return fmt.Sprintf("Split(%d, %d)", in.X, in.Y)
	case InstJmp:
		return fmt.Sprintf("Jmp(%d)", in.X)
	case InstSaveOpen, InstSaveClose:
		return fmt.Sprintf("%s(%d)", in.Op, in.Group)
	case InstSaveNamedOpen, InstSaveNamedClose:
		return fmt.Sprintf("%s(%q, %d)", in.Op, in.Name, in.Group)
	case InstCheck:
		return "Check(#<fn>)"
	default:
		return in.Op.String()
	}
}

// Program is a compiled instruction array.
//
// Group 0 is the implicit whole-match group added by Compiler.Compile.
// Names has one entry per group; unnamed groups have "".
type Program[I any] struct {
	Insts       []Inst[I]
	NumCaptures int
	Names       []string
}

// Len returns the number of instructions.
func (p *Program[I]) Len() int {
	return len(p.Insts)
}

// SlotCount returns the number of capture slots a thread carries.
func (p *Program[I]) SlotCount() int {
	return 2 * p.NumCaptures
}

// GroupIndex returns the highest-numbered group called name, or -1.
// Quantifier expansion copies named groups, so a name can label several
// groups; the last copy is the one a match reports.
func (p *Program[I]) GroupIndex(name string) int {
	for i := len(p.Names) - 1; i >= 0; i-- {
		if p.Names[i] == name && name != "" {
			return i
		}
	}
	return -1
}

// Validate checks the layout invariants: every Split/Jmp target is in
// bounds, every save refers to a declared group, every Check has a
// predicate and exactly one Match terminates the program.
func (p *Program[I]) Validate() error {
	n := len(p.Insts)
	if n == 0 || p.Insts[n-1].Op != InstMatch {
		return fmt.Errorf("%w: program must end with Match", ErrInvalidProgram)
	}
	for pc := range p.Insts {
		in := &p.Insts[pc]
		switch in.Op {
		case InstMatch:
			if pc != n-1 {
				return fmt.Errorf("%w: extra Match at %d", ErrInvalidProgram, pc)
			}
		case InstSplit:
			if int(in.X) >= n || int(in.Y) >= n {
				return fmt.Errorf("%w: %d: %s target out of bounds", ErrInvalidProgram, pc, in)
			}
		case InstJmp:
			if int(in.X) >= n {
				return fmt.Errorf("%w: %d: %s target out of bounds", ErrInvalidProgram, pc, in)
			}
		case InstCheck:
			if in.Check == nil {
				return fmt.Errorf("%w: %d: Check without predicate", ErrInvalidProgram, pc)
			}
		case InstSaveOpen, InstSaveClose, InstSaveNamedOpen, InstSaveNamedClose:
			if in.Group < 0 || in.Group >= p.NumCaptures {
				return fmt.Errorf("%w: %d: %s group out of range", ErrInvalidProgram, pc, in)
			}
		}
	}
	if len(p.Names) != p.NumCaptures {
		return fmt.Errorf("%w: %d names for %d groups", ErrInvalidProgram, len(p.Names), p.NumCaptures)
	}
	return nil
}

// String lists the instructions one per line, prefixed with their PC.
func (p *Program[I]) String() string {
	var b strings.Builder
	for pc := range p.Insts {
		fmt.Fprintf(&b, "%d\t%s\n", pc, &p.Insts[pc])
	}
	return b.String()
}
