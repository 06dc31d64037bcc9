// Package syntax defines the regular expression tree consumed by the
// compiler in package vm.
//
// The tree is generic over the input symbol type I. Nothing in this package
// or in the engines ever inspects a symbol directly; every symbol test is a
// caller-supplied Predicate attached to a Satisfy or NotSatisfy node.
//
// Nodes are immutable once built and may be shared freely. Quantifier
// expansion during compilation refers to the same subtree many times, so a
// node reached twice is not an error and is compiled twice.
package syntax

import (
	"fmt"
	"strings"
)

// Predicate tests a single input symbol. Predicates must be pure: the engines
// call them in an unspecified order and any number of times.
type Predicate[I any] func(sym I) bool

// Op is a single regular expression operator.
type Op uint8

const (
	// OpEmpty matches the empty sequence.
	OpEmpty Op = iota + 1

	// OpBegin matches at the start of input.
	OpBegin

	// OpEnd matches at the end of input.
	OpEnd

	// OpSatisfy matches one symbol accepted by Pred.
	OpSatisfy

	// OpNotSatisfy matches one symbol rejected by Pred.
	OpNotSatisfy

	// OpConcat matches Sub[0] followed by Sub[1].
	OpConcat

	// OpGroup is a numbered capturing group around Sub[0].
	OpGroup

	// OpNamedGroup is a numbered capturing group around Sub[0] that also
	// carries Name.
	OpNamedGroup

	// OpNonCapturingGroup groups Sub[0] without capturing.
	OpNonCapturingGroup

	// OpOr matches Sub[0] or Sub[1], preferring Sub[0].
	OpOr

	// OpZeroOrOne matches Sub[0] optionally.
	OpZeroOrOne

	// OpRepeat0 matches Sub[0] zero or more times.
	OpRepeat0

	// OpRepeat1 matches Sub[0] one or more times.
	OpRepeat1

	// OpRepeatN matches Sub[0] exactly Min times.
	OpRepeatN

	// OpRepeatMinMax matches Sub[0] between Min and Max times (Max < 0 means
	// unbounded).
	OpRepeatMinMax
)

var opNames = [...]string{
	OpEmpty:             "Empty",
	OpBegin:             "Begin",
	OpEnd:               "End",
	OpSatisfy:           "Satisfy",
	OpNotSatisfy:        "NotSatisfy",
	OpConcat:            "Concat",
	OpGroup:             "Group",
	OpNamedGroup:        "NamedGroup",
	OpNonCapturingGroup: "NonCapturingGroup",
	OpOr:                "Or",
	OpZeroOrOne:         "ZeroOrOne",
	OpRepeat0:           "Repeat0",
	OpRepeat1:           "Repeat1",
	OpRepeatN:           "RepeatN",
	OpRepeatMinMax:      "RepeatMinMax",
}

// String returns the operator name.
func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", op)
}

// Regexp is a node in a regular expression tree.
//
// Which fields are meaningful depends on Op:
//   - Pred: OpSatisfy, OpNotSatisfy
//   - Sub: one operand for groups and quantifiers, two for OpConcat and OpOr
//   - Name: OpNamedGroup
//   - Greedy: OpZeroOrOne, OpRepeat0, OpRepeat1, OpRepeatMinMax
//   - Min, Max: OpRepeatN (Min only), OpRepeatMinMax
type Regexp[I any] struct {
	Op     Op
	Sub    []*Regexp[I]
	Pred   Predicate[I]
	Name   string
	Greedy bool
	Min    int
	Max    int
}

// String renders the tree structure. Predicates are opaque and print as #.
func (re *Regexp[I]) String() string {
	var b strings.Builder
	re.writeTo(&b)
	return b.String()
}

func (re *Regexp[I]) writeTo(b *strings.Builder) {
	if re == nil {
		b.WriteString("<nil>")
		return
	}
	switch re.Op {
	case OpEmpty:
		b.WriteString("ε")
		return
	case OpBegin:
		b.WriteString("^")
		return
	case OpEnd:
		b.WriteString("$")
		return
	case OpSatisfy:
		b.WriteString("#")
		return
	case OpNotSatisfy:
		b.WriteString("!#")
		return
	}

	b.WriteString(re.Op.String())
	b.WriteByte('(')
	switch re.Op {
	case OpNamedGroup:
		fmt.Fprintf(b, "%q, ", re.Name)
	case OpRepeatN:
		fmt.Fprintf(b, "%d, ", re.Min)
	case OpRepeatMinMax:
		if re.Max < 0 {
			fmt.Fprintf(b, "%d.., ", re.Min)
		} else {
			fmt.Fprintf(b, "%d..%d, ", re.Min, re.Max)
		}
	}
	for i, sub := range re.Sub {
		if i > 0 {
			b.WriteString(", ")
		}
		sub.writeTo(b)
	}
	switch re.Op {
	case OpZeroOrOne, OpRepeat0, OpRepeat1, OpRepeatMinMax:
		if !re.Greedy {
			b.WriteString(", lazy")
		}
	}
	b.WriteByte(')')
}
