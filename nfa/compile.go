package nfa

import (
	"fmt"

	"github.com/coregx/symrex/syntax"
)

// CompilerConfig bounds the automata built by Compile.
type CompilerConfig struct {
	// MaxRepeat caps the counts of RepeatN and RepeatMinMax.
	// Default: 1000
	MaxRepeat int

	// MaxStates caps the number of states before anchor layering.
	// Default: 1 << 20
	MaxStates int
}

// DefaultCompilerConfig returns the default limits.
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxRepeat: 1000,
		MaxStates: 1 << 20,
	}
}

type edgeKind uint8

const (
	edgeEpsilon edgeKind = iota
	edgeCheck
	edgeBegin
	edgeEnd
)

type edge[I any] struct {
	kind     edgeKind
	from, to StateID
	check    func(sym I) bool
}

// compiler lowers a tree into a Thompson graph whose anchors are still
// explicit edges. layer then turns the anchors into plain rules.
type compiler[I any] struct {
	config   CompilerConfig
	states   int
	edges    []edge[I]
	hasBegin bool
	hasEnd   bool
}

// Compile builds an automaton that accepts exactly the inputs re matches as
// a whole. Groups only delimit; greediness is irrelevant to membership.
//
// Begin and End hold only at the first and last input position. The graph is
// duplicated per anchor kind: one copy of the states is live only before any
// symbol has been consumed, another only once End has been passed, after
// which no symbol may be consumed.
//
// Example:
//
//	e, err := nfa.Compile(syntax.Repeat1(syntax.Symbol('a'), true))
//	e.Accept([]rune("aaa")) // true
func Compile[I any](re *syntax.Regexp[I]) (*EpsilonNFA[I], error) {
	return CompileWithConfig(re, DefaultCompilerConfig())
}

// CompileWithConfig is like Compile with custom limits. Zero limits take
// their defaults.
func CompileWithConfig[I any](re *syntax.Regexp[I], config CompilerConfig) (*EpsilonNFA[I], error) {
	def := DefaultCompilerConfig()
	if config.MaxRepeat <= 0 {
		config.MaxRepeat = def.MaxRepeat
	}
	if config.MaxStates <= 0 {
		config.MaxStates = def.MaxStates
	}

	c := &compiler[I]{config: config}
	start := c.newState()
	final, err := c.compile(re, start)
	if err != nil {
		return nil, err
	}
	if c.states > config.MaxStates {
		return nil, &BuildError{
			Message: fmt.Sprintf("%d states exceed the limit of %d", c.states, config.MaxStates),
			StateID: InvalidState,
			Err:     ErrTooLarge,
		}
	}
	return c.layer(start, final)
}

func (c *compiler[I]) newState() StateID {
	id := StateID(c.states)
	c.states++
	return id
}

func (c *compiler[I]) add(kind edgeKind, from, to StateID, check func(sym I) bool) {
	c.edges = append(c.edges, edge[I]{kind: kind, from: from, to: to, check: check})
}

func invalid(format string, args ...any) error {
	return &BuildError{Message: fmt.Sprintf(format, args...), StateID: InvalidState, Err: ErrInvalidRegexp}
}

// compile emits re starting at from and returns the state reached after it.
// Every returned state other than from is fresh, so later fragments can hang
// their edges off it without leaking into re.
func (c *compiler[I]) compile(re *syntax.Regexp[I], from StateID) (StateID, error) {
	if re == nil {
		return InvalidState, invalid("nil node")
	}
	if c.states > c.config.MaxStates {
		return InvalidState, &BuildError{Message: "state limit reached", StateID: InvalidState, Err: ErrTooLarge}
	}
	if want := arity(re.Op); want >= 0 && len(re.Sub) != want {
		return InvalidState, invalid("%s takes %d operands, got %d", re.Op, want, len(re.Sub))
	}
	for _, sub := range re.Sub {
		if sub == nil {
			return InvalidState, invalid("nil operand of %s", re.Op)
		}
	}

	switch re.Op {
	case syntax.OpEmpty:
		return from, nil

	case syntax.OpBegin, syntax.OpEnd:
		to := c.newState()
		if re.Op == syntax.OpBegin {
			c.hasBegin = true
			c.add(edgeBegin, from, to, nil)
		} else {
			c.hasEnd = true
			c.add(edgeEnd, from, to, nil)
		}
		return to, nil

	case syntax.OpSatisfy, syntax.OpNotSatisfy:
		if re.Pred == nil {
			return InvalidState, invalid("%s without a predicate", re.Op)
		}
		check := re.Pred
		if re.Op == syntax.OpNotSatisfy {
			check = func(sym I) bool { return !re.Pred(sym) }
		}
		to := c.newState()
		c.add(edgeCheck, from, to, check)
		return to, nil

	case syntax.OpConcat:
		return c.compileConcat(re, from)

	case syntax.OpGroup, syntax.OpNonCapturingGroup:
		return c.compile(re.Sub[0], from)

	case syntax.OpNamedGroup:
		if re.Name == "" {
			return InvalidState, invalid("named group without a name")
		}
		return c.compile(re.Sub[0], from)

	case syntax.OpOr:
		join := c.newState()
		for _, sub := range re.Sub {
			entry := c.newState()
			c.add(edgeEpsilon, from, entry, nil)
			end, err := c.compile(sub, entry)
			if err != nil {
				return InvalidState, err
			}
			c.add(edgeEpsilon, end, join, nil)
		}
		return join, nil

	case syntax.OpZeroOrOne:
		return c.optional(re.Sub[0], from)

	case syntax.OpRepeat0:
		return c.star(re.Sub[0], from)

	case syntax.OpRepeat1:
		entry := c.newState()
		c.add(edgeEpsilon, from, entry, nil)
		end, err := c.compile(re.Sub[0], entry)
		if err != nil {
			return InvalidState, err
		}
		c.add(edgeEpsilon, end, entry, nil)
		out := c.newState()
		c.add(edgeEpsilon, end, out, nil)
		return out, nil

	case syntax.OpRepeatN:
		if re.Min < 0 || re.Min > c.config.MaxRepeat {
			return InvalidState, &BuildError{
				Message: fmt.Sprintf("repeat count %d out of range", re.Min),
				StateID: InvalidState,
				Err:     ErrInvalidRepeat,
			}
		}
		return c.times(re.Sub[0], from, re.Min)

	case syntax.OpRepeatMinMax:
		return c.compileMinMax(re, from)

	default:
		return InvalidState, invalid("unknown operator %s", re.Op)
	}
}

func arity(op syntax.Op) int {
	switch op {
	case syntax.OpEmpty, syntax.OpBegin, syntax.OpEnd, syntax.OpSatisfy, syntax.OpNotSatisfy:
		return 0
	case syntax.OpConcat, syntax.OpOr:
		return 2
	case syntax.OpGroup, syntax.OpNamedGroup, syntax.OpNonCapturingGroup,
		syntax.OpZeroOrOne, syntax.OpRepeat0, syntax.OpRepeat1,
		syntax.OpRepeatN, syntax.OpRepeatMinMax:
		return 1
	}
	return -1
}

// compileConcat walks a concatenation tree left to right without recursing
// on its spine, so long Seq chains stay off the call stack.
func (c *compiler[I]) compileConcat(re *syntax.Regexp[I], from StateID) (StateID, error) {
	stack := []*syntax.Regexp[I]{re}
	cur := from
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n != nil && n.Op == syntax.OpConcat && len(n.Sub) == 2 {
			stack = append(stack, n.Sub[1], n.Sub[0])
			continue
		}
		end, err := c.compile(n, cur)
		if err != nil {
			return InvalidState, err
		}
		cur = end
	}
	return cur, nil
}

func (c *compiler[I]) optional(sub *syntax.Regexp[I], from StateID) (StateID, error) {
	entry := c.newState()
	c.add(edgeEpsilon, from, entry, nil)
	end, err := c.compile(sub, entry)
	if err != nil {
		return InvalidState, err
	}
	out := c.newState()
	c.add(edgeEpsilon, end, out, nil)
	c.add(edgeEpsilon, from, out, nil)
	return out, nil
}

func (c *compiler[I]) star(sub *syntax.Regexp[I], from StateID) (StateID, error) {
	loop := c.newState()
	c.add(edgeEpsilon, from, loop, nil)
	end, err := c.compile(sub, loop)
	if err != nil {
		return InvalidState, err
	}
	c.add(edgeEpsilon, end, loop, nil)
	out := c.newState()
	c.add(edgeEpsilon, loop, out, nil)
	return out, nil
}

func (c *compiler[I]) times(sub *syntax.Regexp[I], from StateID, n int) (StateID, error) {
	cur := from
	for range n {
		end, err := c.compile(sub, cur)
		if err != nil {
			return InvalidState, err
		}
		cur = end
	}
	return cur, nil
}

func (c *compiler[I]) compileMinMax(re *syntax.Regexp[I], from StateID) (StateID, error) {
	lo, hi := re.Min, re.Max
	if lo < 0 || lo > c.config.MaxRepeat || (hi >= 0 && (hi < lo || hi > c.config.MaxRepeat)) {
		return InvalidState, &BuildError{
			Message: fmt.Sprintf("repeat bounds {%d,%d} out of range", lo, hi),
			StateID: InvalidState,
			Err:     ErrInvalidRepeat,
		}
	}
	cur, err := c.times(re.Sub[0], from, lo)
	if err != nil {
		return InvalidState, err
	}
	if hi < 0 {
		return c.star(re.Sub[0], cur)
	}
	for range hi - lo {
		if cur, err = c.optional(re.Sub[0], cur); err != nil {
			return InvalidState, err
		}
	}
	return cur, nil
}

// layer emits the graph through a Builder, resolving anchor edges.
//
// A state s exists once per (begun, ended) pair. begun is 0 while no symbol
// has been consumed and only then may a Begin edge be crossed; check edges
// lead to begun = 1. ended becomes 1 on crossing an End edge and check edges
// never leave an ended state. Without Begin or End edges the corresponding
// dimension collapses to a single layer.
func (c *compiler[I]) layer(start, final StateID) (*EpsilonNFA[I], error) {
	nb, ne := 1, 1
	if c.hasBegin {
		nb = 2
	}
	if c.hasEnd {
		ne = 2
	}
	base := c.states
	b := NewBuilderWithCapacity[I](len(c.edges) * nb * ne)
	for range base * nb * ne {
		b.AddState()
	}
	id := func(s StateID, begun, ended int) StateID {
		return s + StateID(base*(begun*ne+ended))
	}

	for _, e := range c.edges {
		for begun := range nb {
			for ended := range ne {
				switch e.kind {
				case edgeEpsilon:
					b.AddEpsilon(id(e.from, begun, ended), id(e.to, begun, ended))
				case edgeBegin:
					if begun == 0 {
						b.AddEpsilon(id(e.from, 0, ended), id(e.to, 0, ended))
					}
				case edgeEnd:
					b.AddEpsilon(id(e.from, begun, ended), id(e.to, begun, ne-1))
				case edgeCheck:
					if ended == 0 {
						b.AddCheck(id(e.from, begun, 0), id(e.to, nb-1, 0), e.check)
					}
				}
			}
		}
	}
	for begun := range nb {
		for ended := range ne {
			b.AddGoal(id(final, begun, ended))
		}
	}
	return b.Build(id(start, 0, 0))
}
