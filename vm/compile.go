package vm

import (
	"fmt"

	"github.com/coregx/symrex/internal/conv"
	"github.com/coregx/symrex/syntax"
)

// CompilerConfig configures program compilation
type CompilerConfig struct {
	// MaxRecursionDepth limits recursion during compilation to prevent stack
	// overflow on deeply nested trees. Concatenation chains do not count
	// toward the depth.
	// Default: 1000
	MaxRecursionDepth int

	// MaxRepeat caps the counts of RepeatN and RepeatMinMax, which are
	// expanded by copying their operand.
	// Default: 1000
	MaxRepeat int

	// MaxInsts caps the number of instructions in the compiled program.
	// Default: 1 << 20
	MaxInsts int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxRecursionDepth: 1000,
		MaxRepeat:         1000,
		MaxInsts:          1 << 20,
	}
}

// Compiler translates syntax trees into programs.
// A Compiler may be reused but not shared between goroutines.
type Compiler[I any] struct {
	config CompilerConfig

	insts    []Inst[I]
	names    []string
	depth    int
	tooLarge bool
}

// NewCompiler creates a new compiler with the given configuration.
// Zero limits are replaced by their defaults.
func NewCompiler[I any](config CompilerConfig) *Compiler[I] {
	def := DefaultCompilerConfig()
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = def.MaxRecursionDepth
	}
	if config.MaxRepeat == 0 {
		config.MaxRepeat = def.MaxRepeat
	}
	if config.MaxInsts == 0 {
		config.MaxInsts = def.MaxInsts
	}
	return &Compiler[I]{config: config}
}

// NewDefaultCompiler creates a new compiler with default configuration
func NewDefaultCompiler[I any]() *Compiler[I] {
	return NewCompiler[I](DefaultCompilerConfig())
}

// Compile compiles re for unanchored search.
//
// re is wrapped as `.*? (re) .*?`: a lazy any-symbol prefix, re itself as
// capture group 0, and a lazy any-symbol suffix. The prefix makes the VM try
// every start position leftmost first, without an outer retry loop. Groups
// inside re are numbered from 1 in pre-order.
func (c *Compiler[I]) Compile(re *syntax.Regexp[I]) (*Program[I], error) {
	anySym := syntax.Any[I]()
	wrapped := syntax.Concat(
		syntax.Repeat0(anySym, false),
		syntax.Concat(
			syntax.Group(re),
			syntax.Repeat0(anySym, false),
		),
	)
	return c.CompileRaw(wrapped)
}

// CompileRaw compiles re exactly as given, followed by Match. Groups are
// numbered from 0 in pre-order and no implicit group is added.
func (c *Compiler[I]) CompileRaw(re *syntax.Regexp[I]) (*Program[I], error) {
	c.insts = nil
	c.names = nil
	c.depth = 0
	c.tooLarge = false

	if err := c.compile(re); err != nil {
		return nil, err
	}
	c.emit(Inst[I]{Op: InstMatch})
	if c.tooLarge {
		return nil, &CompileError{Err: c.sizeError()}
	}

	prog := &Program[I]{
		Insts:       c.insts,
		NumCaptures: len(c.names),
		Names:       c.names,
	}
	if err := prog.Validate(); err != nil {
		return nil, &CompileError{Err: err}
	}
	return prog, nil
}

// pc returns the program counter of the next instruction to be emitted.
func (c *Compiler[I]) pc() PC {
	return PC(conv.IntToUint32(len(c.insts)))
}

// emit appends an instruction and returns its PC.
func (c *Compiler[I]) emit(in Inst[I]) PC {
	pc := c.pc()
	c.insts = append(c.insts, in)
	if len(c.insts) > c.config.MaxInsts {
		c.tooLarge = true
	}
	return pc
}

func (c *Compiler[I]) sizeError() error {
	return fmt.Errorf("%w: more than %d instructions", ErrProgramTooLarge, c.config.MaxInsts)
}

// newGroup allocates the next capture group index.
func (c *Compiler[I]) newGroup(name string) int {
	c.names = append(c.names, name)
	return len(c.names) - 1
}

// compile emits the instructions for re at the current end of the program.
// Every construct occupies a contiguous PC range, so siblings lay out back
// to back.
func (c *Compiler[I]) compile(re *syntax.Regexp[I]) error {
	if c.tooLarge {
		return &CompileError{Err: c.sizeError()}
	}
	if re == nil {
		return &CompileError{Err: fmt.Errorf("%w: nil node", ErrInvalidRegexp)}
	}

	c.depth++
	if c.depth > c.config.MaxRecursionDepth {
		return &CompileError{Op: re.Op, Err: ErrTooComplex}
	}
	defer func() { c.depth-- }()

	if want := operandCount(re.Op); want >= 0 && len(re.Sub) != want {
		return &CompileError{
			Op:  re.Op,
			Err: fmt.Errorf("%w: %d operands, want %d", ErrInvalidRegexp, len(re.Sub), want),
		}
	}

	switch re.Op {
	case syntax.OpEmpty:
		return nil
	case syntax.OpBegin:
		c.emit(Inst[I]{Op: InstBegin})
		return nil
	case syntax.OpEnd:
		c.emit(Inst[I]{Op: InstEnd})
		return nil
	case syntax.OpSatisfy:
		if re.Pred == nil {
			return &CompileError{Op: re.Op, Err: fmt.Errorf("%w: nil predicate", ErrInvalidRegexp)}
		}
		c.emit(Inst[I]{Op: InstCheck, Check: re.Pred})
		return nil
	case syntax.OpNotSatisfy:
		if re.Pred == nil {
			return &CompileError{Op: re.Op, Err: fmt.Errorf("%w: nil predicate", ErrInvalidRegexp)}
		}
		pred := re.Pred
		c.emit(Inst[I]{Op: InstCheck, Check: func(sym I) bool { return !pred(sym) }})
		return nil
	case syntax.OpConcat:
		return c.compileConcat(re)
	case syntax.OpGroup:
		return c.compileGroup(re.Sub[0], "", InstSaveOpen, InstSaveClose)
	case syntax.OpNamedGroup:
		if re.Name == "" {
			return &CompileError{Op: re.Op, Err: fmt.Errorf("%w: empty group name", ErrInvalidRegexp)}
		}
		return c.compileGroup(re.Sub[0], re.Name, InstSaveNamedOpen, InstSaveNamedClose)
	case syntax.OpNonCapturingGroup:
		return c.compile(re.Sub[0])
	case syntax.OpOr:
		return c.compileOr(re.Sub[0], re.Sub[1])
	case syntax.OpZeroOrOne:
		return c.compileZeroOrOne(re.Sub[0], re.Greedy)
	case syntax.OpRepeat0:
		return c.compileRepeat0(re.Sub[0], re.Greedy)
	case syntax.OpRepeat1:
		return c.compileRepeat1(re.Sub[0], re.Greedy)
	case syntax.OpRepeatN:
		if err := c.checkRepeat(re.Op, re.Min, re.Min); err != nil {
			return err
		}
		return c.compile(expandRepeatN(re.Sub[0], re.Min))
	case syntax.OpRepeatMinMax:
		if err := c.checkRepeat(re.Op, re.Min, re.Max); err != nil {
			return err
		}
		return c.compile(expandRepeatMinMax(re.Sub[0], re.Min, re.Max, re.Greedy))
	default:
		return &CompileError{Op: re.Op, Err: fmt.Errorf("%w: unknown op %s", ErrInvalidRegexp, re.Op)}
	}
}

// operandCount returns how many Sub entries op requires, or -1 for leaves
// whose Sub is ignored.
func operandCount(op syntax.Op) int {
	switch op {
	case syntax.OpConcat, syntax.OpOr:
		return 2
	case syntax.OpGroup, syntax.OpNamedGroup, syntax.OpNonCapturingGroup,
		syntax.OpZeroOrOne, syntax.OpRepeat0, syntax.OpRepeat1,
		syntax.OpRepeatN, syntax.OpRepeatMinMax:
		return 1
	}
	return -1
}

// checkRepeat validates repeat bounds; max < 0 means unbounded.
func (c *Compiler[I]) checkRepeat(op syntax.Op, min, max int) error {
	var err error
	switch {
	case min < 0:
		err = fmt.Errorf("%w: negative minimum %d", ErrInvalidRepeat, min)
	case min > c.config.MaxRepeat || max > c.config.MaxRepeat:
		err = fmt.Errorf("%w: count exceeds %d", ErrInvalidRepeat, c.config.MaxRepeat)
	case max >= 0 && max < min:
		err = fmt.Errorf("%w: maximum %d below minimum %d", ErrInvalidRepeat, max, min)
	}
	if err != nil {
		return &CompileError{Op: op, Err: err}
	}
	return nil
}

// compileConcat compiles a concatenation chain operand by operand. Repeat
// expansion builds chains as long as the repeat count, so the chain is
// flattened here instead of recursing once per link.
func (c *Compiler[I]) compileConcat(re *syntax.Regexp[I]) error {
	stack := []*syntax.Regexp[I]{re}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n != nil && n.Op == syntax.OpConcat && len(n.Sub) == 2 {
			stack = append(stack, n.Sub[1], n.Sub[0])
			continue
		}
		if err := c.compile(n); err != nil {
			return err
		}
	}
	return nil
}

// compileGroup emits open, body, close. The group index is taken before the
// body is compiled, which numbers groups in pre-order.
func (c *Compiler[I]) compileGroup(sub *syntax.Regexp[I], name string, open, close InstOp) error {
	idx := c.newGroup(name)
	c.emit(Inst[I]{Op: open, Group: idx, Name: name})
	if err := c.compile(sub); err != nil {
		return err
	}
	c.emit(Inst[I]{Op: close, Group: idx, Name: name})
	return nil
}

// compileOr emits:
//
//	L0: Split(L1, L2)
//	L1: <r>
//	    Jmp(L3)
//	L2: <s>
//	L3:
func (c *Compiler[I]) compileOr(r, s *syntax.Regexp[I]) error {
	split := c.emit(Inst[I]{Op: InstSplit})
	if err := c.compile(r); err != nil {
		return err
	}
	jmp := c.emit(Inst[I]{Op: InstJmp})
	sStart := c.pc()
	if err := c.compile(s); err != nil {
		return err
	}
	c.insts[split].X, c.insts[split].Y = split+1, sStart
	c.insts[jmp].X = c.pc()
	return nil
}

// compileZeroOrOne emits Split(L1, L2) L1: <r> L2: with the branches swapped
// when lazy.
func (c *Compiler[I]) compileZeroOrOne(r *syntax.Regexp[I], greedy bool) error {
	split := c.emit(Inst[I]{Op: InstSplit})
	if err := c.compile(r); err != nil {
		return err
	}
	c.patchSplit(split, split+1, c.pc(), greedy)
	return nil
}

// compileRepeat0 emits L0: Split(L1, L2) L1: <r> Jmp(L0) L2: with the
// branches swapped when lazy.
func (c *Compiler[I]) compileRepeat0(r *syntax.Regexp[I], greedy bool) error {
	split := c.emit(Inst[I]{Op: InstSplit})
	if err := c.compile(r); err != nil {
		return err
	}
	c.emit(Inst[I]{Op: InstJmp, X: split})
	c.patchSplit(split, split+1, c.pc(), greedy)
	return nil
}

// compileRepeat1 emits L0: <r> Split(L0, L1) L1: with the branches swapped
// when lazy. The body precedes any branch, forcing one iteration.
func (c *Compiler[I]) compileRepeat1(r *syntax.Regexp[I], greedy bool) error {
	start := c.pc()
	if err := c.compile(r); err != nil {
		return err
	}
	split := c.emit(Inst[I]{Op: InstSplit})
	c.patchSplit(split, start, split+1, greedy)
	return nil
}

// patchSplit resolves a Split. enter is the "take the operand" branch and
// leave the "skip it" branch; greediness picks which one is preferred.
func (c *Compiler[I]) patchSplit(split, enter, leave PC, greedy bool) {
	if greedy {
		c.insts[split].X, c.insts[split].Y = enter, leave
	} else {
		c.insts[split].X, c.insts[split].Y = leave, enter
	}
}

// expandRepeatN rewrites r{n} as n copies of r. The copies share r.
func expandRepeatN[I any](r *syntax.Regexp[I], n int) *syntax.Regexp[I] {
	rs := make([]*syntax.Regexp[I], n)
	for i := range rs {
		rs[i] = r
	}
	return syntax.Seq(rs...)
}

// expandRepeatMinMax rewrites r{n,m} as n copies of r followed by m-n
// optional copies, and r{n,} as n-1 copies followed by r+ (r* when n is 0).
func expandRepeatMinMax[I any](r *syntax.Regexp[I], n, m int, greedy bool) *syntax.Regexp[I] {
	var rs []*syntax.Regexp[I]
	if m >= 0 {
		for i := 0; i < n; i++ {
			rs = append(rs, r)
		}
		for i := n; i < m; i++ {
			rs = append(rs, syntax.ZeroOrOne(r, greedy))
		}
		return syntax.Seq(rs...)
	}
	if n == 0 {
		return syntax.Repeat0(r, greedy)
	}
	for i := 1; i < n; i++ {
		rs = append(rs, r)
	}
	rs = append(rs, syntax.Repeat1(r, greedy))
	return syntax.Seq(rs...)
}
