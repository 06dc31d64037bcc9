package nfa

import (
	"errors"
	"sync"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/coregx/symrex/syntax"
)

func TestCompile_Accept(t *testing.T) {
	a, b := syntax.Symbol('a'), syntax.Symbol('b')
	begin, end := syntax.Begin[rune](), syntax.End[rune]()
	var isA syntax.Predicate[rune] = func(r rune) bool { return r == 'a' }

	tests := []struct {
		name  string
		re    *syntax.Regexp[rune]
		input string
		want  bool
	}{
		{"empty on empty", syntax.Empty[rune](), "", true},
		{"empty on symbol", syntax.Empty[rune](), "a", false},
		{"literal", syntax.Literal('a', 'b', 'c'), "abc", true},
		{"literal is whole input", syntax.Literal('a', 'b', 'c'), "xabcx", false},
		{"literal prefix only", syntax.Literal('a', 'b', 'c'), "ab", false},
		{"not satisfy", syntax.NotSatisfy(isA), "b", true},
		{"not satisfy rejects", syntax.NotSatisfy(isA), "a", false},
		{"or left", syntax.Or(a, b), "a", true},
		{"or right", syntax.Or(a, b), "b", true},
		{"or neither", syntax.Or(a, b), "c", false},
		{"optional absent", syntax.ZeroOrOne(a, true), "", true},
		{"optional present", syntax.ZeroOrOne(a, false), "a", true},
		{"optional twice", syntax.ZeroOrOne(a, true), "aa", false},
		{"star", syntax.Repeat0(syntax.Or(a, b), true), "abba", true},
		{"star empty", syntax.Repeat0(a, false), "", true},
		{"plus needs one", syntax.Repeat1(a, true), "", false},
		{"plus many", syntax.Repeat1(a, true), "aaaa", true},
		{"star of empty", syntax.Repeat0(syntax.Empty[rune](), true), "", true},
		{"star over nullable", syntax.Repeat0(syntax.Or(syntax.Empty[rune](), a), true), "aa", true},
		{"repeat n exact", syntax.RepeatN(a, 3), "aaa", true},
		{"repeat n short", syntax.RepeatN(a, 3), "aa", false},
		{"repeat zero", syntax.RepeatN(a, 0), "", true},
		{"min max low", syntax.RepeatMinMax(a, 2, 4, true), "aa", true},
		{"min max high", syntax.RepeatMinMax(a, 2, 4, true), "aaaa", true},
		{"min max over", syntax.RepeatMinMax(a, 2, 4, true), "aaaaa", false},
		{"min max under", syntax.RepeatMinMax(a, 2, 4, true), "a", false},
		{"min unbounded", syntax.RepeatMinMax(a, 2, -1, true), "aaaaaaa", true},
		{"groups are transparent", syntax.Concat(syntax.NamedGroup("x", a), syntax.Group(b)), "ab", true},
		{"begin then symbol", syntax.Concat(begin, a), "a", true},
		{"begin after symbol", syntax.Seq(a, begin, b), "ab", false},
		{"end before symbol", syntax.Seq(a, end, b), "ab", false},
		{"symbol then end", syntax.Concat(a, end), "a", true},
		{"anchors only", syntax.Concat(end, begin), "", true},
		{"anchors only nonempty", syntax.Concat(end, begin), "a", false},
		{"begin inside star", syntax.Repeat0(syntax.Concat(begin, a), true), "a", true},
		{"begin inside star twice", syntax.Repeat0(syntax.Concat(begin, a), true), "aa", false},
		{"end inside alternation", syntax.Concat(syntax.Or(syntax.Concat(a, end), a), b), "ab", true},
		{"end inside alternation at end", syntax.Concat(a, syntax.Or(end, b)), "a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Compile(tt.re)
			assert.NilError(t, err)
			assert.Equal(t, e.Accept([]rune(tt.input)), tt.want, "tree %s", tt.re)
		})
	}
}

func TestCompile_LongConcat(t *testing.T) {
	parts := make([]*syntax.Regexp[byte], 5000)
	input := make([]byte, 5000)
	for i := range parts {
		parts[i] = syntax.Symbol[byte]('x')
		input[i] = 'x'
	}
	e, err := Compile(syntax.Seq(parts...))
	assert.NilError(t, err)
	assert.Assert(t, e.Accept(input))
	assert.Assert(t, !e.Accept(input[1:]))
}

func TestCompile_Errors(t *testing.T) {
	a := syntax.Symbol('a')
	tests := []struct {
		name string
		re   *syntax.Regexp[rune]
		want error
	}{
		{"nil tree", nil, ErrInvalidRegexp},
		{"nil predicate", &syntax.Regexp[rune]{Op: syntax.OpSatisfy}, ErrInvalidRegexp},
		{"nil operand", syntax.Concat(a, nil), ErrInvalidRegexp},
		{"missing operand", &syntax.Regexp[rune]{Op: syntax.OpOr, Sub: []*syntax.Regexp[rune]{a}}, ErrInvalidRegexp},
		{"unknown op", &syntax.Regexp[rune]{Op: 200}, ErrInvalidRegexp},
		{"empty name", syntax.NamedGroup("", a), ErrInvalidRegexp},
		{"inverted bounds", syntax.RepeatMinMax(a, 3, 1, true), ErrInvalidRepeat},
		{"count too large", syntax.RepeatN(a, 5000), ErrInvalidRepeat},
		{"negative count", syntax.RepeatN(a, -1), ErrInvalidRepeat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.re)
			assert.Assert(t, errors.Is(err, tt.want), "got %v", err)
			var be *BuildError
			assert.Assert(t, errors.As(err, &be))
		})
	}
}

func TestCompile_StateLimit(t *testing.T) {
	re := syntax.RepeatN(syntax.RepeatN(syntax.Symbol('a'), 100), 100)
	_, err := CompileWithConfig(re, CompilerConfig{MaxStates: 1000})
	assert.Assert(t, errors.Is(err, ErrTooLarge), "got %v", err)

	_, err = CompileWithConfig(re, CompilerConfig{})
	assert.NilError(t, err)
}

func TestCompile_AnchorLayers(t *testing.T) {
	plain, err := Compile(syntax.Literal('a', 'b'))
	assert.NilError(t, err)
	anchored, err := Compile(syntax.Seq(syntax.Begin[rune](), syntax.Literal('a', 'b'), syntax.End[rune]()))
	assert.NilError(t, err)

	// Literal ab uses 3 states; each anchor kind doubles the anchored graph.
	assert.Equal(t, plain.States(), 3)
	assert.Equal(t, anchored.States(), 4*5)
}

func TestMatcher_Concurrent(t *testing.T) {
	m, err := NewMatcher(syntax.Repeat1(syntax.Or(syntax.Symbol('a'), syntax.Symbol('b')), true), DefaultCompilerConfig())
	assert.NilError(t, err)

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				input := []rune("abab")
				want := true
				if (g+i)%2 == 1 {
					input = append(input, 'c')
					want = false
				}
				if m.Accept(input) != want {
					errs <- string(input)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for in := range errs {
		t.Errorf("Accept(%q) gave the wrong answer under concurrency", in)
	}

	// The exposed automaton is a copy.
	e := m.NFA()
	assert.Assert(t, e.Accept([]rune("ab")))
	assert.Assert(t, m.Accept([]rune("ba")))
}

func TestMatcher_CompileError(t *testing.T) {
	_, err := NewMatcher[rune](nil, DefaultCompilerConfig())
	assert.Assert(t, errors.Is(err, ErrInvalidRegexp))
}
