// Package symrex provides a regular expression engine over arbitrary symbol
// types.
//
// Patterns are trees built with package syntax rather than parsed from text.
// Every symbol test is a caller-supplied predicate, so the same engine
// matches bytes, runes, tokens or any other slice element type.
//
// Basic usage:
//
//	digit := syntax.Satisfy(func(r rune) bool { return unicode.IsDigit(r) })
//	re := symrex.MustCompile(syntax.Repeat1(digit, true))
//
//	m, ok := re.Find([]rune("hello 123 world"))
//	if ok {
//	    fmt.Println(string(m.Slice())) // "123"
//	}
//
// Matching is leftmost-first: among matches starting at the leftmost
// position, the one preferred by alternation order and quantifier
// greediness wins. Searches run a Pike VM and are O(m*n) in the program
// size m and input length n, with no backtracking.
package symrex

import (
	"fmt"
	"maps"

	"github.com/coregx/symrex/nfa"
	"github.com/coregx/symrex/syntax"
	"github.com/coregx/symrex/vm"
)

// Regex is a compiled regular expression over symbols of type I.
//
// A Regex is safe for concurrent use by multiple goroutines.
type Regex[I any] struct {
	tree       *syntax.Regexp[I]
	prog       *vm.Program[I]
	vm         *vm.PikeVM[I]
	full       *nfa.Matcher[I]
	namedIndex map[string]int
}

// Regexp is an alias for Regex.
type Regexp[I any] = Regex[I]

// Compile compiles a regular expression tree for unanchored search.
//
// Groups inside re are numbered from 1 in pre-order; group 0 is the whole
// match. Use Begin and End nodes to anchor.
//
// Example:
//
//	re, err := symrex.Compile(syntax.Literal('a', 'b'))
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile[I any](re *syntax.Regexp[I]) (*Regex[I], error) {
	return CompileWithConfig(re, DefaultConfig())
}

// MustCompile is like Compile but panics if the tree cannot be compiled.
func MustCompile[I any](re *syntax.Regexp[I]) *Regex[I] {
	r, err := Compile(re)
	if err != nil {
		panic("symrex: Compile(" + re.String() + "): " + err.Error())
	}
	return r
}

// CompileWithConfig compiles a tree with custom limits.
//
// Example:
//
//	config := symrex.DefaultConfig()
//	config.MaxRepeat = 5000
//	re, err := symrex.CompileWithConfig(tree, config)
func CompileWithConfig[I any](re *syntax.Regexp[I], config Config) (*Regex[I], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	prog, err := vm.NewCompiler[I](config.compilerConfig()).Compile(re)
	if err != nil {
		return nil, err
	}
	full, err := nfa.NewMatcher(re, config.nfaConfig())
	if err != nil {
		return nil, err
	}

	named := make(map[string]int)
	for i, name := range prog.Names {
		if name != "" {
			named[name] = i
		}
	}
	return &Regex[I]{
		tree:       re,
		prog:       prog,
		vm:         vm.NewPikeVM(prog),
		full:       full,
		namedIndex: named,
	}, nil
}

// String returns the tree the Regex was compiled from, rendered with
// syntax.Regexp.String.
func (r *Regex[I]) String() string {
	return r.tree.String()
}

// Program returns the compiled program. It must not be modified.
func (r *Regex[I]) Program() *vm.Program[I] {
	return r.prog
}

// IsMatch reports whether input contains any match.
func (r *Regex[I]) IsMatch(input []I) bool {
	return r.vm.IsMatch(input)
}

// IsFullMatch reports whether input as a whole matches, as if the tree
// were wrapped in Begin and End. It runs the epsilon-NFA built from the tree
// instead of the VM and records no positions.
func (r *Regex[I]) IsFullMatch(input []I) bool {
	return r.full.Accept(input)
}

// Find returns the leftmost-first match in input.
//
// Example:
//
//	re := symrex.MustCompile(syntax.Repeat1(syntax.Symbol('a'), true))
//	m, _ := re.Find([]rune("baab"))
//	// m.Start == 1, m.End == 3
func (r *Regex[I]) Find(input []I) (Match[I], bool) {
	return r.FindAt(input, 0)
}

// FindAt is like Find but starts the search at position at. Positions in
// the result are relative to the whole input and Begin only matches at 0.
func (r *Regex[I]) FindAt(input []I, at int) (Match[I], bool) {
	slots := r.vm.RunAt(input, at)
	if slots == nil {
		return Match[I]{}, false
	}
	start, end := wholeMatch(slots)
	return Match[I]{Input: input, Start: start, End: end}, true
}

// FindAll returns successive non-overlapping matches in input.
// If n >= 0, it returns at most n matches; otherwise all of them.
// After an empty match the search resumes one symbol further on.
func (r *Regex[I]) FindAll(input []I, n int) []Match[I] {
	if n == 0 {
		return nil
	}

	var matches []Match[I]
	pos := 0
	for pos <= len(input) {
		m, ok := r.FindAt(input, pos)
		if !ok {
			break
		}
		matches = append(matches, m)

		if m.End > m.Start {
			pos = m.End
		} else {
			// Empty match: advance by 1 to avoid an infinite loop
			pos = m.End + 1
		}

		if n > 0 && len(matches) >= n {
			break
		}
	}
	return matches
}

// Captures returns the group spans of the leftmost-first match in input.
//
// Groups are collected in order from 0 and collection stops at the first
// group that did not participate in the match.
//
// Example:
//
//	// (?P<key>a+)=(b+)
//	m, _ := re.Captures([]rune("aa=bbb"))
//	key, _ := m.Name("key") // {0 2}
func (r *Regex[I]) Captures(input []I) (Captures[I], bool) {
	slots := r.vm.Run(input)
	if slots == nil {
		return Captures[I]{}, false
	}
	wholeMatch(slots)

	var locs []Span
	for i := 0; 2*i < len(slots); i++ {
		start, end := slots[2*i], slots[2*i+1]
		if start < 0 {
			break
		}
		if end < 0 {
			panic(fmt.Sprintf("symrex: group %d opened at %d but never closed", i, start))
		}
		locs = append(locs, Span{Start: start, End: end})
	}
	return Captures[I]{
		Input:      input,
		Locations:  locs,
		NamedIndex: maps.Clone(r.namedIndex),
	}, true
}

// SubmatchIndex returns the slot pairs of every group of the leftmost-first
// match: result[2*i:2*i+2] is group i, or -1, -1 if the group did not
// participate. A nil result indicates no match.
func (r *Regex[I]) SubmatchIndex(input []I) []int {
	slots := r.vm.Run(input)
	if slots == nil {
		return nil
	}
	wholeMatch(slots)
	return slots
}

// NumSubexp returns the number of capture groups, including group 0.
func (r *Regex[I]) NumSubexp() int {
	return r.prog.NumCaptures
}

// SubexpNames returns the names of the capture groups; unnamed groups and
// group 0 have "". The slice is shared and must not be modified.
func (r *Regex[I]) SubexpNames() []string {
	return r.prog.Names
}

// SubexpIndex returns the index of the highest-numbered group called name,
// or -1 if there is none.
func (r *Regex[I]) SubexpIndex(name string) int {
	return r.prog.GroupIndex(name)
}

// wholeMatch returns the group 0 span. Every Match thread has passed both
// group 0 saves, so a missing slot is an engine bug.
func wholeMatch(slots []int) (int, int) {
	if len(slots) < 2 || slots[0] < 0 {
		panic("symrex: match without a group 0 start")
	}
	if slots[1] < 0 {
		panic("symrex: asymmetric group 0 slots")
	}
	return slots[0], slots[1]
}
