// Package prefilter finds candidate positions for a byte regex before the
// Pike VM runs.
//
// A prefilter searches for literals that every match must contain. When none
// of them occurs in the haystack the VM can be skipped entirely, which turns
// a full O(m*n) simulation into a single literal scan for inputs that cannot
// match.
//
// The strategy depends on the literal set:
//   - One single-byte literal → memchr (bytes.IndexByte)
//   - One longer literal → memmem (bytes.Index)
//   - Several literals → Aho-Corasick automaton
//   - No literals, or an empty one → no prefilter
//
// Example usage:
//
//	pf, err := prefilter.New([][]byte{[]byte("hello"), []byte("world")})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pos := pf.Find([]byte("foo world"), 0)
//	// pos == 4
package prefilter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/coregx/ahocorasick"
)

// ErrBuild indicates the Aho-Corasick automaton could not be built.
var ErrBuild = errors.New("prefilter: automaton build failed")

// Prefilter quickly finds candidate match positions.
//
// A candidate is a position where one of the literals starts. It does not
// guarantee a regex match; the caller still runs the full engine.
type Prefilter interface {
	// Find returns the start of the first literal occurrence at or after
	// start, or -1 if there is none.
	Find(haystack []byte, start int) int

	// Literals returns the literals searched for. The slice must not be
	// modified.
	Literals() [][]byte

	// String names the strategy, for diagnostics.
	String() string
}

// New builds the best prefilter for literals.
//
// It returns a nil Prefilter and a nil error when no useful prefilter exists:
// for an empty set, or when one of the literals is empty (every position is
// then a candidate).
func New(literals [][]byte) (Prefilter, error) {
	if len(literals) == 0 {
		return nil, nil
	}
	lits := make([][]byte, 0, len(literals))
	for _, lit := range literals {
		if len(lit) == 0 {
			return nil, nil
		}
		lits = append(lits, bytes.Clone(lit))
	}
	lits = dedup(lits)

	switch {
	case len(lits) == 1 && len(lits[0]) == 1:
		return &memchrPrefilter{needle: lits[0][0], lits: lits}, nil
	case len(lits) == 1:
		return &memmemPrefilter{needle: lits[0], lits: lits}, nil
	}

	builder := ahocorasick.NewBuilder()
	for _, lit := range lits {
		builder.AddPattern(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuild, err)
	}
	return &ahoCorasickPrefilter{auto: auto, lits: lits}, nil
}

// dedup drops repeated literals, keeping first occurrences in order.
func dedup(lits [][]byte) [][]byte {
	seen := make(map[string]struct{}, len(lits))
	out := lits[:0]
	for _, lit := range lits {
		if _, ok := seen[string(lit)]; ok {
			continue
		}
		seen[string(lit)] = struct{}{}
		out = append(out, lit)
	}
	return out
}

// memchrPrefilter searches for a single byte.
type memchrPrefilter struct {
	needle byte
	lits   [][]byte
}

// Find implements Prefilter.Find using bytes.IndexByte.
func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.IndexByte(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memchrPrefilter) Literals() [][]byte { return p.lits }

func (p *memchrPrefilter) String() string {
	return fmt.Sprintf("memchr(%q)", p.needle)
}

// memmemPrefilter searches for a single substring.
type memmemPrefilter struct {
	needle []byte
	lits   [][]byte
}

// Find implements Prefilter.Find using bytes.Index.
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.Index(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memmemPrefilter) Literals() [][]byte { return p.lits }

func (p *memmemPrefilter) String() string {
	return fmt.Sprintf("memmem(%q)", p.needle)
}

// ahoCorasickPrefilter searches for many literals at once.
type ahoCorasickPrefilter struct {
	auto *ahocorasick.Automaton
	lits [][]byte
}

// Find implements Prefilter.Find with the automaton's leftmost match.
func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

func (p *ahoCorasickPrefilter) Literals() [][]byte { return p.lits }

func (p *ahoCorasickPrefilter) String() string {
	return fmt.Sprintf("aho-corasick(%d literals)", len(p.lits))
}
