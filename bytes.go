package symrex

import (
	"github.com/coregx/symrex/prefilter"
)

// BytesRegex is a Regex over bytes gated by a literal prefilter.
//
// The caller promises that every match of the regex contains at least one
// of the required literals. Searches first scan for those literals and only
// run the VM when one is present in the remaining input. Results are
// identical to the underlying Regex whenever the promise holds.
//
// Example:
//
//	re := symrex.MustCompile(syntax.Literal[byte]('f', 'o', 'o'))
//	br, _ := symrex.NewBytes(re, []byte("foo"))
//	br.IsMatch([]byte("no match here")) // false without running the VM
type BytesRegex struct {
	re *Regex[byte]
	pf prefilter.Prefilter
}

// NewBytes wraps re with a prefilter built from required. With no required
// literals, or with an empty one, the BytesRegex behaves exactly like re.
func NewBytes(re *Regex[byte], required ...[]byte) (*BytesRegex, error) {
	pf, err := prefilter.New(required)
	if err != nil {
		return nil, err
	}
	return &BytesRegex{re: re, pf: pf}, nil
}

// Regex returns the underlying regex.
func (b *BytesRegex) Regex() *Regex[byte] {
	return b.re
}

// Prefilter returns the prefilter, or nil if there is none.
func (b *BytesRegex) Prefilter() prefilter.Prefilter {
	return b.pf
}

// String returns the underlying regex rendering.
func (b *BytesRegex) String() string {
	return b.re.String()
}

// rejects reports whether no match can start at or after at.
func (b *BytesRegex) rejects(input []byte, at int) bool {
	return b.pf != nil && b.pf.Find(input, at) < 0
}

// IsMatch reports whether input contains any match.
func (b *BytesRegex) IsMatch(input []byte) bool {
	if b.rejects(input, 0) {
		return false
	}
	return b.re.IsMatch(input)
}

// IsFullMatch reports whether input as a whole matches.
func (b *BytesRegex) IsFullMatch(input []byte) bool {
	if b.rejects(input, 0) {
		return false
	}
	return b.re.IsFullMatch(input)
}

// Find returns the leftmost-first match in input.
func (b *BytesRegex) Find(input []byte) (Match[byte], bool) {
	return b.FindAt(input, 0)
}

// FindAt is like Find but starts the search at position at.
func (b *BytesRegex) FindAt(input []byte, at int) (Match[byte], bool) {
	if b.rejects(input, at) {
		return Match[byte]{}, false
	}
	return b.re.FindAt(input, at)
}

// FindAll returns successive non-overlapping matches in input, with the same
// conventions as Regex.FindAll.
func (b *BytesRegex) FindAll(input []byte, n int) []Match[byte] {
	if n == 0 || b.rejects(input, 0) {
		return nil
	}

	var matches []Match[byte]
	pos := 0
	for pos <= len(input) {
		m, ok := b.FindAt(input, pos)
		if !ok {
			break
		}
		matches = append(matches, m)

		if m.End > m.Start {
			pos = m.End
		} else {
			pos = m.End + 1
		}

		if n > 0 && len(matches) >= n {
			break
		}
	}
	return matches
}

// Captures returns the group spans of the leftmost-first match in input.
func (b *BytesRegex) Captures(input []byte) (Captures[byte], bool) {
	if b.rejects(input, 0) {
		return Captures[byte]{}, false
	}
	return b.re.Captures(input)
}

// SubmatchIndex returns the slot pairs of every group of the leftmost-first
// match, or nil if there is none.
func (b *BytesRegex) SubmatchIndex(input []byte) []int {
	if b.rejects(input, 0) {
		return nil
	}
	return b.re.SubmatchIndex(input)
}
