// Package pattern parses a compact textual syntax into byte regex trees.
//
// The syntax is a small subset of the usual Perl-style notation:
//
//	c           literal byte; \c escapes punctuation
//	.           any byte except newline
//	\d \w \s    digit, word and space classes (\D \W \S negate)
//	[a-z_]      byte class; [^...] negates
//	(re)        capturing group
//	(?:re)      non-capturing group
//	(?P<n>re)   named group, also (?<n>re)
//	re|re       alternation, left preferred
//	* + ?       repetition, greedy
//	{n} {n,} {n,m}
//	*? +? ?? {n,m}?  lazy repetition
//	^ $         start and end of input
//
// Besides the tree, Parse reports literals that every match must contain,
// which callers feed to a prefilter.
package pattern

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/coregx/symrex/syntax"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("invalid pattern")

// maxNesting bounds group nesting so parsing cannot exhaust the stack.
const maxNesting = 1000

// Error describes a parse failure at a byte offset.
type Error struct {
	Pos int
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%v at offset %d: %s", ErrSyntax, e.Pos, e.Msg)
}

// Unwrap returns ErrSyntax.
func (e *Error) Unwrap() error {
	return ErrSyntax
}

// Parsed is the result of Parse.
type Parsed struct {
	// Node is the regex tree.
	Node *syntax.Regexp[byte]

	// Literals holds byte strings at least one of which occurs in every
	// match. It is nil when no such set is known.
	Literals [][]byte
}

// Parse parses src.
func Parse(src string) (*Parsed, error) {
	p := &parser{src: src}
	f, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		// Only an unmatched ')' stops the top-level alternation early.
		return nil, p.errorf("unexpected )")
	}
	return &Parsed{Node: f.node, Literals: f.req}, nil
}

// frag is a parsed subtree together with its literal facts.
type frag struct {
	node *syntax.Regexp[byte]

	// exact is set when the subtree only ever matches lit.
	exact bool
	lit   []byte

	// req is a set of literals one of which occurs in every match, or nil.
	req [][]byte
}

func exactFrag(node *syntax.Regexp[byte], lit []byte) frag {
	f := frag{node: node, exact: true, lit: lit}
	if len(lit) > 0 {
		f.req = [][]byte{lit}
	}
	return f
}

type parser struct {
	src   string
	pos   int
	depth int
}

func (p *parser) errorf(format string, args ...any) error {
	return &Error{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) more() bool {
	return p.pos < len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

func (p *parser) parseAlternation() (frag, error) {
	first, err := p.parseConcatenation()
	if err != nil {
		return frag{}, err
	}
	alts := []frag{first}
	for p.more() && p.peek() == '|' {
		p.pos++
		next, err := p.parseConcatenation()
		if err != nil {
			return frag{}, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return first, nil
	}

	nodes := make([]*syntax.Regexp[byte], len(alts))
	var req [][]byte
	known := true
	for i, a := range alts {
		nodes[i] = a.node
		if len(a.req) == 0 {
			known = false
		}
		req = append(req, a.req...)
	}
	f := frag{node: syntax.Alt(nodes...)}
	if known {
		f.req = req
	}
	return f, nil
}

func (p *parser) parseConcatenation() (frag, error) {
	var parts []frag
	for p.more() {
		c := p.peek()
		if c == ')' || c == '|' {
			break
		}
		f, err := p.parseRepetition()
		if err != nil {
			return frag{}, err
		}
		parts = append(parts, f)
	}
	switch len(parts) {
	case 0:
		return exactFrag(syntax.Empty[byte](), nil), nil
	case 1:
		return parts[0], nil
	}
	return concatFrags(parts), nil
}

// concatFrags joins parts. Runs of exact parts merge into longer literals,
// and the required set with the longest shortest member is kept.
func concatFrags(parts []frag) frag {
	nodes := make([]*syntax.Regexp[byte], len(parts))
	allExact := true
	var run, whole []byte
	var best [][]byte

	consider := func(set [][]byte) {
		if len(set) > 0 && shortest(set) > shortest(best) {
			best = set
		}
	}
	for i, f := range parts {
		nodes[i] = f.node
		if f.exact {
			run = append(run, f.lit...)
			whole = append(whole, f.lit...)
			continue
		}
		allExact = false
		if len(run) > 0 {
			consider([][]byte{run})
			run = nil
		}
		consider(f.req)
	}
	if len(run) > 0 {
		consider([][]byte{run})
	}

	node := syntax.Seq(nodes...)
	if allExact {
		return exactFrag(node, whole)
	}
	return frag{node: node, req: best}
}

// shortest returns the length of the shortest literal in set, or 0.
func shortest(set [][]byte) int {
	if len(set) == 0 {
		return 0
	}
	n := len(set[0])
	for _, lit := range set[1:] {
		n = min(n, len(lit))
	}
	return n
}

func (p *parser) parseRepetition() (frag, error) {
	start := p.pos
	atom, err := p.parseAtom()
	if err != nil {
		return frag{}, err
	}
	if !p.more() {
		return atom, nil
	}

	var lo, hi int
	switch c := p.peek(); c {
	case '*':
		lo, hi = 0, -1
		p.pos++
	case '+':
		lo, hi = 1, -1
		p.pos++
	case '?':
		lo, hi = 0, 1
		p.pos++
	case '{':
		var ok bool
		lo, hi, ok, err = p.parseCount()
		if err != nil {
			return frag{}, err
		}
		if !ok {
			return atom, nil
		}
	default:
		return atom, nil
	}

	greedy := true
	if p.more() && p.peek() == '?' {
		greedy = false
		p.pos++
	}
	if p.more() && isRepeatOp(p.src[p.pos:]) {
		return frag{}, p.errorf("invalid nested repetition operator %q", p.src[start:p.pos+1])
	}
	return repeatFrag(atom, lo, hi, greedy), nil
}

func isRepeatOp(rest string) bool {
	switch rest[0] {
	case '*', '+', '?':
		return true
	case '{':
		_, _, n := scanCount(rest)
		return n > 0
	}
	return false
}

// repeatFrag applies a quantifier; hi < 0 means unbounded.
func repeatFrag(f frag, lo, hi int, greedy bool) frag {
	var node *syntax.Regexp[byte]
	switch {
	case lo == 0 && hi == 1:
		node = syntax.ZeroOrOne(f.node, greedy)
	case lo == 0 && hi < 0:
		node = syntax.Repeat0(f.node, greedy)
	case lo == 1 && hi < 0:
		node = syntax.Repeat1(f.node, greedy)
	case lo == hi:
		node = syntax.RepeatN(f.node, lo)
	default:
		node = syntax.RepeatMinMax(f.node, lo, hi, greedy)
	}

	switch {
	case lo == hi && f.exact:
		return exactFrag(node, bytes.Repeat(f.lit, lo))
	case lo >= 1:
		return frag{node: node, req: f.req}
	}
	return frag{node: node}
}

// parseCount parses {n}, {n,} or {n,m} at the current position. ok is false
// when the brace does not start a valid count, in which case it is an
// ordinary literal.
func (p *parser) parseCount() (lo, hi int, ok bool, err error) {
	lo, hi, n := scanCount(p.src[p.pos:])
	if n == 0 {
		return 0, 0, false, nil
	}
	if lo < 0 || (hi >= 0 && hi < lo) {
		return 0, 0, false, p.errorf("invalid repeat count %s", p.src[p.pos:p.pos+n])
	}
	p.pos += n
	return lo, hi, true, nil
}

// scanCount recognises a counted repetition at the start of s and returns
// its bounds and length, or n == 0. lo is -1 when a bound overflows.
func scanCount(s string) (lo, hi, n int) {
	if len(s) < 3 || s[0] != '{' {
		return 0, 0, 0
	}
	i := 1
	digits := func() (int, bool) {
		j := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == j {
			return 0, false
		}
		v, err := strconv.Atoi(s[j:i])
		if err != nil {
			return -1, true
		}
		return v, true
	}

	lo, ok := digits()
	if !ok || i >= len(s) {
		return 0, 0, 0
	}
	hi = lo
	if s[i] == ',' {
		i++
		hi = -1
		if i < len(s) && s[i] != '}' {
			v, ok := digits()
			if !ok {
				return 0, 0, 0
			}
			if v < 0 {
				lo = -1
			}
			hi = v
		}
	}
	if i >= len(s) || s[i] != '}' {
		return 0, 0, 0
	}
	return lo, hi, i + 1
}

func (p *parser) parseAtom() (frag, error) {
	c := p.peek()
	switch c {
	case '(':
		return p.parseGroup()
	case '.':
		p.pos++
		return frag{node: syntax.Satisfy[byte](notNewline)}, nil
	case '^':
		p.pos++
		return exactFrag(syntax.Begin[byte](), nil), nil
	case '$':
		p.pos++
		return exactFrag(syntax.End[byte](), nil), nil
	case '[':
		return p.parseClass()
	case '\\':
		return p.parseEscape()
	case '*', '+', '?':
		return frag{}, p.errorf("missing argument to repetition operator %q", c)
	case '{':
		if _, _, n := scanCount(p.src[p.pos:]); n > 0 {
			return frag{}, p.errorf("missing argument to repetition operator %q", p.src[p.pos:p.pos+n])
		}
	}
	p.pos++
	return literal(c), nil
}

func literal(c byte) frag {
	return exactFrag(syntax.Symbol(c), []byte{c})
}

func (p *parser) parseGroup() (frag, error) {
	open := p.pos
	p.pos++
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxNesting {
		return frag{}, p.errorf("nesting depth exceeds %d", maxNesting)
	}

	kind, name := "capture", ""
	rest := p.src[p.pos:]
	switch {
	case len(rest) >= 2 && rest[:2] == "?:":
		kind = "none"
		p.pos += 2
	case len(rest) >= 3 && rest[:3] == "?P<", len(rest) >= 2 && rest[:2] == "?<":
		kind = "named"
		if rest[1] == 'P' {
			p.pos++
		}
		p.pos += 2
		end := p.pos
		for end < len(p.src) && isWordByte(p.src[end]) {
			end++
		}
		if end >= len(p.src) || p.src[end] != '>' || end == p.pos {
			return frag{}, p.errorf("invalid group name")
		}
		name = p.src[p.pos:end]
		p.pos = end + 1
	case len(rest) >= 1 && rest[0] == '?':
		return frag{}, p.errorf("unsupported group flag")
	}

	inner, err := p.parseAlternation()
	if err != nil {
		return frag{}, err
	}
	if !p.more() || p.peek() != ')' {
		return frag{}, &Error{Pos: open, Msg: "missing )"}
	}
	p.pos++

	switch kind {
	case "none":
		inner.node = syntax.NonCapturingGroup(inner.node)
	case "named":
		inner.node = syntax.NamedGroup(name, inner.node)
	default:
		inner.node = syntax.Group(inner.node)
	}
	return inner, nil
}

func (p *parser) parseEscape() (frag, error) {
	p.pos++
	if !p.more() {
		return frag{}, p.errorf("trailing backslash")
	}
	c := p.peek()
	p.pos++
	if set, ok := classEscape(c); ok {
		return frag{node: syntax.Satisfy[byte](set.contains)}, nil
	}
	lit, ok := literalEscape(c)
	if !ok {
		return frag{}, &Error{Pos: p.pos - 2, Msg: fmt.Sprintf("invalid escape \\%c", c)}
	}
	return literal(lit), nil
}

// literalEscape maps the byte after a backslash to the literal it denotes.
func literalEscape(c byte) (byte, bool) {
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case 'f':
		return '\f', true
	case 'v':
		return '\v', true
	case '0':
		return 0, true
	}
	if c < 0x80 && !isWordByte(c) {
		return c, true
	}
	return 0, false
}

func (p *parser) parseClass() (frag, error) {
	open := p.pos
	p.pos++
	var set byteSet
	negate := false
	if p.more() && p.peek() == '^' {
		negate = true
		p.pos++
	}

	first := true
	for {
		if !p.more() {
			return frag{}, &Error{Pos: open, Msg: "missing ]"}
		}
		c := p.peek()
		if c == ']' && !first {
			p.pos++
			break
		}
		first = false

		lo, isSet, err := p.classAtom(&set)
		if err != nil {
			return frag{}, err
		}
		if isSet {
			continue
		}
		if p.pos+1 < len(p.src) && p.peek() == '-' && p.src[p.pos+1] != ']' {
			p.pos++
			hi, hiSet, err := p.classAtom(&set)
			if err != nil {
				return frag{}, err
			}
			if hiSet {
				return frag{}, p.errorf("invalid class range")
			}
			if hi < lo {
				return frag{}, p.errorf("invalid class range %c-%c", lo, hi)
			}
			set.addRange(lo, hi)
			continue
		}
		set.add(lo)
	}

	if negate {
		set.invert()
	}
	if lit, ok := set.single(); ok {
		return literal(lit), nil
	}
	return frag{node: syntax.Satisfy[byte](set.contains)}, nil
}

// classAtom reads one class member. Class escapes such as \d are merged
// into set directly and reported with isSet.
func (p *parser) classAtom(set *byteSet) (c byte, isSet bool, err error) {
	c = p.peek()
	p.pos++
	if c != '\\' {
		return c, false, nil
	}
	if !p.more() {
		return 0, false, p.errorf("trailing backslash")
	}
	e := p.peek()
	p.pos++
	if cls, ok := classEscape(e); ok {
		set.union(cls)
		return 0, true, nil
	}
	lit, ok := literalEscape(e)
	if !ok {
		return 0, false, &Error{Pos: p.pos - 2, Msg: fmt.Sprintf("invalid escape \\%c", e)}
	}
	return lit, false, nil
}

func notNewline(c byte) bool {
	return c != '\n'
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
