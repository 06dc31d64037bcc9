package symrex

// Span is a half-open range [Start, End) of input positions.
type Span struct {
	Start int
	End   int
}

// Len returns the number of symbols in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Match is the whole-match span of a successful search together with the
// input it was found in.
type Match[I any] struct {
	Input []I
	Start int
	End   int
}

// Slice returns the matched symbols. The result aliases Input.
func (m Match[I]) Slice() []I {
	return m.Input[m.Start:m.End]
}

// Len returns the number of matched symbols.
func (m Match[I]) Len() int {
	return m.End - m.Start
}

// Span returns the match range.
func (m Match[I]) Span() Span {
	return Span{Start: m.Start, End: m.End}
}

// Captures holds the group spans of a successful search.
//
// Locations[0] is the whole match and Locations[i] is group i. Locations
// stops before the first group that did not participate in the match; use
// Regex.SubmatchIndex to see every group. NamedIndex maps a group name to
// the highest-numbered group carrying it; each Captures gets its own copy.
type Captures[I any] struct {
	Input      []I
	Locations  []Span
	NamedIndex map[string]int
}

// Len returns the number of recorded groups.
func (c Captures[I]) Len() int {
	return len(c.Locations)
}

// Get returns the span of group i.
func (c Captures[I]) Get(i int) (Span, bool) {
	if i < 0 || i >= len(c.Locations) {
		return Span{}, false
	}
	return c.Locations[i], true
}

// Name returns the span of the group called name.
func (c Captures[I]) Name(name string) (Span, bool) {
	i, ok := c.NamedIndex[name]
	if !ok {
		return Span{}, false
	}
	return c.Get(i)
}

// Slice returns the symbols captured by group i, or nil if it is absent.
// The result aliases Input.
func (c Captures[I]) Slice(i int) []I {
	s, ok := c.Get(i)
	if !ok {
		return nil
	}
	return c.Input[s.Start:s.End]
}
