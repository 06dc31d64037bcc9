package syntax

import "cmp"

// Empty returns a node matching the empty sequence.
func Empty[I any]() *Regexp[I] {
	return &Regexp[I]{Op: OpEmpty}
}

// Begin returns a start-of-input anchor.
func Begin[I any]() *Regexp[I] {
	return &Regexp[I]{Op: OpBegin}
}

// End returns an end-of-input anchor.
func End[I any]() *Regexp[I] {
	return &Regexp[I]{Op: OpEnd}
}

// Satisfy returns a node matching one symbol accepted by pred.
func Satisfy[I any](pred Predicate[I]) *Regexp[I] {
	return &Regexp[I]{Op: OpSatisfy, Pred: pred}
}

// NotSatisfy returns a node matching one symbol rejected by pred.
func NotSatisfy[I any](pred Predicate[I]) *Regexp[I] {
	return &Regexp[I]{Op: OpNotSatisfy, Pred: pred}
}

// Concat returns a node matching r followed by s.
func Concat[I any](r, s *Regexp[I]) *Regexp[I] {
	return &Regexp[I]{Op: OpConcat, Sub: []*Regexp[I]{r, s}}
}

// Or returns a node matching r or s. When both match from the same position
// r wins.
func Or[I any](r, s *Regexp[I]) *Regexp[I] {
	return &Regexp[I]{Op: OpOr, Sub: []*Regexp[I]{r, s}}
}

// Group returns a numbered capturing group around r.
func Group[I any](r *Regexp[I]) *Regexp[I] {
	return &Regexp[I]{Op: OpGroup, Sub: []*Regexp[I]{r}}
}

// NamedGroup returns a numbered capturing group around r that can also be
// looked up by name.
func NamedGroup[I any](name string, r *Regexp[I]) *Regexp[I] {
	return &Regexp[I]{Op: OpNamedGroup, Name: name, Sub: []*Regexp[I]{r}}
}

// NonCapturingGroup returns r grouped without a capture.
func NonCapturingGroup[I any](r *Regexp[I]) *Regexp[I] {
	return &Regexp[I]{Op: OpNonCapturingGroup, Sub: []*Regexp[I]{r}}
}

// ZeroOrOne returns r? (greedy) or r?? (lazy).
func ZeroOrOne[I any](r *Regexp[I], greedy bool) *Regexp[I] {
	return &Regexp[I]{Op: OpZeroOrOne, Sub: []*Regexp[I]{r}, Greedy: greedy}
}

// Repeat0 returns r* (greedy) or r*? (lazy).
func Repeat0[I any](r *Regexp[I], greedy bool) *Regexp[I] {
	return &Regexp[I]{Op: OpRepeat0, Sub: []*Regexp[I]{r}, Greedy: greedy}
}

// Repeat1 returns r+ (greedy) or r+? (lazy).
func Repeat1[I any](r *Regexp[I], greedy bool) *Regexp[I] {
	return &Regexp[I]{Op: OpRepeat1, Sub: []*Regexp[I]{r}, Greedy: greedy}
}

// RepeatN returns r{n}.
func RepeatN[I any](r *Regexp[I], n int) *Regexp[I] {
	return &Regexp[I]{Op: OpRepeatN, Sub: []*Regexp[I]{r}, Min: n}
}

// RepeatMinMax returns r{min,max}. A negative max means no upper bound,
// i.e. r{min,}.
func RepeatMinMax[I any](r *Regexp[I], min, max int, greedy bool) *Regexp[I] {
	if max < 0 {
		max = -1
	}
	return &Regexp[I]{Op: OpRepeatMinMax, Sub: []*Regexp[I]{r}, Min: min, Max: max, Greedy: greedy}
}

// Seq concatenates rs left to right. An empty list yields Empty.
func Seq[I any](rs ...*Regexp[I]) *Regexp[I] {
	if len(rs) == 0 {
		return Empty[I]()
	}
	re := rs[0]
	for _, r := range rs[1:] {
		re = Concat(re, r)
	}
	return re
}

// Alt folds rs into nested Or nodes keeping their priority order, so
// Alt(a, b, c) prefers a, then b, then c. An empty list yields Empty.
func Alt[I any](rs ...*Regexp[I]) *Regexp[I] {
	switch len(rs) {
	case 0:
		return Empty[I]()
	case 1:
		return rs[0]
	}
	return Or(rs[0], Alt(rs[1:]...))
}

// Any returns a node matching any single symbol.
func Any[I any]() *Regexp[I] {
	return Satisfy[I](func(I) bool { return true })
}

// Symbol returns a node matching exactly want.
func Symbol[I comparable](want I) *Regexp[I] {
	return Satisfy[I](func(sym I) bool { return sym == want })
}

// Literal returns a node matching the sequence syms.
func Literal[I comparable](syms ...I) *Regexp[I] {
	rs := make([]*Regexp[I], len(syms))
	for i, s := range syms {
		rs[i] = Symbol(s)
	}
	return Seq(rs...)
}

// OneOf returns a predicate accepting any member of set.
func OneOf[I comparable](set ...I) Predicate[I] {
	m := make(map[I]struct{}, len(set))
	for _, s := range set {
		m[s] = struct{}{}
	}
	return func(sym I) bool {
		_, ok := m[sym]
		return ok
	}
}

// InRange returns a predicate accepting lo <= sym <= hi.
func InRange[I cmp.Ordered](lo, hi I) Predicate[I] {
	return func(sym I) bool { return sym >= lo && sym <= hi }
}
