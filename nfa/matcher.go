package nfa

import (
	"sync"

	"github.com/coregx/symrex/syntax"
)

// Matcher answers whole-input membership for a compiled tree.
//
// Unlike EpsilonNFA it is safe for concurrent use: each call runs on a clone
// taken from a sync.Pool.
type Matcher[I any] struct {
	proto *EpsilonNFA[I]
	pool  sync.Pool
}

// NewMatcher compiles re with config.
func NewMatcher[I any](re *syntax.Regexp[I], config CompilerConfig) (*Matcher[I], error) {
	e, err := CompileWithConfig(re, config)
	if err != nil {
		return nil, err
	}
	m := &Matcher[I]{proto: e}
	m.pool.New = func() any {
		return e.Clone()
	}
	return m, nil
}

// Accept reports whether re matches all of input.
func (m *Matcher[I]) Accept(input []I) bool {
	e := m.pool.Get().(*EpsilonNFA[I])
	defer m.pool.Put(e)
	e.Reset()
	return e.Accept(input)
}

// NFA returns a private copy of the underlying automaton.
func (m *Matcher[I]) NFA() *EpsilonNFA[I] {
	return m.proto.Clone()
}
