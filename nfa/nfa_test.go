package nfa

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func isRune(want rune) func(rune) bool {
	return func(r rune) bool { return r == want }
}

func TestRule_Kinds(t *testing.T) {
	eps := NewEpsilonRule[rune](0, 1)
	chk := NewCheckRule(1, 2, isRune('a'))

	if !eps.IsEpsilon() {
		t.Error("epsilon rule reported as conditional")
	}
	if chk.IsEpsilon() {
		t.Error("check rule reported as epsilon")
	}
	if got := eps.String(); got != "Rule(0 -ε-> 1)" {
		t.Errorf("String() = %q", got)
	}
	if got := chk.String(); got != "Rule(1 -#<fn>-> 2)" {
		t.Errorf("String() = %q", got)
	}

	// Copies share the predicate.
	cp := chk
	if !cp.Check('a') || cp.Check('b') {
		t.Error("copied rule lost its predicate")
	}
}

func TestEpsilonClosure(t *testing.T) {
	rules := []Rule[rune]{
		NewEpsilonRule[rune](0, 1),
		NewEpsilonRule[rune](1, 2),
		NewEpsilonRule[rune](2, 0), // cycle
		NewCheckRule(2, 3, isRune('a')),
		NewEpsilonRule[rune](3, 4),
		NewEpsilonRule[rune](5, 5), // self loop
	}

	tests := []struct {
		name  string
		seeds []StateID
		want  []StateID
	}{
		{"cycle", []StateID{0}, []StateID{0, 1, 2}},
		{"enter cycle midway", []StateID{2}, []StateID{0, 1, 2}},
		{"check rule not followed", []StateID{3}, []StateID{3, 4}},
		{"self loop", []StateID{5}, []StateID{5}},
		{"multiple seeds", []StateID{3, 1}, []StateID{0, 1, 2, 3, 4}},
		{"duplicate seeds", []StateID{4, 4}, []StateID{4}},
		{"no seeds", nil, []StateID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EpsilonClosure(tt.seeds, rules)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("EpsilonClosure(%v) mismatch (-want +got):\n%s", tt.seeds, diff)
			}
		})
	}
}

func TestEpsilonClosure_IdempotentAndContainsSeeds(t *testing.T) {
	rules := []Rule[byte]{
		NewEpsilonRule[byte](0, 3),
		NewEpsilonRule[byte](3, 7),
		NewEpsilonRule[byte](7, 3),
		NewEpsilonRule[byte](2, 6),
		NewCheckRule(6, 1, func(byte) bool { return true }),
	}
	for seed := StateID(0); seed < 8; seed++ {
		once := EpsilonClosure([]StateID{seed}, rules)
		twice := EpsilonClosure(once, rules)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("closure of closure of %d differs (-once +twice):\n%s", seed, diff)
		}
		found := false
		for _, s := range once {
			if s == seed {
				found = true
			}
		}
		if !found {
			t.Errorf("closure of %d = %v does not contain the seed", seed, once)
		}
	}
}

func TestEpsilonClosure_SeedOutsideRules(t *testing.T) {
	got := EpsilonClosure([]StateID{9}, []Rule[int]{NewEpsilonRule[int](0, 1)})
	if diff := cmp.Diff([]StateID{9}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
