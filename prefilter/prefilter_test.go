package prefilter

import "testing"

func lits(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func TestNew_Strategy(t *testing.T) {
	tests := []struct {
		name     string
		literals [][]byte
		want     string
	}{
		{"none", nil, ""},
		{"empty literal", lits("abc", ""), ""},
		{"single byte", lits("x"), `memchr('x')`},
		{"substring", lits("hello"), `memmem("hello")`},
		{"duplicates collapse", lits("hello", "hello"), `memmem("hello")`},
		{"several", lits("foo", "bar", "x"), "aho-corasick(3 literals)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf, err := New(tt.literals)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if tt.want == "" {
				if pf != nil {
					t.Errorf("New() = %s, want nil", pf)
				}
				return
			}
			if pf == nil {
				t.Fatalf("New() = nil, want %s", tt.want)
			}
			if got := pf.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrefilter_Find(t *testing.T) {
	haystack := []byte("the quick brown fox jumps")
	tests := []struct {
		name     string
		literals [][]byte
		start    int
		want     int
	}{
		{"memchr", lits("q"), 0, 4},
		{"memchr from start", lits("o"), 13, 17},
		{"memchr missing", lits("z"), 0, -1},
		{"memmem", lits("brown"), 0, 10},
		{"memmem after occurrence", lits("brown"), 11, -1},
		{"aho-corasick leftmost", lits("fox", "quick"), 0, 4},
		{"aho-corasick from start", lits("fox", "quick"), 5, 16},
		{"aho-corasick missing", lits("cat", "dog"), 0, -1},
		{"start past end", lits("q"), len(haystack), -1},
		{"negative start", lits("brown"), -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf, err := New(tt.literals)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := pf.Find(haystack, tt.start); got != tt.want {
				t.Errorf("Find(%d) = %d, want %d", tt.start, got, tt.want)
			}
		})
	}
}

func TestNew_CopiesLiterals(t *testing.T) {
	in := lits("abc")
	pf, err := New(in)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	in[0][0] = 'z'
	if got := pf.Find([]byte("xxabc"), 0); got != 2 {
		t.Errorf("Find() = %d after caller mutation, want 2", got)
	}
	if got := string(pf.Literals()[0]); got != "abc" {
		t.Errorf("Literals()[0] = %q", got)
	}
}
