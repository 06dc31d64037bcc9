package symrex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/coregx/symrex/syntax"
)

func TestNewBytes_Prefilter(t *testing.T) {
	re := MustCompile(syntax.Literal[byte]('f', 'o', 'o'))

	br, err := NewBytes(re)
	assert.NilError(t, err)
	assert.Assert(t, br.Prefilter() == nil)
	assert.Equal(t, br.Regex(), re)

	br, err = NewBytes(re, []byte("foo"))
	assert.NilError(t, err)
	assert.Equal(t, br.Prefilter().String(), `memmem("foo")`)

	br, err = NewBytes(re, []byte("foo"), []byte{})
	assert.NilError(t, err)
	assert.Assert(t, br.Prefilter() == nil)
}

func TestBytesRegex_MatchesLikeRegex(t *testing.T) {
	// (foo|bar)\d+
	digits := syntax.Repeat1(syntax.Satisfy[byte](func(c byte) bool { return c >= '0' && c <= '9' }), true)
	tree := syntax.Concat(
		syntax.Group(syntax.Or(syntax.Literal[byte]('f', 'o', 'o'), syntax.Literal[byte]('b', 'a', 'r'))),
		digits,
	)
	re := MustCompile(tree)
	br, err := NewBytes(re, []byte("foo"), []byte("bar"))
	assert.NilError(t, err)
	assert.Equal(t, br.String(), re.String())

	inputs := []string{"", "foo", "foo1", "xxbar22yy", "bar foo7 bar8", "nothing", "12 foo"}
	for _, s := range inputs {
		input := []byte(s)
		assert.Equal(t, br.IsMatch(input), re.IsMatch(input), s)

		wantM, wantOK := re.Find(input)
		gotM, gotOK := br.Find(input)
		assert.Equal(t, gotOK, wantOK, s)
		assert.DeepEqual(t, gotM.Span(), wantM.Span())

		wantC, _ := re.Captures(input)
		gotC, _ := br.Captures(input)
		assert.DeepEqual(t, gotC.Locations, wantC.Locations)
		assert.DeepEqual(t, br.SubmatchIndex(input), re.SubmatchIndex(input))

		var want, got []Span
		for _, m := range re.FindAll(input, -1) {
			want = append(want, m.Span())
		}
		for _, m := range br.FindAll(input, -1) {
			got = append(got, m.Span())
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("FindAll(%q) mismatch (-want +got):\n%s", s, diff)
		}
	}
}

func TestBytesRegex_FindAtSkipsWithoutLiteral(t *testing.T) {
	re := MustCompile(syntax.Literal[byte]('a', 'b'))
	br, err := NewBytes(re, []byte("ab"))
	assert.NilError(t, err)

	input := []byte("ab--")
	_, ok := br.FindAt(input, 1)
	assert.Assert(t, !ok)
	m, ok := br.FindAt(input, 0)
	assert.Assert(t, ok)
	assert.DeepEqual(t, m.Span(), Span{0, 2})

	assert.Assert(t, br.FindAll(input, 0) == nil)
	assert.Equal(t, len(br.FindAll([]byte("ab ab ab"), 2)), 2)
}
