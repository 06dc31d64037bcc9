package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"-v", "-4"}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Stdin(t *testing.T) {
	input := "apple pie\nbanana\ncherry 42\n"
	tests := []struct {
		name string
		args []string
		code int
		out  string
	}{
		{"lines", []string{"-E", "an+a"}, 0, "banana\n"},
		{"positional pattern", []string{`\d+`}, 0, "cherry 42\n"},
		{"line numbers", []string{"-n", "-E", "e"}, 0, "1:apple pie\n3:cherry 42\n"},
		{"only matching", []string{"-o", "-E", "[aeiou]+"}, 0, "a\ne\nie\na\na\na\ne\n"},
		{"count", []string{"-c", "-E", "a"}, 0, "2\n"},
		{"no match", []string{"-E", "kiwi"}, 1, ""},
		{"count no match", []string{"-c", "-E", "kiwi"}, 1, "0\n"},
		{"anchored", []string{"-E", "^b.*a$"}, 0, "banana\n"},
		{"alternation prefilter", []string{"-E", "pie|cherry"}, 0, "apple pie\ncherry 42\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := runCLI(t, input, tt.args...)
			assert.Equal(t, code, tt.code)
			assert.Equal(t, out, tt.out)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	code, _, stderr := runCLI(t, "", "-E", "a(")
	assert.Equal(t, code, 2)
	assert.Assert(t, strings.Contains(stderr, "missing )"), stderr)

	code, _, _ = runCLI(t, "")
	assert.Equal(t, code, 2)

	code, _, stderr = runCLI(t, "", "-E", "a", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, code, 2)
	assert.Equal(t, strings.Count(stderr, "missing.txt"), 1, stderr)
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	one := filepath.Join(dir, "one.txt")
	two := filepath.Join(dir, "two.txt")
	assert.NilError(t, os.WriteFile(one, []byte("foo\nbar\n"), 0o644))
	assert.NilError(t, os.WriteFile(two, []byte("baz\nfoobar\n"), 0o644))

	code, out, _ := runCLI(t, "", "-n", "-E", "foo", one, two)
	assert.Equal(t, code, 0)
	assert.Equal(t, out, one+":1:foo\n"+two+":2:foobar\n")

	code, out, _ = runCLI(t, "", "-c", "-E", "ba", one, two)
	assert.Equal(t, code, 0)
	assert.Equal(t, out, one+":1\n"+two+":2\n")

	code, out, _ = runCLI(t, "", "-E", "qux", one)
	assert.Equal(t, code, 1)
	assert.Equal(t, out, "")
}
