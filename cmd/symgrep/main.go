// symgrep searches files for lines matching a pattern.
//
// Usage:
//
//	symgrep [-o] [-n] [-c] [-v N] -E pattern [files...]
//	symgrep [options] pattern [files...]
//
// With no files, standard input is searched. The exit status is 0 if any
// line matched, 1 if none did and 2 on error.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/coregx/symrex"
	"github.com/coregx/symrex/internal/pattern"
)

const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

// maxLineSize bounds a single input line.
const maxLineSize = 16 << 20

var log = commonlog.GetLogger("symgrep")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	onlyMatching bool
	lineNumbers  bool
	countOnly    bool
	withNames    bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("symgrep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	expr := fs.String("E", "", "Pattern to search for")
	onlyMatching := fs.Bool("o", false, "Print only the matched parts of lines")
	lineNumbers := fs.Bool("n", false, "Prefix output with line numbers")
	countOnly := fs.Bool("c", false, "Print only a count of matching lines")
	verbosity := fs.Int("v", 0, "Log verbosity (-4 silent, 2 debug)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: symgrep [options] -E pattern [files...]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitMatch
		}
		return exitError
	}
	commonlog.Configure(*verbosity, nil)

	files := fs.Args()
	src := *expr
	if src == "" {
		if len(files) == 0 {
			fs.Usage()
			return exitError
		}
		src, files = files[0], files[1:]
	}

	re, err := compile(src)
	if err != nil {
		fmt.Fprintf(stderr, "symgrep: %v\n", err)
		return exitError
	}

	opts := options{
		onlyMatching: *onlyMatching,
		lineNumbers:  *lineNumbers,
		countOnly:    *countOnly,
		withNames:    len(files) > 1,
	}
	out := bufio.NewWriter(stdout)
	defer out.Flush()

	if len(files) == 0 {
		matched, err := search(re, stdin, "(standard input)", opts, out)
		if err != nil {
			fmt.Fprintf(stderr, "symgrep: %v\n", err)
			return exitError
		}
		return status(matched)
	}

	code := exitNoMatch
	for _, name := range files {
		matched, err := searchFile(re, name, opts, out)
		if err != nil {
			log.Debugf("skipping %s: %v", name, err)
			fmt.Fprintf(stderr, "symgrep: %v\n", err)
			code = exitError
			continue
		}
		if matched && code == exitNoMatch {
			code = exitMatch
		}
	}
	return code
}

func status(matched bool) int {
	if matched {
		return exitMatch
	}
	return exitNoMatch
}

// compile parses src and gates the regex with the literals every match
// must contain.
func compile(src string) (*symrex.BytesRegex, error) {
	parsed, err := pattern.Parse(src)
	if err != nil {
		return nil, err
	}
	re, err := symrex.Compile(parsed.Node)
	if err != nil {
		return nil, err
	}
	br, err := symrex.NewBytes(re, parsed.Literals...)
	if err != nil {
		return nil, err
	}

	log.Debugf("pattern %q compiled to %d instructions", src, re.Program().Len())
	if pf := br.Prefilter(); pf != nil {
		log.Infof("using %s prefilter", pf)
	} else {
		log.Infof("no prefilter")
	}
	return br, nil
}

func searchFile(re *symrex.BytesRegex, name string, opts options, out *bufio.Writer) (bool, error) {
	f, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()
	return search(re, f, name, opts, out)
}

// search writes the matching lines of r to out and reports whether any
// line matched.
func search(re *symrex.BytesRegex, r io.Reader, name string, opts options, out *bufio.Writer) (bool, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	count := 0
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if !opts.onlyMatching || opts.countOnly {
			if !re.IsMatch(line) {
				continue
			}
			count++
			if !opts.countOnly {
				writePrefix(out, name, lineNo, opts)
				out.Write(line)
				out.WriteByte('\n')
			}
			continue
		}

		matched := false
		for _, m := range re.FindAll(line, -1) {
			if m.Len() == 0 {
				continue
			}
			matched = true
			writePrefix(out, name, lineNo, opts)
			out.Write(m.Slice())
			out.WriteByte('\n')
		}
		if matched {
			count++
		}
	}
	if err := sc.Err(); err != nil {
		return count > 0, fmt.Errorf("%s: %w", name, err)
	}

	if opts.countOnly {
		if opts.withNames {
			fmt.Fprintf(out, "%s:", name)
		}
		fmt.Fprintf(out, "%d\n", count)
	}
	log.Debugf("%s: %d of %d lines matched", name, count, lineNo)
	return count > 0, nil
}

func writePrefix(out *bufio.Writer, name string, lineNo int, opts options) {
	if opts.withNames {
		out.WriteString(name)
		out.WriteByte(':')
	}
	if opts.lineNumbers {
		fmt.Fprintf(out, "%d:", lineNo)
	}
}
