// Package repl is a manual smoke-test harness for a grammar under
// development: it reads whitespace-separated token names from an
// interactive line editor, feeds them through a just-built in-process
// parser, and prints the reduction result or parse error.
//
// Grounded on internal/input/input.go's InteractiveCommandReader
// (readline.NewEx + Config{Prompt}, ReadCommand's trim-and-retry-on-blank
// loop), generalized from reading whole commands to reading a token line
// fed straight to a parse.Driver.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/dekarrin/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/parse"
)

// REPL reads lines of whitespace-separated token names and drives them
// through a parse.Driver, printing the parsed value or the error.
type REPL struct {
	rl     *readline.Instance
	driver *parse.Driver
	g      *grammar.Grammar
}

// New opens an interactive line editor bound to driver.
func New(driver *parse.Driver, g *grammar.Grammar) (*REPL, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "slrgen> "})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &REPL{rl: rl, driver: driver, g: g}, nil
}

// Close releases the line editor's resources.
func (r *REPL) Close() error {
	return r.rl.Close()
}

// Run reads lines until EOF (Ctrl-D) or an interrupt (Ctrl-C), printing the parse result (or
// error) of each.
func (r *REPL) Run() error {
	for {
		line, err := r.rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lx := newLineLexer(strings.Fields(line))
		val, err := r.driver.Parse(lx)
		if err != nil {
			fmt.Fprintf(r.rl.Stderr(), "error: %v\n", err)
			continue
		}
		fmt.Fprintf(r.rl.Stdout(), "=> %#v\n", val)
	}
}

// lineLexer is a trivial parse.Lexer over a pre-split list of token names,
// with no text/location tracking beyond the token index -- a manual
// smoke-test harness, not a production lexer (the lexer is explicitly out
// of core scope, spec.md §1).
type lineLexer struct {
	toks []string
	pos  int
}

func newLineLexer(toks []string) *lineLexer {
	return &lineLexer{toks: toks}
}

func (l *lineLexer) Lex() (string, error) {
	if l.pos >= len(l.toks) {
		return grammar.NameEnd, nil
	}
	t := l.toks[l.pos]
	l.pos++
	return t, nil
}

func (l *lineLexer) Text() string {
	if l.pos == 0 || l.pos > len(l.toks) {
		return ""
	}
	return l.toks[l.pos-1]
}

func (l *lineLexer) Loc() parse.Location {
	return parse.Location{FirstLine: 1, LastLine: 1, FirstColumn: l.pos, LastColumn: l.pos}
}
