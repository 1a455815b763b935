// Package icterrors defines the error taxonomy used across the generator:
// grammar-structural errors raised during compilation, and syntax errors
// raised by a running parser. Both carry a technical Error() string and,
// where useful, a separate human-readable summary for CLI display.
package icterrors

import (
	"fmt"

	"github.com/dekarrin/ictiobus/internal/util"
)

// grammarError is a generation-time structural error: no rules defined,
// undefined start symbol, unknown grammar format, unsupported action type.
// These abort generation synchronously (spec §7).
type grammarError struct {
	msg  string
	wrap error
}

func (e *grammarError) Error() string {
	return e.msg
}

func (e *grammarError) Unwrap() error {
	return e.wrap
}

// Grammar returns a new grammar-structural error.
func Grammar(format string, a ...interface{}) error {
	return &grammarError{msg: fmt.Sprintf(format, a...)}
}

// WrapGrammar returns a new grammar-structural error wrapping e.
func WrapGrammar(e error, format string, a ...interface{}) error {
	return &grammarError{msg: fmt.Sprintf(format, a...), wrap: e}
}

// conflictError reports a parse-table conflict that could not be resolved
// cleanly by precedence (reduce/reduce or ambiguous shift/reduce). Counted,
// not fatal by itself; the caller decides whether to abort (spec §4.6.2,
// §7).
type conflictError struct {
	msg string
}

func (e *conflictError) Error() string {
	return e.msg
}

// Conflict returns a new conflict diagnostic error.
func Conflict(format string, a ...interface{}) error {
	return &conflictError{msg: fmt.Sprintf(format, a...)}
}

// SyntaxError is a runtime parse error: an unexpected token was encountered
// and no action table entry covers it. It carries enough information for a
// parseError hook to build a human-facing message (spec §7).
type SyntaxError struct {
	msg      string
	Token    string // lexeme of the offending token
	Line     int
	LinePos  int
	Expected []string // human names of terminals that would have been accepted
}

func (e *SyntaxError) Error() string {
	return e.msg
}

// Summary renders a CLI-facing one-liner naming what was expected, in place
// of the raw Expected slice a parseError hook would otherwise have to format
// itself.
func (e *SyntaxError) Summary() string {
	if len(e.Expected) == 0 {
		return e.msg
	}
	return fmt.Sprintf("%s: expected %s", e.msg, util.MakeTextList(e.Expected))
}

// NewSyntaxErrorFromToken builds a SyntaxError carrying the given line,
// column, and lexeme, and the given human-readable message.
func NewSyntaxErrorFromToken(msg string, line, linePos int, lexeme string, expected []string) *SyntaxError {
	return &SyntaxError{
		msg:      fmt.Sprintf("%s (line %d, col %d)", msg, line, linePos),
		Token:    lexeme,
		Line:     line,
		LinePos:  linePos,
		Expected: expected,
	}
}
