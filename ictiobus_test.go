package ictiobus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ictiobus/action"
	"github.com/dekarrin/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/parse"
)

func buildGenerateGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()

	g := grammar.New()
	_, err := g.AddRule("E", []string{"E", "+", "T"}, `["+", $1, $3]`, "")
	assert.NoError(t, err)
	_, err = g.AddRule("E", []string{"T"}, nil, "")
	assert.NoError(t, err)
	_, err = g.AddRule("T", []string{"id"}, nil, "")
	assert.NoError(t, err)
	assert.NoError(t, g.Augment())
	return g
}

func Test_Generate_populatesStats(t *testing.T) {
	assert := assert.New(t)

	g := buildGenerateGrammar(t)
	gen, err := Generate(g, action.Sexp)
	assert.NoError(err)

	assert.NotEmpty(gen.Stats.RunID)
	assert.Equal(len(g.Terminals()), gen.Stats.TerminalCount)
	assert.Equal(3, gen.Stats.RuleCount) // E->E+T, E->T, T->id (accept rule excluded)
	assert.Equal(0, gen.Stats.ConflictCount)
	assert.NotZero(gen.Stats.StateCount)
}

func Test_Generate_rejectsInvalidGrammar(t *testing.T) {
	assert := assert.New(t)

	g := grammar.New() // no rules, Validate fails before Augment is even relevant
	_, err := Generate(g, action.Sexp)
	assert.Error(err)
}

func Test_Generator_NewDriver_parsesSuccessfully(t *testing.T) {
	assert := assert.New(t)

	g := buildGenerateGrammar(t)
	gen, err := Generate(g, action.Sexp)
	assert.NoError(err)

	d := gen.NewDriver()
	lx := &stubLexer{toks: []string{"id", "+", "id"}}
	v, err := d.Parse(lx)
	assert.NoError(err)
	assert.Equal([]any{"+", "id", "id"}, v)
}

func Test_Stats_Report_includesRunID(t *testing.T) {
	assert := assert.New(t)

	s := Stats{RunID: "abc123", TerminalCount: 1, RuleCount: 1, StateCount: 1}
	assert.Contains(s.Report(), "abc123")
}

func Test_Stats_HTTPReport_convertsConflictDetails(t *testing.T) {
	assert := assert.New(t)

	g := grammar.New()
	_, err := g.AddRule("S", []string{"A"}, nil, "")
	assert.NoError(err)
	_, err = g.AddRule("S", []string{"B"}, nil, "")
	assert.NoError(err)
	_, err = g.AddRule("A", []string{"id"}, nil, "")
	assert.NoError(err)
	_, err = g.AddRule("B", []string{"id"}, nil, "")
	assert.NoError(err)
	assert.NoError(g.Augment())

	gen, err := Generate(g, action.Sexp)
	assert.NoError(err)
	assert.NotZero(gen.Stats.ConflictCount)

	report := gen.Stats.HTTPReport()
	assert.Equal(gen.Stats.ConflictCount, report.ConflictCount)
	assert.Len(report.Conflicts, len(gen.Stats.Conflicts))
}

// stubLexer is a minimal parse.Lexer feeding a fixed token sequence.
type stubLexer struct {
	toks []string
	pos  int
}

func (s *stubLexer) Lex() (string, error) {
	if s.pos >= len(s.toks) {
		return "$end", nil
	}
	tok := s.toks[s.pos]
	s.pos++
	return tok, nil
}

func (s *stubLexer) Text() string {
	if s.pos == 0 {
		return ""
	}
	return s.toks[s.pos-1]
}

func (s *stubLexer) Loc() parse.Location {
	return parse.Location{FirstLine: 1, LastLine: 1, FirstColumn: s.pos, LastColumn: s.pos}
}
