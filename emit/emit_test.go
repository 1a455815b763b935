package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ictiobus/action"
	"github.com/dekarrin/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/parse"
)

func buildEmittableGrammar(t *testing.T) (*grammar.Grammar, *parse.Table) {
	t.Helper()

	g := grammar.New()
	_, err := g.AddRule("E", []string{"E", "+", "T"}, `["+", $1, $3]`, "")
	assert.NoError(t, err)
	_, err = g.AddRule("E", []string{"T"}, nil, "")
	assert.NoError(t, err)
	_, err = g.AddRule("T", []string{"id"}, nil, "")
	assert.NoError(t, err)
	assert.NoError(t, g.Augment())

	action.CompileGrammar(g, action.Sexp)

	a := automaton.Build(g)
	table, err := parse.Build(a)
	assert.NoError(t, err)

	return g, table
}

func Test_Emit_producesGofmtValidSource(t *testing.T) {
	assert := assert.New(t)

	g, table := buildEmittableGrammar(t)

	out, err := Emit(g, table, "genparser")
	assert.NoError(err)
	assert.Contains(string(out), "package genparser")
	assert.Contains(string(out), "func Parse(")
}

func Test_Emit_embedsRuleAndActionTables(t *testing.T) {
	assert := assert.New(t)

	g, table := buildEmittableGrammar(t)

	out, err := Emit(g, table, "genparser")
	assert.NoError(err)

	src := string(out)
	assert.True(strings.Contains(src, "ruleEntry"))
	assert.True(strings.Contains(src, "actionKind") || strings.Contains(src, "actShift"))
}

func Test_ruleTableLiteral_coversAllRuleIDs(t *testing.T) {
	assert := assert.New(t)

	g, _ := buildEmittableGrammar(t)
	lit := ruleTableLiteral(g)

	// g.RuleCount() entries (including the synthesized accept rule).
	assert.Equal(g.RuleCount(), strings.Count(lit, "LHS:"))
}

func Test_actionKindName_mapsAllTypes(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("actShift", actionKindName(parse.ShiftAction))
	assert.Equal("actReduce", actionKindName(parse.ReduceAction))
	assert.Equal("actAccept", actionKindName(parse.AcceptAction))
	assert.Equal("actGoto", actionKindName(parse.GotoAction))
	assert.Equal("actNonAssoc", actionKindName(parse.NonAssocAction))
	assert.Equal("actError", actionKindName(parse.ErrorAction))
}
