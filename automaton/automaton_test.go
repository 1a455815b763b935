package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ictiobus/grammar"
)

// buildExprGrammar builds the classic
//
//	E -> E + T | T
//	T -> id
//
// grammar used throughout the purple-dragon-book SLR examples.
func buildExprGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()

	g := grammar.New()
	_, err := g.AddRule("E", []string{"E", "+", "T"}, nil, "")
	assert.NoError(t, err)
	_, err = g.AddRule("E", []string{"T"}, nil, "")
	assert.NoError(t, err)
	_, err = g.AddRule("T", []string{"id"}, nil, "")
	assert.NoError(t, err)
	assert.NoError(t, g.Augment())

	return g
}

func Test_Closure_predictsThroughNonterminals(t *testing.T) {
	assert := assert.New(t)
	g := buildExprGrammar(t)

	kernel := []grammar.Item{{RuleID: 0, Dot: 0}} // $accept -> . E $end
	closed := Closure(g, kernel)

	assert.True(closed.Has(grammar.Item{RuleID: 0, Dot: 0}))
	assert.True(closed.Has(grammar.Item{RuleID: 1, Dot: 0})) // E -> . E + T
	assert.True(closed.Has(grammar.Item{RuleID: 2, Dot: 0})) // E -> . T
	assert.True(closed.Has(grammar.Item{RuleID: 3, Dot: 0})) // T -> . id
}

func Test_Closure_doesNotPredictPastTerminal(t *testing.T) {
	assert := assert.New(t)
	g := buildExprGrammar(t)

	// T -> id . has the dot past a terminal, so closure adds nothing new.
	kernel := []grammar.Item{{RuleID: 3, Dot: 1}}
	closed := Closure(g, kernel)

	assert.Equal(1, len(closed))
}

func Test_Build_startStateIsClosureOfAcceptItem(t *testing.T) {
	assert := assert.New(t)
	g := buildExprGrammar(t)

	a := Build(g)
	start := a.States[a.Start]

	assert.True(start.Items.Has(grammar.Item{RuleID: 0, Dot: 0}))
	assert.True(start.HasShifts)
	assert.Empty(start.Reductions)
}

func Test_Build_dedupesStatesByKernelSignature(t *testing.T) {
	assert := assert.New(t)
	g := buildExprGrammar(t)

	a := Build(g)

	// Every state reached from the start state by shifting 'id' should be
	// the same state, regardless of the path taken to it, since id's
	// kernel (T -> id .) never varies across this grammar's states.
	seen := map[int]bool{}
	for _, s := range a.States {
		if target, ok := s.Transitions[idSymbol(g)]; ok {
			seen[target] = true
		}
	}
	assert.LessOrEqual(len(seen), 1)
}

func Test_Build_reductionsMarkedAtDotEnd(t *testing.T) {
	assert := assert.New(t)
	g := buildExprGrammar(t)

	a := Build(g)

	var foundReduceState bool
	for _, s := range a.States {
		for _, it := range s.Reductions {
			assert.True(it.AtEnd(g))
			foundReduceState = true
		}
	}
	assert.True(foundReduceState)
}

func Test_Build_stateIDsAreDenseAndStable(t *testing.T) {
	assert := assert.New(t)
	g := buildExprGrammar(t)

	a := Build(g)
	for i, s := range a.States {
		assert.Equal(i, s.ID)
	}
}

func idSymbol(g *grammar.Grammar) int {
	id, _ := g.Symbols.Lookup("id")
	return id
}
