package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		setup     func(g *Grammar)
		expectErr bool
	}{
		{
			name:      "empty grammar",
			setup:     func(g *Grammar) {},
			expectErr: true,
		},
		{
			name: "no start symbol resolvable",
			setup: func(g *Grammar) {
				g.Symbols.Intern("NUMBER")
			},
			expectErr: true,
		},
		{
			name: "single rule grammar",
			setup: func(g *Grammar) {
				g.AddRule("S", []string{"NUMBER"}, nil, "")
			},
			expectErr: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := New()
			tc.setup(g)

			actual := g.Validate()
			if tc.expectErr {
				assert.Error(actual)
			} else {
				assert.NoError(actual)
			}
		})
	}
}

func Test_Grammar_AddRule_assignsDenseIDs(t *testing.T) {
	assert := assert.New(t)

	g := New()
	id1, err := g.AddRule("S", []string{"A"}, nil, "")
	assert.NoError(err)
	id2, err := g.AddRule("A", []string{"NUMBER"}, nil, "")
	assert.NoError(err)

	assert.Equal(1, id1)
	assert.Equal(2, id2)
	assert.Equal(3, g.RuleCount()) // ids 1, 2, plus the reserved (not-yet-synthesized) accept slot
}

func Test_Grammar_AddRule_stripsAliases(t *testing.T) {
	assert := assert.New(t)

	g := New()
	id, err := g.AddRule("Expr", []string{"Expr[left]", "+", "Expr[right]"}, nil, "")
	assert.NoError(err)

	r := g.Rule(id)
	assert.Equal([]string{"left", "", "right"}, r.Aliases)
}

func Test_Grammar_Augment(t *testing.T) {
	assert := assert.New(t)

	g := New()
	_, err := g.AddRule("S", []string{"NUMBER"}, nil, "")
	assert.NoError(err)

	assert.NoError(g.Augment())

	accept := g.Rule(0)
	assert.Equal(SymAccept, accept.LHS)
	assert.Equal(Production{g.StartSymbol(), SymEnd}, accept.Symbols)

	// idempotent
	assert.NoError(g.Augment())
	assert.Equal(1, len(g.rules)-1) // still exactly one user rule beyond accept
}

func Test_Grammar_computeNullableFirstFollow(t *testing.T) {
	assert := assert.New(t)

	// S -> A B
	// A -> 'a' | ε
	// B -> 'b'
	g := New()
	_, err := g.AddRule("S", []string{"A", "B"}, nil, "")
	assert.NoError(err)
	_, err = g.AddRule("A", []string{"a"}, nil, "")
	assert.NoError(err)
	_, err = g.AddRule("A", []string{}, nil, "")
	assert.NoError(err)
	_, err = g.AddRule("B", []string{"b"}, nil, "")
	assert.NoError(err)

	assert.NoError(g.Augment())

	aID, _ := g.Symbols.Lookup("A")
	bID, _ := g.Symbols.Lookup("B")
	aTermID, _ := g.Symbols.Lookup("a")
	bTermID, _ := g.Symbols.Lookup("b")

	assert.True(g.NonTerminal(aID).Nullable)
	assert.False(g.NonTerminal(bID).Nullable)

	assert.True(g.NonTerminal(aID).First.Has(aTermID))
	assert.True(g.NonTerminal(bID).First.Has(bTermID))

	// FOLLOW(A) should include FIRST(B) = {b}, since A can be nullable
	// and B follows it directly.
	assert.True(g.NonTerminal(aID).Follow.Has(bTermID))
}

func Test_Grammar_SetOperator_conflictingEntry(t *testing.T) {
	assert := assert.New(t)

	g := New()
	assert.NoError(g.SetOperator(Left, 1, "+"))
	assert.Error(g.SetOperator(Right, 2, "+"))
}
