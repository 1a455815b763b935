package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/parse"
)

func buildCacheableGrammar(t *testing.T, plus string) *grammar.Grammar {
	t.Helper()

	g := grammar.New()
	_, err := g.AddRule("E", []string{"E", plus, "T"}, nil, "")
	assert.NoError(t, err)
	_, err = g.AddRule("E", []string{"T"}, nil, "")
	assert.NoError(t, err)
	_, err = g.AddRule("T", []string{"id"}, nil, "")
	assert.NoError(t, err)
	assert.NoError(t, g.Augment())
	return g
}

func Test_GrammarHash_isStableAcrossRebuilds(t *testing.T) {
	assert := assert.New(t)

	g1 := buildCacheableGrammar(t, "+")
	g2 := buildCacheableGrammar(t, "+")

	assert.Equal(GrammarHash(g1), GrammarHash(g2))
}

func Test_GrammarHash_differsWhenGrammarDiffers(t *testing.T) {
	assert := assert.New(t)

	g1 := buildCacheableGrammar(t, "+")
	g2 := buildCacheableGrammar(t, "-")

	assert.NotEqual(GrammarHash(g1), GrammarHash(g2))
}

func Test_Store_PutGet_roundTrips(t *testing.T) {
	assert := assert.New(t)

	g := buildCacheableGrammar(t, "+")
	a := automaton.Build(g)
	table, err := parse.Build(a)
	assert.NoError(err)

	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := Open(dbPath)
	assert.NoError(err)
	defer store.Close()

	hash := GrammarHash(g)
	assert.NoError(store.Put(hash, table))

	cached, ok, err := store.Get(hash)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(table.Defaults, cached.Defaults)

	for sym := 0; sym < 10; sym++ {
		want := table.Action(a.Start, sym)
		if want.Type == parse.ErrorAction {
			continue
		}
		got := cached.Actions[[2]int{a.Start, sym}]
		assert.Equal(want.Type, got.Type)
		assert.Equal(want.State, got.State)
		assert.Equal(want.RuleID, got.RuleID)
	}
}

func Test_Store_Get_missReturnsNotOK(t *testing.T) {
	assert := assert.New(t)

	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := Open(dbPath)
	assert.NoError(err)
	defer store.Close()

	_, ok, err := store.Get("does-not-exist")
	assert.NoError(err)
	assert.False(ok)
}
