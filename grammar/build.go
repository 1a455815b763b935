package grammar

import (
	"strings"

	"github.com/dekarrin/ictiobus/icterrors"
)

// Alternative is one production alternative for a nonterminal: a pattern
// (either a pre-split symbol sequence or a space-separated string), an
// optional action template (nil, an int, or a string — spec §4.2), and an
// optional named-operator precedence override.
type Alternative struct {
	Pattern []string
	Action  any
	Prec    string
}

// ParsePattern splits a space-separated pattern string into tokens,
// collapsing repeated whitespace. Grammar authors may also build
// Alternative.Pattern directly as a pre-split slice (spec §4.2: "pattern may
// also be a pre-split sequence").
func ParsePattern(pattern string) []string {
	return strings.Fields(pattern)
}

// Definition is the declarative input to the rule builder: a mapping from
// nonterminal name to its ordered list of alternatives (spec §6 "grammar" or
// "bnf" map).
type Definition map[string][]Alternative

// OperatorRow is one row of the precedence table: an associativity and the
// terminals sharing that level. Rows are given lowest-to-highest; Build
// assigns levels 1..len(rows) in that order (spec §3 "Operator", §6).
type OperatorRow struct {
	Assoc  Assoc
	Tokens []string
}

// Build runs the full symbol-resolution + rule-building + augmentation
// pipeline (spec §4.1, §4.2) over a declarative Definition and returns a
// ready-to-use Grammar, or a grammar-structural error (spec §7).
//
// Nonterminals are declared by their presence as a Definition key;
// everything else referenced from a pattern is a terminal unless it also
// turns out to be a key. Definition order determines rule declaration
// order, which in turn determines rule ids — callers that need
// deterministic ids across runs should use an ordered construction path
// (e.g. a slice of (name, alternatives) pairs) rather than ranging a Go map
// directly, since map iteration order is not stable.
func Build(order []string, def Definition, start string, operators []OperatorRow) (*Grammar, error) {
	if len(def) == 0 {
		return nil, icterrors.Grammar("no rules defined in grammar")
	}

	g := New()

	for level, row := range operators {
		if err := g.SetOperator(row.Assoc, uint(level+1), row.Tokens...); err != nil {
			return nil, err
		}
	}

	names := order
	if len(names) == 0 {
		for name := range def {
			names = append(names, name)
		}
	}

	for _, name := range names {
		alts, ok := def[name]
		if !ok {
			continue
		}
		for _, alt := range alts {
			if _, err := g.AddRule(name, alt.Pattern, alt.Action, alt.Prec); err != nil {
				return nil, err
			}
		}
	}

	if start != "" {
		g.SetStart(start)
	}

	if err := g.Augment(); err != nil {
		return nil, err
	}
	return g, nil
}
