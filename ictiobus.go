// Package ictiobus is a standalone SLR(1) parser generator. Given a
// declarative grammar (named nonterminals, each with one or more production
// alternatives; terminal tokens named by bare strings; an operator
// precedence/associativity table; and per-production semantic actions), it
// produces a compact parse-table-driven LR automaton and can emit a
// self-contained parser program that, paired with a caller-supplied lexer,
// parses input and returns the value produced by reducing the start symbol.
//
// It's based off of the name for the ictiobus fish, commonly known as the
// buffalofish, due to the project's origins as the buffalo/bison-style
// parser tooling vendored inside a larger game engine before being pulled
// out into its own module.
package ictiobus

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dekarrin/ictiobus/action"
	"github.com/dekarrin/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/httpstats"
	"github.com/dekarrin/ictiobus/icterrors"
	"github.com/dekarrin/ictiobus/parse"
)

// Stats reports size and health metrics for one generation run
// (SPEC_FULL.md §5, collecting the counts spec.md §6's CLI surface calls
// for but does not itemize).
type Stats struct {
	RunID            string
	TerminalCount    int
	NonTerminalCount int
	RuleCount        int
	StateCount       int
	ConflictCount    int
	Conflicts        []parse.ConflictRecord
}

// Generator runs a grammar through the full compilation pipeline: symbol
// resolution and augmentation, LR(0) automaton construction, action
// compilation, and SLR(1) table construction (spec.md §2 "Pipeline").
type Generator struct {
	Grammar   *grammar.Grammar
	Automaton *automaton.Automaton
	Table     *parse.Table
	Stats     Stats
}

// Generate runs g (built via grammar.Build, or hand-assembled) through
// validation, augmentation (a no-op if g is already augmented), automaton
// construction, action compilation in the given mode, and SLR(1) table
// construction, returning a ready Generator.
func Generate(g *grammar.Grammar, mode action.Mode) (*Generator, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := g.Augment(); err != nil {
		return nil, err
	}

	a := automaton.Build(g)
	action.CompileGrammar(g, mode)

	t, err := parse.Build(a)
	if err != nil {
		return nil, icterrors.WrapGrammar(err, "build parse table")
	}

	stats := Stats{
		RunID:            uuid.NewString(),
		TerminalCount:    len(g.Terminals()),
		NonTerminalCount: len(g.NonTerminals()),
		RuleCount:        g.RuleCount() - 1, // exclude the synthesized accept rule
		StateCount:       len(a.States),
		ConflictCount:    t.ConflictCount(),
		Conflicts:        t.Conflicts,
	}

	return &Generator{Grammar: g, Automaton: a, Table: t, Stats: stats}, nil
}

// NewDriver returns a runtime Driver bound to the generator's parse table,
// ready to Parse against a caller-supplied Lexer (spec.md §4.7, §6).
func (gen *Generator) NewDriver() *parse.Driver {
	return parse.NewDriver(gen.Table)
}

// Report renders a short human-readable summary of Stats, the "statistics
// display" spec.md §6 names as a CLI collaborator concern.
func (s Stats) Report() string {
	return fmt.Sprintf(
		"run %s: %d terminals, %d nonterminals, %d rules, %d states, %d conflicts",
		s.RunID, s.TerminalCount, s.NonTerminalCount, s.RuleCount, s.StateCount, s.ConflictCount,
	)
}

// HTTPReport converts Stats to the JSON shape httpstats.Handler serves, for
// slrgen's optional `--stats --serve ADDR` flags.
func (s Stats) HTTPReport() httpstats.Report {
	details := make([]httpstats.ConflictDetail, len(s.Conflicts))
	for i, c := range s.Conflicts {
		details[i] = httpstats.ConflictDetail{
			State:      c.State,
			Terminal:   c.Terminal,
			RuleID:     c.RuleID,
			ShiftState: c.ShiftState,
			Category:   c.Category.String(),
		}
	}
	return httpstats.Report{
		RunID:            s.RunID,
		TerminalCount:    s.TerminalCount,
		NonTerminalCount: s.NonTerminalCount,
		RuleCount:        s.RuleCount,
		StateCount:       s.StateCount,
		ConflictCount:    s.ConflictCount,
		Conflicts:        details,
	}
}
