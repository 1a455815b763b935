// Package automaton builds the canonical LR(0) collection of item sets with
// kernel-signature state deduplication (spec.md §4.4). It is a reduction of
// the teacher's generic NFA->DFA subset-construction machinery
// (internal/ictiobus/automaton/{automaton.go,nfa.go,dfa.go}, which targets a
// lexer's character DFA) down to item-set closure/goto over a grammar.
package automaton

import (
	"sort"

	"github.com/dekarrin/ictiobus/grammar"
)

// State is one LR(0) automaton state: its full (closed) item set, the
// transition function out of it, and the subset of items that are
// reductions (spec.md §3 "State").
type State struct {
	ID          int
	Kernel      []grammar.Item
	Items       grammar.ItemSet
	Transitions map[int]int // symbol id -> target state id
	Reductions  []grammar.Item
	HasShifts   bool
	HasConflicts bool
}

// Automaton is the full canonical LR(0) collection for a grammar.
type Automaton struct {
	Grammar *grammar.Grammar
	States  []*State
	Start   int

	sigCache map[string]int
}

// Closure extends kernel with every item obtainable by predicting through
// nonterminals at the dot (spec.md §4.4 "Closure(S)").
func Closure(g *grammar.Grammar, kernel []grammar.Item) grammar.ItemSet {
	set := grammar.NewItemSet(kernel...)
	worklist := append([]grammar.Item{}, kernel...)

	for len(worklist) > 0 {
		it := worklist[0]
		worklist = worklist[1:]

		sym, ok := it.NextSymbol(g)
		if !ok || !g.IsNonTerminal(sym) {
			continue
		}
		nt := g.NonTerminal(sym)
		for _, ruleID := range nt.Rules {
			cand := grammar.Item{RuleID: ruleID, Dot: 0}
			if !set.Has(cand) {
				set.Add(cand)
				worklist = append(worklist, cand)
			}
		}
	}

	return set
}

// Build constructs the full canonical LR(0) collection for g, starting from
// the closure of {[$accept -> • start $end]} and discovering further states
// lazily on first-seen kernel signature (spec.md §4.4 "State discovery").
func Build(g *grammar.Grammar) *Automaton {
	a := &Automaton{Grammar: g}

	startKernel := []grammar.Item{{RuleID: 0, Dot: 0}}
	start := a.newState(startKernel)
	a.Start = start.ID

	queue := []int{start.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		s := a.States[id]

		bySymbol := groupBySymbol(g, s.Items)

		// iterate symbols in deterministic (id-ascending) order so state
		// discovery order, and therefore dense state ids, are reproducible
		// across runs (spec.md §8 property 4/6).
		symIDs := make([]int, 0, len(bySymbol))
		for sym := range bySymbol {
			symIDs = append(symIDs, sym)
		}
		sort.Ints(symIDs)

		for _, sym := range symIDs {
			items := bySymbol[sym]
			kernel := make([]grammar.Item, len(items))
			for i, it := range items {
				kernel[i] = it.Advance()
			}
			sig := grammar.KernelSignature(append([]grammar.Item{}, kernel...))

			if existingID, ok := a.signatureOf(sig); ok {
				s.Transitions[sym] = existingID
				continue
			}

			ns := a.newState(kernel)
			s.Transitions[sym] = ns.ID
			queue = append(queue, ns.ID)
		}
	}

	return a
}

// groupBySymbol buckets items by the symbol after their dot, skipping items
// at end-of-production (⊥) and items whose next symbol is the reserved
// end-of-input marker: $end is only ever consulted via the driver's
// explicit Accept check, never shifted, so a state must not get a goto/
// transition entry for it (spec.md §4.4 "State discovery", §8 "$end ...
// is never shifted").
func groupBySymbol(g *grammar.Grammar, items grammar.ItemSet) map[int][]grammar.Item {
	out := map[int][]grammar.Item{}
	for it := range items {
		sym, ok := it.NextSymbol(g)
		if !ok || sym == grammar.SymEnd {
			continue
		}
		out[sym] = append(out[sym], it)
	}
	return out
}

func (a *Automaton) newState(kernel []grammar.Item) *State {
	closed := Closure(a.Grammar, kernel)
	s := &State{
		ID:          len(a.States),
		Kernel:      kernel,
		Items:       closed,
		Transitions: map[int]int{},
	}
	for _, it := range closed.Items() {
		if it.AtEnd(a.Grammar) {
			s.Reductions = append(s.Reductions, it)
		} else if sym, _ := it.NextSymbol(a.Grammar); a.Grammar.IsTerminal(sym) {
			s.HasShifts = true
		}
	}
	s.HasConflicts = len(s.Reductions) > 1 || (len(s.Reductions) > 0 && s.HasShifts)

	sig := grammar.KernelSignature(append([]grammar.Item{}, kernel...))
	a.sigIndex()[sig] = s.ID
	a.States = append(a.States, s)
	return s
}

// signatureOf and sigIndex implement the kernel-hash dedup table described
// in spec.md §4.4: the central performance optimization ensuring each
// canonical LR(0) state is created at most once.
func (a *Automaton) signatureOf(sig string) (int, bool) {
	id, ok := a.sigIndex()[sig]
	return id, ok
}

func (a *Automaton) sigIndex() map[string]int {
	if a.sigCache == nil {
		a.sigCache = map[string]int{}
	}
	return a.sigCache
}
