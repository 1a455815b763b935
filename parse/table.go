package parse

import (
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/icterrors"
)

// nameCollator orders terminal names the way a human reading a syntax
// error would expect, rather than by raw byte value or table id.
var nameCollator = collate.New(language.English)

// Table is the built SLR(1) parse table: per-state action and goto
// entries, plus per-state default reductions and the conflict diagnostics
// produced while resolving them (spec.md §3 "Parse Table", §4.6).
type Table struct {
	Grammar   *grammar.Grammar
	Automaton *automaton.Automaton

	cells     map[cellKey]Action
	Defaults  map[int]int // state id -> default reduce rule id
	Conflicts []ConflictRecord
}

type cellKey struct {
	state int
	sym   int
}

// Action returns the table entry for (state, symbol), or the zero-value
// ErrorAction if none is defined.
func (t *Table) Action(state, sym int) Action {
	return t.cells[cellKey{state, sym}]
}

func (t *Table) setAction(state, sym int, a Action) {
	t.cells[cellKey{state, sym}] = a
}

// Build constructs the SLR(1) parse table for a's grammar (spec.md §4.6):
// shift/goto from the automaton's transitions, reduce/accept from
// reduction items, conflicts resolved per §4.6.1/§4.6.2.
func Build(a *automaton.Automaton) (*Table, error) {
	g := a.Grammar
	t := &Table{
		Grammar:   g,
		Automaton: a,
		cells:     map[cellKey]Action{},
		Defaults:  map[int]int{},
	}

	for _, s := range a.States {
		// 1. Transitions: shift for terminals, goto for nonterminals.
		for sym, target := range s.Transitions {
			if g.IsNonTerminal(sym) {
				t.setAction(s.ID, sym, Action{Type: GotoAction, State: target})
			} else {
				t.setAction(s.ID, sym, Action{Type: ShiftAction, State: target})
			}
		}

		// 2. Accept: any item with nextSymbol = $end means this state
		// accepts on $end (only true in the state reached after shifting
		// the start symbol from state 0, but the check is driven purely by
		// item shape per spec.md §4.6 step 2).
		for it := range s.Items {
			sym, ok := it.NextSymbol(g)
			if ok && sym == grammar.SymEnd {
				t.setAction(s.ID, grammar.SymEnd, Action{Type: AcceptAction})
			}
		}

		// 3. Reductions: for each reduction item, for each terminal in its
		// lookahead set (FOLLOW(LHS), the SLR(1) discipline), resolve
		// against whatever is already there.
		for _, item := range s.Reductions {
			rule := g.Rule(item.RuleID)
			if rule.ID == 0 {
				continue // the accept item is handled above, not as a reduce
			}
			lookaheads := g.NonTerminal(rule.LHS).Follow
			for _, term := range lookaheads.Elements() {
				if err := t.resolveReduce(s.ID, term, rule); err != nil {
					return nil, err
				}
			}
		}
	}

	t.computeDefaults()
	return t, nil
}

// resolveReduce applies §4.6.1's conflict-resolution rules for placing a
// reduce of rule at (state, term), given whatever action is already there.
func (t *Table) resolveReduce(state, term int, rule *grammar.Rule) error {
	existing := t.Action(state, term)
	candidate := Action{Type: ReduceAction, RuleID: rule.ID}

	if existing.Type == ErrorAction {
		t.setAction(state, term, candidate)
		return nil
	}

	op, hasOp := t.Grammar.Operator(term)

	switch existing.Type {
	case ReduceAction:
		// Reduce/reduce: lower rule id wins (spec.md §4.6.1, §9 — textual
		// order preserved deliberately).
		winner := candidate
		byDefault := existing.RuleID != rule.ID
		if existing.RuleID < rule.ID {
			winner = existing
		}
		if byDefault {
			t.recordConflict(state, term, rule.ID, -1, winner, categorize(t.Grammar, rule, false))
		}
		t.setAction(state, term, winner)
		return nil

	case ShiftAction:
		cat := categorize(t.Grammar, rule, true)

		if rule.Precedence == 0 || !hasOp {
			// no precedence info available: prefer shift, by default
			t.recordConflict(state, term, rule.ID, existing.State, existing, cat)
			return nil
		}
		if rule.Precedence < op.Precedence {
			// shift wins, cleanly, but it's still worth recording how
			t.recordConflict(state, term, rule.ID, existing.State, existing, cat)
			return nil
		}
		if rule.Precedence > op.Precedence {
			t.recordConflict(state, term, rule.ID, existing.State, candidate, cat)
			t.setAction(state, term, candidate)
			return nil
		}
		// equal precedence: associativity decides
		switch op.Assoc {
		case grammar.Right:
			t.recordConflict(state, term, rule.ID, existing.State, existing, cat)
			return nil // shift wins
		case grammar.Left:
			t.recordConflict(state, term, rule.ID, existing.State, candidate, cat)
			t.setAction(state, term, candidate)
			return nil
		case grammar.NonAssoc:
			nonAssoc := Action{Type: NonAssocAction}
			t.recordConflict(state, term, rule.ID, existing.State, nonAssoc, cat)
			t.setAction(state, term, nonAssoc)
			return nil
		default:
			t.recordConflict(state, term, rule.ID, existing.State, existing, cat)
			return nil // shift wins
		}

	case AcceptAction:
		return icterrors.Grammar("state %d: accept/reduce conflict on %q (rule %d)", state, t.Grammar.Symbols.Get(term).Name, rule.ID)

	default:
		return nil
	}
}

// categorize implements spec.md §4.6.2's deterministic classification of a
// by-default resolution.
func categorize(g *grammar.Grammar, rule *grammar.Rule, isShiftReduce bool) ConflictCategory {
	if rule.IsEpsilon() {
		return EmptyOptional
	}
	if len(rule.Symbols) == 1 && g.IsNonTerminal(rule.Symbols[0]) {
		return Passthrough
	}
	if rule.Precedence != 0 {
		return PrecedenceResolved
	}
	if !isShiftReduce {
		return ReduceReduce
	}
	return Ambiguous
}

// recordConflict appends a diagnostic; only ReduceReduce and Ambiguous
// categories increment the conflict counter (spec.md §4.6.2) — callers
// reading Table.Conflicts can filter on Category themselves, or use
// Table.ConflictCount.
func (t *Table) recordConflict(state, term, ruleID, shiftState int, chosen Action, cat ConflictCategory) {
	t.Conflicts = append(t.Conflicts, ConflictRecord{
		State:      state,
		Terminal:   term,
		RuleID:     ruleID,
		ShiftState: shiftState,
		Chosen:     chosen,
		Category:   cat,
	})
}

// ConflictCount returns the number of diagnostics that count as real
// conflicts (reduce-reduce and ambiguous only, per spec.md §4.6.2).
func (t *Table) ConflictCount() int {
	n := 0
	for _, c := range t.Conflicts {
		if c.Category == ReduceReduce || c.Category == Ambiguous {
			n++
		}
	}
	return n
}

// computeDefaults records, for each state whose action entries are all
// reduces of the same rule, that reduction as the state's default so the
// runtime can skip a token lookup (spec.md §4.6 "Finally, compute default
// actions").
func (t *Table) computeDefaults() {
	byState := map[int][]Action{}
	for key, a := range t.cells {
		if !t.Grammar.IsTerminal(key.sym) {
			continue
		}
		byState[key.state] = append(byState[key.state], a)
	}

	for state, actions := range byState {
		if len(actions) == 0 {
			continue
		}
		first := actions[0]
		if first.Type != ReduceAction {
			continue
		}
		allSame := true
		for _, a := range actions[1:] {
			if a.Type != ReduceAction || a.RuleID != first.RuleID {
				allSame = false
				break
			}
		}
		if allSame {
			t.Defaults[state] = first.RuleID
		}
	}
}

// ExpectedTerminals returns the human names of every terminal with a
// non-error action in state, used to build the "expected" diagnostic
// (spec.md §4.7 step 2, §7).
func (t *Table) ExpectedTerminals(state int) []string {
	var names []string
	for _, term := range t.Grammar.Terminals() {
		a := t.Action(state, term)
		if a.Type != ErrorAction {
			names = append(names, t.Grammar.Symbols.Get(term).Name)
		}
	}
	nameCollator.SortStrings(names)
	return names
}

// String renders the action/goto table as a fixed-width grid, one row per
// state and one column per terminal (action) and nonterminal (goto),
// grounded on the teacher's slrTable.String() (same header layout: state
// id, "|", one A: column per terminal, "|", one G: column per
// nonterminal), rendered through the same rosed table helper rather than
// hand-padded strings.
func (t *Table) String() string {
	g := t.Grammar

	terms := g.Terminals()
	nonterms := g.NonTerminals()

	headers := []string{"S", "|"}
	for _, term := range terms {
		headers = append(headers, "A:"+g.Symbols.Get(term).Name)
	}
	headers = append(headers, "|")
	for _, nt := range nonterms {
		headers = append(headers, "G:"+g.Symbols.Get(nt).Name)
	}

	data := [][]string{headers}
	for _, s := range t.Automaton.States {
		row := []string{strconv.Itoa(s.ID), "|"}
		for _, term := range terms {
			cell := ""
			if a := t.Action(s.ID, term); a.Type != ErrorAction {
				cell = a.String()
			}
			row = append(row, cell)
		}
		row = append(row, "|")
		for _, nt := range nonterms {
			cell := ""
			if a := t.Action(s.ID, nt); a.Type == GotoAction {
				cell = strconv.Itoa(a.State)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
