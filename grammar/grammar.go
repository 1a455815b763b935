// Package grammar implements the symbol resolver, rule builder, and
// NULLABLE/FIRST/FOLLOW fixed-point computation described in spec.md §4.1,
// §4.2, and §4.5. It is grounded on the API surface exercised by
// internal/ictiobus/grammar/grammar_test.go in the teacher repo (AddRule,
// AddTerm/Validate-shaped construction) but stores symbols, rules, and sets
// by dense integer id rather than by string, per spec.md §3/§9.
package grammar

import (
	"sort"

	"github.com/dekarrin/ictiobus/icterrors"
	"github.com/dekarrin/ictiobus/internal/util"
)

// NonTerminalInfo holds the rule list and computed sets for one nonterminal
// (spec §3 "Nonterminal (type)").
type NonTerminalInfo struct {
	SymbolID int
	Rules    []int // rule ids, in declaration order
	Nullable bool
	First    util.IDSet
	Follow   util.IDSet
}

// Grammar owns the symbol table, the rule list, and per-nonterminal derived
// sets. Phases after construction (automaton, lookahead, parse table) only
// read it.
type Grammar struct {
	Symbols *SymbolTable

	rules     []*Rule // rules[0] is the synthesized accept rule, after Augment
	nonterms  map[int]*NonTerminalInfo
	operators map[int]Operator
	start     int
	augmented bool
}

// New returns an empty Grammar with the reserved symbols pre-seeded.
func New() *Grammar {
	return &Grammar{
		Symbols:   NewSymbolTable(),
		rules:     make([]*Rule, 1), // index 0 reserved for $accept, filled by Augment
		nonterms:  map[int]*NonTerminalInfo{},
		operators: map[int]Operator{},
	}
}

// AddRule interns lhsName and every name in rhs, strips any trailing
// [alias] suffix from each RHS token (spec §4.2 step 1) recording the
// aliases for later jison-mode rewriting, assigns the rule a fresh 1-based
// id, and appends it to both the global rule list and lhsName's rule list.
//
// prec, if non-empty, names an operator row this rule's precedence is drawn
// from explicitly (options.prec in spec §4.2); pass "" to fall back to the
// right-to-left RHS scan performed in Augment.
func (g *Grammar) AddRule(lhsName string, rhs []string, action any, prec string) (int, error) {
	if lhsName == "" {
		return 0, icterrors.Grammar("rule has no left-hand side")
	}

	lhsID := g.Symbols.Intern(lhsName)
	g.Symbols.Promote(lhsID)

	syms := make(Production, 0, len(rhs))
	aliases := make([]string, 0, len(rhs))
	for _, tok := range rhs {
		name, alias := splitAlias(tok)
		if name == "" {
			continue // canonical epsilon: no symbols recorded
		}
		syms = append(syms, g.Symbols.Intern(name))
		aliases = append(aliases, alias)
	}

	id := len(g.rules) // index 0 is reserved for the accept rule, so this is already 1-based
	r := &Rule{
		ID:      id,
		LHS:     lhsID,
		Symbols: syms,
		Aliases: aliases,
		Action:  action,
	}
	if prec != "" {
		if op, ok := g.operators[g.Symbols.Intern(prec)]; ok {
			r.Precedence = op.Precedence
		}
	}
	g.rules = append(g.rules, r)

	nt := g.nontermInfo(lhsID)
	nt.Rules = append(nt.Rules, id)

	return id, nil
}

// splitAlias strips a trailing "[alias]" suffix from a pattern token, as in
// "Expr[value]" (spec §4.2 step 1).
func splitAlias(tok string) (name, alias string) {
	open := -1
	if len(tok) > 0 && tok[len(tok)-1] == ']' {
		for i := len(tok) - 2; i >= 0; i-- {
			if tok[i] == '[' {
				open = i
				break
			}
		}
	}
	if open < 0 {
		return tok, ""
	}
	return tok[:open], tok[open+1 : len(tok)-1]
}

func (g *Grammar) nontermInfo(id int) *NonTerminalInfo {
	nt, ok := g.nonterms[id]
	if !ok {
		nt = &NonTerminalInfo{SymbolID: id, First: util.NewIDSet(), Follow: util.NewIDSet()}
		g.nonterms[id] = nt
	}
	return nt
}

// SetStart records the start symbol explicitly (spec §4.2's grammar.start).
func (g *Grammar) SetStart(name string) {
	g.start = g.Symbols.Intern(name)
}

// SetOperator records a precedence/associativity row. level is 1-based,
// ascending from lowest to highest (spec §3 "Operator").
func (g *Grammar) SetOperator(assoc Assoc, level uint, names ...string) error {
	for _, name := range names {
		id := g.Symbols.Intern(name)
		if _, exists := g.operators[id]; exists {
			return icterrors.Grammar("terminal %q already has an operator entry", name)
		}
		g.operators[id] = Operator{Assoc: assoc, Precedence: level}
	}
	return nil
}

// Operator returns the operator info for a terminal symbol id, if any.
func (g *Grammar) Operator(symID int) (Operator, bool) {
	op, ok := g.operators[symID]
	return op, ok
}

// StartSymbol returns the interned id of the start symbol, defaulting to the
// LHS of the first rule added if SetStart was never called (spec §4.2).
func (g *Grammar) StartSymbol() int {
	if g.start == 0 && len(g.rules) > 1 {
		return g.rules[1].LHS
	}
	return g.start
}

// Rule returns the rule with the given id (0 is the synthesized accept rule
// after Augment). Rule ids are dense and equal to their index into the
// internal rule list (spec §8 property 6).
func (g *Grammar) Rule(id int) *Rule {
	return g.rules[id]
}

// RuleCount returns the number of rules including the synthesized accept
// rule (spec §8 property 6: rule ids are dense 1..N plus 0).
func (g *Grammar) RuleCount() int {
	return len(g.rules)
}

// NonTerminal returns the derived info for a nonterminal symbol id.
func (g *Grammar) NonTerminal(id int) *NonTerminalInfo {
	return g.nonterms[id]
}

// IsTerminal / IsNonTerminal classify a symbol id.
func (g *Grammar) IsTerminal(id int) bool {
	return g.Symbols.Get(id).Class == Terminal
}

func (g *Grammar) IsNonTerminal(id int) bool {
	return g.Symbols.Get(id).Class == NonTerminal
}

// Terminals returns all terminal symbol ids in id order, excluding
// $end/error only if the caller wants them; here all terminals including
// the two reserved ones are returned, as callers (parse table, stats) need
// to account for $end specially but error only when the grammar uses it.
func (g *Grammar) Terminals() []int {
	var out []int
	for _, s := range g.Symbols.All() {
		if s.Class == Terminal {
			out = append(out, s.ID)
		}
	}
	sort.Ints(out)
	return out
}

// NonTerminals returns all nonterminal symbol ids in id order, including
// $accept once Augment has run.
func (g *Grammar) NonTerminals() []int {
	var out []int
	for _, s := range g.Symbols.All() {
		if s.Class == NonTerminal {
			out = append(out, s.ID)
		}
	}
	sort.Ints(out)
	return out
}

// Validate checks the grammar-structural invariants spec §7 requires before
// generation can proceed: at least one rule, and a resolvable start symbol.
func (g *Grammar) Validate() error {
	if len(g.rules) <= 1 { // index 0 is the reserved accept slot, not a user rule
		return icterrors.Grammar("no rules defined in grammar")
	}
	start := g.StartSymbol()
	if _, ok := g.nonterms[start]; !ok {
		return icterrors.Grammar("start symbol %q is not defined by any rule", g.Symbols.Get(start).Name)
	}
	return nil
}

// Augment synthesizes the $accept -> start $end rule (id 0), defaulting the
// start symbol to the first rule's LHS if SetStart was never called,
// computes each rule's precedence (explicit prec already applied in
// AddRule; here the right-to-left RHS scan fallback runs), and computes the
// NULLABLE/FIRST/FOLLOW fixed point. Must be called exactly once, after all
// AddRule/SetOperator calls and before Validate's start-symbol check can be
// fully trusted.
func (g *Grammar) Augment() error {
	if g.augmented {
		return nil
	}
	if len(g.rules) <= 1 { // index 0 is the reserved accept slot, not a user rule
		return icterrors.Grammar("no rules defined in grammar")
	}
	if g.start == 0 {
		g.start = g.rules[1].LHS
	}
	if _, ok := g.nonterms[g.start]; !ok {
		return icterrors.Grammar("start symbol %q is not defined by any rule", g.Symbols.Get(g.start).Name)
	}

	// AddRule already leaves index 0 empty for this (id := len(g.rules)
	// starting from a list pre-seeded with one nil slot), so filling it in
	// here does not require renumbering anything.
	g.rules[0] = &Rule{ID: 0, LHS: SymAccept, Symbols: Production{g.start, SymEnd}}

	acceptInfo := g.nontermInfo(SymAccept)
	acceptInfo.Rules = []int{0}
	acceptInfo.Follow.Add(SymEnd) // seed FOLLOW($accept), never actually read

	g.assignPrecedence()
	g.computeNullableFirstFollow()

	g.augmented = true
	return nil
}

// assignPrecedence fills in rule.Precedence for rules that did not already
// get one from an explicit prec option: scan the RHS right-to-left for the
// first terminal with an operator entry (spec §4.2 step 4).
func (g *Grammar) assignPrecedence() {
	for _, r := range g.rules {
		if r.ID == 0 || r.Precedence != 0 {
			continue
		}
		for i := len(r.Symbols) - 1; i >= 0; i-- {
			sym := r.Symbols[i]
			if !g.IsTerminal(sym) {
				continue
			}
			if op, ok := g.operators[sym]; ok {
				r.Precedence = op.Precedence
				break
			}
		}
	}
}

// computeNullableFirstFollow runs the classic repeat-until-stable fixed
// point described in spec §4.5 over the rule list.
func (g *Grammar) computeNullableFirstFollow() {
	// Seed FOLLOW(start) ⊇ {$end} (spec §4.2, §4.5).
	g.nontermInfo(g.start).Follow.Add(SymEnd)

	for {
		changed := false

		for _, r := range g.rules {
			nt := g.nontermInfo(r.LHS)

			// NULLABLE: a rule is nullable iff every RHS symbol is
			// nullable (vacuously true for ε).
			if !nt.Nullable {
				allNullable := true
				for _, sym := range r.Symbols {
					if !g.symbolNullable(sym) {
						allNullable = false
						break
					}
				}
				if allNullable {
					nt.Nullable = true
					changed = true
				}
			}

			// FIRST(N) = union of FIRST of each rule's RHS sequence.
			seqFirst := g.sequenceFirst(r.Symbols)
			if nt.First.AddAllReturnGrew(seqFirst) {
				changed = true
			}
		}

		// FOLLOW: for each rule A -> α X β, add FIRST(β) to FOLLOW(X); if β
		// is nullable (including β = ε), also add FOLLOW(A) to FOLLOW(X).
		for _, r := range g.rules {
			lhsFollow := g.nontermInfo(r.LHS).Follow
			for i, sym := range r.Symbols {
				if !g.IsNonTerminal(sym) {
					continue
				}
				beta := r.Symbols[i+1:]
				betaFirst := g.sequenceFirst(beta)
				xFollow := g.nontermInfo(sym).Follow
				if xFollow.AddAllReturnGrew(betaFirst) {
					changed = true
				}
				if g.sequenceNullable(beta) {
					if xFollow.AddAllReturnGrew(lhsFollow) {
						changed = true
					}
				}
			}
		}

		if !changed {
			break
		}
	}
}

func (g *Grammar) symbolNullable(sym int) bool {
	if g.IsTerminal(sym) {
		return false
	}
	nt := g.nonterms[sym]
	return nt != nil && nt.Nullable
}

// sequenceFirst accumulates FIRST(s1) ∪ FIRST(s2) ∪ ... until the first
// non-nullable si (spec §4.5).
func (g *Grammar) sequenceFirst(seq []int) util.IDSet {
	out := util.NewIDSet()
	for _, sym := range seq {
		if g.IsTerminal(sym) {
			out.Add(sym)
			break
		}
		nt := g.nontermInfo(sym)
		out.AddAll(nt.First)
		if !nt.Nullable {
			break
		}
	}
	return out
}

func (g *Grammar) sequenceNullable(seq []int) bool {
	for _, sym := range seq {
		if !g.symbolNullable(sym) {
			return false
		}
	}
	return true
}

// LR0Items returns every item (rule, dot) for every dot position 0..len(rhs)
// across every rule, including the accept rule. slrgen's --dump-items flag
// prints this list.
func (g *Grammar) LR0Items() []Item {
	var items []Item
	for _, r := range g.rules {
		for dot := 0; dot <= len(r.Symbols); dot++ {
			items = append(items, Item{RuleID: r.ID, Dot: dot})
		}
	}
	return items
}
