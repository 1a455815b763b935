package grammar

import "strings"

// Assoc is operator associativity.
type Assoc int

const (
	Left Assoc = iota
	Right
	NonAssoc
)

// Operator is a single entry in the precedence table: an associativity and a
// 1-based precedence level (1 = lowest, per spec §3).
type Operator struct {
	Assoc      Assoc
	Precedence uint
}

// Production is the ordered RHS symbol-id sequence of a rule. An empty
// (epsilon) production is represented canonically as a nil/zero-length
// slice.
type Production []int

func (p Production) Len() int {
	return len(p)
}

// Rule is a single production alternative: LHS nonterminal, RHS symbol
// sequence, precedence, and the raw action template the action compiler
// will later rewrite. Rule id 0 is reserved for the synthesized accept rule.
type Rule struct {
	ID         int
	LHS        int
	Symbols    Production
	Aliases    []string // parallel to Symbols; "" when the RHS symbol had no [alias]
	Precedence uint      // 0 = unspecified
	Action     any       // nil, int, or string template (spec §4.2/§4.3); an action.Body once compiled
}

// IsEpsilon reports whether this rule's RHS can derive the empty string
// directly (it has zero symbols). Nullability of the *symbols* within the
// RHS is a grammar-wide fixed point computed separately (spec §4.5).
func (r Rule) IsEpsilon() bool {
	return len(r.Symbols) == 0
}

// String renders the rule in "LHS -> a b c" form, using g to resolve names.
func (r Rule) String(g *Grammar) string {
	lhs := g.Symbols.Get(r.LHS).Name
	if len(r.Symbols) == 0 {
		return lhs + " -> ε"
	}
	names := make([]string, len(r.Symbols))
	for i, sym := range r.Symbols {
		names[i] = g.Symbols.Get(sym).Name
	}
	return lhs + " -> " + strings.Join(names, " ")
}

// RuleTableEntry is the flattened (LHS id, rhs length) view of a rule
// (spec §3 "Rule Table").
type RuleTableEntry struct {
	LHS    int
	RHSLen int
}
