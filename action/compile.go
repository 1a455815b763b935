package action

import "github.com/dekarrin/ictiobus/grammar"

// Mode selects which action-template dialect CompileGrammar rewrites
// (spec.md §4.3): sexp-mode positional rewriting, or jison-mode named/
// positional rewriting with YYABORT/YYACCEPT/$$ support.
type Mode int

const (
	Sexp Mode = iota
	Jison
)

// CompileGrammar rewrites every rule's raw action template (as recorded by
// grammar.Grammar.AddRule) into a compiled Body, storing the Body back on
// Rule.Action in place (spec.md §4.3: "transforms declarative action
// templates ... into executable action bodies"). The synthesized accept
// rule (id 0) is left untouched; it has no user action.
func CompileGrammar(g *grammar.Grammar, mode Mode) {
	for _, id := range ruleIDs(g) {
		if id == 0 {
			continue
		}
		rule := g.Rule(id)
		rhsLen := len(rule.Symbols)

		var body Body
		switch mode {
		case Jison:
			names := make([]string, rhsLen)
			for i, symID := range rule.Symbols {
				names[i] = g.Symbols.Get(symID).Name
			}
			nameTable := BuildNameTable(names, rule.Aliases)
			body = CompileJison(rule.Action, rhsLen, nameTable)
		default:
			body = CompileSexp(rule.Action, rhsLen)
		}

		rule.Action = body
	}
}

func ruleIDs(g *grammar.Grammar) []int {
	ids := make([]int, g.RuleCount())
	for i := range ids {
		ids[i] = i
	}
	return ids
}
