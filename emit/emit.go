package emit

import (
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"

	"github.com/dekarrin/ictiobus/action"
	"github.com/dekarrin/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/icterrors"
	"github.com/dekarrin/ictiobus/parse"
)

// Emit renders a self-contained Go source file implementing a parser for
// g's grammar against t's parse table (spec.md §4.7, §9 "Emission"). Rule
// actions must already be compiled (action.CompileGrammar) before calling
// Emit. The returned bytes are gofmt'd.
func Emit(g *grammar.Grammar, t *parse.Table, packageName string) ([]byte, error) {
	tmpl, err := template.New("parser").Parse(driverTemplate)
	if err != nil {
		return nil, icterrors.WrapGrammar(err, "parse emission template")
	}

	data := map[string]string{
		"PackageName": packageName,
		"TokenNames":  tokenNameMap(g),
		"RuleTable":   ruleTableLiteral(g),
		"Defaults":    defaultsLiteral(t),
		"ActionTable": actionTableLiteral(g, t),
		"ActionCases": actionCases(g),
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return nil, icterrors.WrapGrammar(err, "render emission template")
	}

	out, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, icterrors.WrapGrammar(err, "gofmt emitted parser")
	}
	return out, nil
}

// ruleTableLiteral renders []ruleEntry{...} using the emitted parser's own
// ruleEntry type (distinct from parse.Table's internal cellKey/Action
// types -- the emitted program is standalone and does not import this
// module).
func ruleTableLiteral(g *grammar.Grammar) string {
	var b strings.Builder
	b.WriteString("[]ruleEntry{\n")
	for id := 0; id < g.RuleCount(); id++ {
		r := g.Rule(id)
		fmt.Fprintf(&b, "\t{LHS: %d, RHSLen: %d},\n", r.LHS, len(r.Symbols))
	}
	b.WriteString("}")
	return b.String()
}

func defaultsLiteral(t *parse.Table) string {
	var states []int
	for s := range t.Defaults {
		states = append(states, s)
	}
	sort.Ints(states)

	var b strings.Builder
	b.WriteString("map[int]int{\n")
	for _, s := range states {
		fmt.Fprintf(&b, "\t%d: %d,\n", s, t.Defaults[s])
	}
	b.WriteString("}")
	return b.String()
}

// actionKindName maps a parse.ActionType to the emitted program's own
// actionKind constant name.
func actionKindName(ty parse.ActionType) string {
	switch ty {
	case parse.ShiftAction:
		return "actShift"
	case parse.ReduceAction:
		return "actReduce"
	case parse.AcceptAction:
		return "actAccept"
	case parse.GotoAction:
		return "actGoto"
	case parse.NonAssocAction:
		return "actNonAssoc"
	default:
		return "actError"
	}
}

// actionTableLiteral renders the full action/goto table as a
// map[[2]int]action literal, sorted by (state, symbol) for deterministic
// output.
func actionTableLiteral(g *grammar.Grammar, t *parse.Table) string {
	type cell struct{ state, sym int }
	var cells []cell
	for _, s := range t.Automaton.States {
		for sym := range s.Transitions {
			cells = append(cells, cell{s.ID, sym})
		}
		for _, sym := range g.Terminals() {
			if t.Action(s.ID, sym).Type != parse.ErrorAction {
				cells = append(cells, cell{s.ID, sym})
			}
		}
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].state != cells[j].state {
			return cells[i].state < cells[j].state
		}
		return cells[i].sym < cells[j].sym
	})

	seen := map[cell]bool{}
	var b strings.Builder
	b.WriteString("map[[2]int]action{\n")
	for _, c := range cells {
		if seen[c] {
			continue
		}
		seen[c] = true
		a := t.Action(c.state, c.sym)
		fmt.Fprintf(&b, "\t{%d, %d}: {kind: %s, state: %d, ruleID: %d},\n", c.state, c.sym, actionKindName(a.Type), a.State, a.RuleID)
	}
	b.WriteString("}")
	return b.String()
}

// actionCases renders dispatch's switch body. Rules whose compiled bodies
// have the same canonical form (action.Body.Canon) share one case.
func actionCases(g *grammar.Grammar) string {
	var keys []string
	ruleIDs := map[string][]string{}
	bodies := map[string]action.Body{}
	for id := 0; id < g.RuleCount(); id++ {
		body, ok := g.Rule(id).Action.(action.Body)
		if !ok {
			continue
		}
		key := body.Canon()
		if _, seen := bodies[key]; !seen {
			keys = append(keys, key)
			bodies[key] = body
		}
		ruleIDs[key] = append(ruleIDs[key], fmt.Sprint(id))
	}

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "\tcase %s:\n\t\treturn %s\n", strings.Join(ruleIDs[key], ", "), renderAction(bodies[key], "rhs"))
	}
	return b.String()
}
