// Package emit serializes a compiled grammar (symbol table, rule table,
// parse table, compiled action bodies) into a self-contained Go source
// file that embeds the runtime driver (spec.md §4.7, §9 "Emission").
//
// Grounded on other_examples/nihei9-vartan's driver-template.go: a
// text/template string holding the emitted package's static scaffolding,
// filled with the grammar's tables pre-rendered as Go composite-literal
// text, followed by a go/format pass. This module has no
// lexer/AST-action layer to emit (those are explicitly out of core scope,
// spec.md §1), so the template is narrower: parse table + rule table +
// token-name map + compiled action dispatch + the driver loop itself.
package emit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/ictiobus/grammar"
)

// goStringLit renders s as a double-quoted Go string literal.
func goStringLit(s string) string {
	return strconv.Quote(s)
}

// tokenNameMap renders the symbol table's terminal id -> name mapping
// (spec.md §6 "token-name map") as a Go map literal, sorted for
// deterministic output.
func tokenNameMap(g *grammar.Grammar) string {
	ids := g.Terminals()
	sort.Ints(ids)
	var b strings.Builder
	b.WriteString("map[int]string{\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "\t\t%d: %s,\n", id, goStringLit(g.Symbols.Get(id).Name))
	}
	b.WriteString("\t}")
	return b.String()
}
