// Package action compiles declarative action templates (spec.md §4.3) into
// a small tagged intermediate representation, per spec.md §9's re-
// architecture guidance: "compile each template into a small tagged-IR
// (sequence of {Literal(text) | PositionRef(k) | ResultRef | LocRef(k) |
// ResultLoc}) during rule building, then render that IR into the target
// language at emit time. Action-body deduplication keys on the IR's
// canonical form."
//
// Grounded on other_examples/*nihei9-vartan__driver-semantic_action.go.go
// and *driver-parser-semantic_action.go.go for the shape of a compiled,
// dispatch-table-based action, and on
// internal/ictiobus/translation/binding.go's SyntaxDirectedDefinition
// concept of "a value computed from sibling values".
package action

import "fmt"

// FragKind is the tag of one IR fragment.
type FragKind int

const (
	// Literal is verbatim source text, copied through unchanged.
	Literal FragKind = iota
	// PositionRef is a reference to a stack slot, rendered as $[$0-Offset].
	PositionRef
	// LocRef is a reference to a location-stack slot, rendered as
	// loc[$0-Offset].
	LocRef
	// ResultRef is the caller's result slot ($$ in jison mode).
	ResultRef
	// ResultLoc is the caller's location slot (@0/@$ in jison mode).
	ResultLoc
	// BoolReturn is a direct "return true"/"return false" statement,
	// produced by jison mode's YYACCEPT/YYABORT sentinels.
	BoolReturn
)

// Fragment is one piece of a compiled action body.
type Fragment struct {
	Kind   FragKind
	Text   string // Literal text, or "true"/"false" for BoolReturn
	Offset int    // stack offset from $0, for PositionRef/LocRef
}

// Body is a compiled action: either a literal return expression built from
// Fragments, or the direct ReturnsNull shortcut. A direct boolean return is
// a BoolReturn fragment.
type Body struct {
	Fragments   []Fragment
	ReturnsNull bool
}

// Canon returns a string uniquely determined by the body's structure, used
// to key action-body deduplication (spec.md §4.3: "identical compiled
// bodies are deduplicated").
func (b Body) Canon() string {
	if b.ReturnsNull {
		return "null"
	}
	s := ""
	for _, f := range b.Fragments {
		switch f.Kind {
		case Literal:
			s += fmt.Sprintf("L(%q)", f.Text)
		case PositionRef:
			s += fmt.Sprintf("P(%d)", f.Offset)
		case LocRef:
			s += fmt.Sprintf("Q(%d)", f.Offset)
		case ResultRef:
			s += "R"
		case ResultLoc:
			s += "RL"
		case BoolReturn:
			s += fmt.Sprintf("B(%s)", f.Text)
		}
	}
	return s
}

func lit(s string) Fragment        { return Fragment{Kind: Literal, Text: s} }
func pos(offset int) Fragment      { return Fragment{Kind: PositionRef, Offset: offset} }
func loc(offset int) Fragment      { return Fragment{Kind: LocRef, Offset: offset} }
func boolReturn(v bool) Fragment {
	s := "false"
	if v {
		s = "true"
	}
	return Fragment{Kind: BoolReturn, Text: s}
}
