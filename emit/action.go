package emit

import (
	"fmt"
	"strings"

	"github.com/dekarrin/ictiobus/action"
)

// renderAction turns one compiled action.Body into a Go expression,
// following the bracket-literal shape the action templates in this
// domain use (spec.md §8 scenarios A-C: '["+", 1, 3]'-style templates):
// a literal fragment's '[' becomes "[]any{" and ']' becomes '}', commas
// pass through unchanged, quoted text is copied with its quote marks
// written as double quotes, and PositionRef/LocRef
// fragments become references into the popped value/location slices.
// ResultRef/ResultLoc/BoolReturn fragments render as direct expressions.
//
// This is deliberately a plainer textual substitution than
// action.Eval's tokenizer: the emitter only ever needs to re-emit the
// same bracket skeleton the author wrote, not evaluate it, so there is
// no need to track quote state beyond what bracketLit already handles.
func renderAction(body action.Body, rhsVar string) string {
	if body.ReturnsNull {
		return "nil"
	}
	if len(body.Fragments) == 1 {
		switch f := body.Fragments[0]; f.Kind {
		case action.PositionRef:
			return fmt.Sprintf("%s[len(%s)-1-%d].value", rhsVar, rhsVar, f.Offset)
		case action.LocRef:
			return fmt.Sprintf("%s[len(%s)-1-%d].loc", rhsVar, rhsVar, f.Offset)
		case action.BoolReturn:
			return f.Text
		case action.ResultRef, action.ResultLoc:
			return "nil"
		}
	}

	var b strings.Builder
	for _, f := range body.Fragments {
		switch f.Kind {
		case action.Literal:
			b.WriteString(bracketLit(f.Text))
		case action.PositionRef:
			fmt.Fprintf(&b, "%s[len(%s)-1-%d].value", rhsVar, rhsVar, f.Offset)
		case action.LocRef:
			fmt.Fprintf(&b, "%s[len(%s)-1-%d].loc", rhsVar, rhsVar, f.Offset)
		case action.BoolReturn:
			b.WriteString(f.Text)
		case action.ResultRef, action.ResultLoc:
			b.WriteString("nil")
		}
	}
	return b.String()
}

// bracketLit rewrites JSON-array literal punctuation in s into Go
// composite-literal punctuation, copying quoted runs through with their
// quote marks written as double quotes.
func bracketLit(s string) string {
	var b strings.Builder
	inString := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString != 0 {
			if c == inString {
				b.WriteByte('"')
				inString = 0
				continue
			}
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
			continue
		}
		switch c {
		case '\'', '"':
			inString = c
			b.WriteByte('"')
		case '[':
			b.WriteString("[]any{")
		case ']':
			b.WriteByte('}')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
