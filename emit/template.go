package emit

// driverTemplate is the static scaffolding of every emitted parser: types,
// the table-driven Parse loop (spec.md §4.7), and the Lexer interface
// (spec.md §6). {{ .X }} placeholders carry the grammar-specific data in,
// as Go literal text already rendered by the functions in emit.go.
const driverTemplate = `// Code generated by slrgen. DO NOT EDIT.

package {{ .PackageName }}

import "fmt"

// Location is a span in the source text (spec.md §6 "yylloc").
type Location struct {
	FirstLine   int
	LastLine    int
	FirstColumn int
	LastColumn  int
}

func spanLoc(first, last Location) Location {
	return Location{FirstLine: first.FirstLine, FirstColumn: first.FirstColumn, LastLine: last.LastLine, LastColumn: last.LastColumn}
}

// Lexer is the abstract token source this parser drives against (spec.md
// §6 "Lexer interface").
type Lexer interface {
	Lex() (string, error)
	Text() string
	Loc() Location
}

type actionKind int

const (
	actError actionKind = iota
	actShift
	actReduce
	actAccept
	actGoto
	actNonAssoc
)

type action struct {
	kind   actionKind
	state  int
	ruleID int
}

type ruleEntry struct {
	LHS    int
	RHSLen int
}

type stackFrame struct {
	state int
	value any
	loc   Location
}

var tokenNames = {{ .TokenNames }}

var rules = {{ .RuleTable }}

var defaults = {{ .Defaults }}

var table = {{ .ActionTable }}

// SyntaxError is raised on an unexpected token (spec.md §7).
type SyntaxError struct {
	Token    string
	Loc      Location
	Expected []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("unexpected token %q at %d:%d (expected one of %v)", e.Token, e.Loc.FirstLine, e.Loc.FirstColumn, e.Expected)
}

func expectedAt(state int) []string {
	var out []string
	for sym, name := range tokenNames {
		if a, ok := table[[2]int{state, sym}]; ok && a.kind != actError {
			out = append(out, name)
		}
	}
	return out
}

// Parse runs the shift-reduce loop over lx and returns the value produced
// by reducing the start symbol (spec.md §4.7).
func Parse(lx Lexer) (any, error) {
	stack := []stackFrame{{state: 0, value: nil, loc: lx.Loc()}}

	var pendingName string
	var pendingLoc Location
	havePending := false

	for {
		top := stack[len(stack)-1]

		var a action
		if ruleID, ok := defaults[top.state]; ok {
			a = action{kind: actReduce, ruleID: ruleID}
		} else {
			if !havePending {
				name, err := lx.Lex()
				if err != nil {
					return nil, err
				}
				if name == "" {
					name = "$end"
				}
				pendingName = name
				pendingLoc = lx.Loc()
				havePending = true
			}
			symID := -1
			for id, n := range tokenNames {
				if n == pendingName {
					symID = id
					break
				}
			}
			a = table[[2]int{top.state, symID}]
		}

		switch a.kind {
		case actError, actNonAssoc:
			return nil, &SyntaxError{Token: pendingName, Loc: pendingLoc, Expected: expectedAt(top.state)}

		case actShift:
			stack = append(stack, stackFrame{state: a.state, value: lx.Text(), loc: pendingLoc})
			havePending = false

		case actReduce:
			rule := rules[a.ruleID]
			n := rule.RHSLen
			popped := stack[len(stack)-n:]
			base := stack[:len(stack)-n]

			var loc Location
			if n > 0 {
				loc = spanLoc(popped[0].loc, popped[n-1].loc)
			} else {
				loc = top.loc
			}

			val := dispatch(a.ruleID, popped, loc)

			fromState := base[len(base)-1].state
			g := table[[2]int{fromState, rule.LHS}]
			stack = append(base, stackFrame{state: g.state, value: val, loc: loc})

		case actAccept:
			return stack[len(stack)-1].value, nil
		}
	}
}

func dispatch(ruleID int, rhs []stackFrame, loc Location) any {
	switch ruleID {
{{ .ActionCases }}
	default:
		if len(rhs) > 0 {
			return rhs[0].value
		}
		return nil
	}
}
`
