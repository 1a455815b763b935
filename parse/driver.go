package parse

import (
	"github.com/dekarrin/ictiobus/action"
	"github.com/dekarrin/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/icterrors"
	"github.com/dekarrin/ictiobus/internal/util"
)

// Location is a span in the source text, as produced by a Lexer after each
// Lex call (spec.md §6 "yylloc").
type Location struct {
	FirstLine   int
	LastLine    int
	FirstColumn int
	LastColumn  int
	HasRange    bool
	RangeStart  int
	RangeEnd    int
}

// span combines two locations into the synthetic location of a reduction
// spanning the popped symbols first..last (spec.md §4.7 step 4).
func span(first, last Location) Location {
	loc := Location{
		FirstLine:   first.FirstLine,
		FirstColumn: first.FirstColumn,
		LastLine:    last.LastLine,
		LastColumn:  last.LastColumn,
	}
	if first.HasRange && last.HasRange {
		loc.HasRange = true
		loc.RangeStart = first.RangeStart
		loc.RangeEnd = last.RangeEnd
	}
	return loc
}

// Lexer is the abstract token source the driver consumes (spec.md §6
// "Lexer interface"). The generator's core never implements one; it only
// drives against this interface, same as the emitted parser template does.
type Lexer interface {
	// Lex returns the name of the next token, and signals end-of-input by
	// returning the reserved end-of-input name (grammar.NameEnd) or an
	// empty string.
	Lex() (tokenName string, err error)

	// Text returns the exact text matched by the most recent Lex call
	// (yytext).
	Text() string

	// Loc returns the location of the most recent Lex call (yylloc).
	Loc() Location
}

// ParseErrorFunc is the user-overridable recovery hook invoked on an
// unexpected token (spec.md §7 "Runtime parse error taxonomy"). Returning
// nil means "recovered, keep parsing"; any other value is propagated as
// the parse's terminal error.
type ParseErrorFunc func(e *SyntaxError) error

// SyntaxError is the diagnostic built for an unexpected token (spec.md §7,
// §4.7 step 2): the offending token, its location, and the set of terminal
// names that would have been accepted in the state the driver was in.
type SyntaxError struct {
	Token       string
	Loc         Location
	Expected    []string
	Recoverable bool
}

func (e *SyntaxError) Error() string {
	return icterrors.NewSyntaxErrorFromToken(
		"unexpected token",
		e.Loc.FirstLine, e.Loc.FirstColumn,
		e.Token, e.Expected,
	).Summary()
}

// TraceEvent is emitted to any registered trace listener as the driver
// runs, the supplemented tracing hook noted in SPEC_FULL.md (§4):
// observability the core spec leaves to the embedding program, done the
// way the rest of this module logs, not as a parse-result field.
type TraceEvent struct {
	State  int
	Action Action
	Token  string
}

// TraceListener receives one TraceEvent per parse-table lookup. Reductions
// taken from a state's default action involve no lookup and are not
// reported.
type TraceListener func(TraceEvent)

// Driver is a single-loop shift-reduce machine over a built Table
// (spec.md §4.7). It is reusable across Parse calls; construct one per
// Table and call Parse per input.
type Driver struct {
	Table     *Table
	ParseErr  ParseErrorFunc
	listeners []TraceListener

	// MaxErrorRecovery bounds how many tokens are discarded while searching
	// for a state with a shift on the error token (spec.md §7
	// "Recoverable"); zero means unbounded.
	MaxErrorRecovery int
}

// NewDriver builds a Driver around t with the default parseError behavior
// (return the SyntaxError as a terminal error -- spec.md §7 "default
// implementation throws").
func NewDriver(t *Table) *Driver {
	return &Driver{Table: t, ParseErr: func(e *SyntaxError) error { return e }}
}

// RegisterTraceListener adds a listener invoked on every driver step; it
// is additive and has no effect on parse semantics.
func (d *Driver) RegisterTraceListener(l TraceListener) {
	d.listeners = append(d.listeners, l)
}

func (d *Driver) notify(ev TraceEvent) {
	for _, l := range d.listeners {
		l(ev)
	}
}

// stackFrame is one entry of the driver's parallel state/value/location
// stacks (spec.md §4.7: "three stacks: state stack ... value stack ...
// location stack").
type stackFrame struct {
	state int
	value any
	loc   Location
}

// Parse runs the shift-reduce loop against lx until the grammar's start
// symbol is accepted or a terminal error occurs, returning the value
// produced by the reduction of the start symbol (spec.md §4.7).
func (d *Driver) Parse(lx Lexer) (any, error) {
	g := d.Table.Grammar

	stack := &util.Stack[stackFrame]{Of: []stackFrame{{state: 0, value: nil, loc: lx.Loc()}}}

	var pending *pendingToken
	recovering := 0

	for {
		top := stack.Peek()

		var act Action
		if ruleID, ok := d.Table.Defaults[top.state]; ok {
			act = Action{Type: ReduceAction, RuleID: ruleID}
		} else {
			if pending == nil {
				tok, err := nextToken(lx)
				if err != nil {
					return nil, err
				}
				pending = tok
			}
			symID, known := g.Symbols.Lookup(pending.name)
			if !known {
				symID = grammar.SymError
			}
			act = d.Table.Action(top.state, symID)
			d.notify(TraceEvent{State: top.state, Action: act, Token: pending.name})
		}

		switch act.Type {
		case ErrorAction, NonAssocAction:
			expected := d.Table.ExpectedTerminals(top.state)
			tokName := ""
			loc := top.loc
			if pending != nil {
				tokName = pending.name
				loc = pending.loc
			}
			se := &SyntaxError{Token: tokName, Loc: loc, Expected: expected, Recoverable: d.hasErrorToken(g)}
			if err := d.ParseErr(se); err != nil {
				return nil, err
			}
			if !se.Recoverable {
				return nil, se
			}
			if d.MaxErrorRecovery > 0 && recovering >= d.MaxErrorRecovery {
				return nil, se
			}
			recovering++
			if !d.recover(stack) {
				return nil, se
			}
			pending = nil
			continue

		case ShiftAction:
			recovering = 0
			text := pending.name
			if pending.text != "" {
				text = pending.text
			}
			stack.Push(stackFrame{state: act.State, value: text, loc: pending.loc})
			pending = nil

		case ReduceAction:
			rule := g.Rule(act.RuleID)
			n := len(rule.Symbols)
			popped := stack.Of[stack.Len()-n:]
			base := stack.Of[:stack.Len()-n]

			var firstLoc, lastLoc Location
			if n > 0 {
				firstLoc = popped[0].loc
				lastLoc = popped[n-1].loc
			} else {
				firstLoc = top.loc
				lastLoc = top.loc
			}
			resultLoc := span(firstLoc, lastLoc)

			val, err := d.runAction(rule, popped, resultLoc)
			if err != nil {
				return nil, err
			}

			fromState := base[len(base)-1].state
			gotoAct := d.Table.Action(fromState, rule.LHS)
			stack.Of = append(base, stackFrame{state: gotoAct.State, value: val, loc: resultLoc})

		case AcceptAction:
			if stack.Len() < 2 {
				return nil, nil
			}
			return stack.Peek().value, nil

		case GotoAction:
			// Gotos are only ever consulted directly via rule.LHS lookup
			// above; encountering one here means the table has a goto
			// entry keyed on a terminal, which cannot happen for a
			// correctly built table.
			return nil, icterrors.Grammar("internal error: goto action on terminal in state %d", top.state)
		}
	}
}

type pendingToken struct {
	name string
	text string
	loc  Location
}

func nextToken(lx Lexer) (*pendingToken, error) {
	name, err := lx.Lex()
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = grammar.NameEnd
	}
	return &pendingToken{name: name, text: lx.Text(), loc: lx.Loc()}, nil
}

func (d *Driver) hasErrorToken(g *grammar.Grammar) bool {
	_, ok := g.Symbols.Lookup(grammar.NameError)
	return ok
}

// recover implements spec.md §7's error-token search: discard states from
// the top of the stack until one has a shift on the error token, then
// leave that shift primed on top. Returns false if no such state exists,
// in which case stack is left empty.
func (d *Driver) recover(stack *util.Stack[stackFrame]) bool {
	errID, ok := d.Table.Grammar.Symbols.Lookup(grammar.NameError)
	if !ok {
		stack.Of = nil
		return false
	}
	for !stack.Empty() {
		top := stack.Peek()
		act := d.Table.Action(top.state, errID)
		if act.Type == ShiftAction {
			stack.Push(stackFrame{state: act.State, value: grammar.NameError, loc: top.loc})
			return true
		}
		stack.Pop()
	}
	return false
}

// runAction evaluates the compiled action body stored on rule.Action (by
// action.CompileGrammar) against the popped stack frames. It compiles
// nothing itself: a rule whose Action is not an action.Body yields the
// value at position 1, or nil for an empty RHS.
func (d *Driver) runAction(rule *grammar.Rule, popped []stackFrame, loc Location) (any, error) {
	body, ok := rule.Action.(action.Body)
	if !ok {
		// No compiled action: passthrough of position 1 if present, else
		// null, matching CompileSexp's nil-template behavior.
		if len(popped) > 0 {
			return popped[0].value, nil
		}
		return nil, nil
	}

	stackAt := func(offset int) any {
		idx := len(popped) - 1 - offset
		if idx < 0 || idx >= len(popped) {
			return nil
		}
		return popped[idx].value
	}
	locAt := func(offset int) any {
		idx := len(popped) - 1 - offset
		if idx < 0 || idx >= len(popped) {
			return loc
		}
		return popped[idx].loc
	}

	return action.Eval(body, stackAt, locAt)
}
