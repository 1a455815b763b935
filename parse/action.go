// Package parse builds the SLR(1) parse table from a grammar's LR(0)
// automaton and FOLLOW sets (spec.md §4.6), and implements the runtime
// shift-reduce driver (spec.md §4.7). The table-construction loop and the
// Action type are grounded on internal/ictiobus/parse/{slr.go,lraction.go}
// in the teacher repo, generalized from string symbol/state keys to dense
// ids and extended with the precedence/associativity conflict resolution
// spec.md §4.6.1 requires (the teacher's own SLR builder had no operator
// table at all: ambiguous grammars were always resolved in favor of
// shift). Dense-id table shape additionally grounded on
// other_examples/*nihei9-vartan__grammar-parsing_table_builder.go.go's
// actionEntry/goToEntry packed encoding.
package parse

import "fmt"

// ActionType is the kind of entry a parse-table cell holds (spec.md §3
// "Parse Table").
type ActionType int

const (
	ErrorAction ActionType = iota
	ShiftAction
	ReduceAction
	AcceptAction
	GotoAction
	// NonAssocAction is a poison entry: encountering this terminal here is
	// always a parse error, even though an action was "resolved" here
	// during table construction (spec.md §4.6.1 nonassoc case).
	NonAssocAction
)

func (t ActionType) String() string {
	switch t {
	case ErrorAction:
		return "error"
	case ShiftAction:
		return "shift"
	case ReduceAction:
		return "reduce"
	case AcceptAction:
		return "accept"
	case GotoAction:
		return "goto"
	case NonAssocAction:
		return "nonassoc-error"
	default:
		return "unknown"
	}
}

// Action is one parse-table cell.
type Action struct {
	Type   ActionType
	State  int // for Shift and Goto
	RuleID int // for Reduce
}

func (a Action) Equal(o Action) bool {
	return a.Type == o.Type && a.State == o.State && a.RuleID == o.RuleID
}

func (a Action) String() string {
	switch a.Type {
	case ShiftAction:
		return fmt.Sprintf("shift %d", a.State)
	case ReduceAction:
		return fmt.Sprintf("reduce %d", a.RuleID)
	case GotoAction:
		return fmt.Sprintf("goto %d", a.State)
	case AcceptAction:
		return "accept"
	case NonAssocAction:
		return "nonassoc-error"
	default:
		return "error"
	}
}

// ConflictCategory classifies why a conflict was resolved "by default"
// (spec.md §4.6.2).
type ConflictCategory int

const (
	EmptyOptional ConflictCategory = iota
	Passthrough
	PrecedenceResolved
	ReduceReduce
	Ambiguous
)

func (c ConflictCategory) String() string {
	switch c {
	case EmptyOptional:
		return "empty-optional"
	case Passthrough:
		return "passthrough"
	case PrecedenceResolved:
		return "precedence"
	case ReduceReduce:
		return "reduce-reduce"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// ConflictRecord is a diagnostic emitted during parse-table construction
// (spec.md §3 "Conflict Record"). Only ReduceReduce and Ambiguous
// categories are counted towards Stats.ConflictCount (spec.md §4.6.2).
type ConflictRecord struct {
	State      int
	Terminal   int // symbol id of the offending lookahead
	RuleID     int
	ShiftState int // -1 if not applicable
	Chosen     Action
	Category   ConflictCategory
}
