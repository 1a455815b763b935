package grammar

import "fmt"

// SymbolClass classifies an interned Symbol.
type SymbolClass int

const (
	// Terminal is a symbol produced by the lexer; never a production LHS.
	Terminal SymbolClass = iota
	// NonTerminal is a symbol defined by one or more productions.
	NonTerminal
	// Pseudo is a class for symbols that exist only for automaton
	// bookkeeping. No symbol in this package is given it: $accept is seeded
	// as a NonTerminal.
	Pseudo
)

func (c SymbolClass) String() string {
	switch c {
	case Terminal:
		return "terminal"
	case NonTerminal:
		return "nonterminal"
	case Pseudo:
		return "pseudo"
	default:
		return "unknown"
	}
}

// Reserved symbol ids, pre-seeded before any user name is interned (spec §3,
// §4.1).
const (
	SymAccept = 0 // $accept, nonterminal
	SymEnd    = 1 // $end, terminal
	SymError  = 2 // error, terminal
)

const (
	NameAccept = "$accept"
	NameEnd    = "$end"
	NameError  = "error"
)

// Symbol is an interned grammar name: a stable small integer id plus its
// classification.
type Symbol struct {
	ID    int
	Name  string
	Class SymbolClass
}

func (s Symbol) String() string {
	return fmt.Sprintf("%s(%d,%s)", s.Name, s.ID, s.Class)
}

// SymbolTable interns names into stable ids in first-seen order, starting at
// 3 (0-2 are reserved). Intern classifies every new name as Terminal;
// Grammar.AddRule promotes each rule's LHS to NonTerminal via Promote, so a
// name first seen on a RHS becomes a NonTerminal once it appears as an LHS.
type SymbolTable struct {
	byName map[string]int
	byID   []Symbol
}

// NewSymbolTable returns a table pre-seeded with $accept, $end, and error.
func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{byName: map[string]int{}}
	t.seed(NameAccept, NonTerminal)
	t.seed(NameEnd, Terminal)
	t.seed(NameError, Terminal)
	return t
}

func (t *SymbolTable) seed(name string, class SymbolClass) {
	id := len(t.byID)
	t.byID = append(t.byID, Symbol{ID: id, Name: name, Class: class})
	t.byName[name] = id
}

// Intern returns the id for name, allocating a fresh terminal id if name is
// unknown. Classification may be upgraded later via Promote.
func (t *SymbolTable) Intern(name string) int {
	if id, ok := t.byName[name]; ok {
		return id
	}
	id := len(t.byID)
	t.byID = append(t.byID, Symbol{ID: id, Name: name, Class: Terminal})
	t.byName[name] = id
	return id
}

// Promote marks the symbol as a NonTerminal (called whenever a name is seen
// as the LHS of a rule).
func (t *SymbolTable) Promote(id int) {
	t.byID[id].Class = NonTerminal
}

func (t *SymbolTable) Get(id int) Symbol {
	return t.byID[id]
}

func (t *SymbolTable) Lookup(name string) (int, bool) {
	id, ok := t.byName[name]
	return id, ok
}

func (t *SymbolTable) Len() int {
	return len(t.byID)
}

func (t *SymbolTable) All() []Symbol {
	out := make([]Symbol, len(t.byID))
	copy(out, t.byID)
	return out
}
