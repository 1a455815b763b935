package grammar

import (
	"encoding/json"

	"github.com/dekarrin/ictiobus/icterrors"
)

// File is the on-disk JSON shape of a grammar file, mirroring spec.md §6's
// in-memory "Grammar input" object: a `grammar` or `bnf` key selects sexp
// vs jison action mode (presence of `bnf` selects jison mode, same as the
// in-memory object), plus `operators`, `start`, and `parseParams`, and one
// extra key, `order`, listing the nonterminals in declaration order. File loading is explicitly a CLI/collaborator concern
// (spec.md §1 "out of scope: CLI argument parsing, file I/O, grammar-file
// loading"), not part of the core grammar compiler -- this exists only so
// cmd/slrgen has something to decode before handing an in-memory
// *Grammar to the core.
type File struct {
	Grammar     map[string][]RawAlternative `json:"grammar,omitempty"`
	BNF         map[string][]RawAlternative `json:"bnf,omitempty"`
	Operators   [][]string                  `json:"operators,omitempty"`
	Start       string                      `json:"start,omitempty"`
	ParseParams []string                    `json:"parseParams,omitempty"`
	Order       []string                    `json:"order,omitempty"`
}

// RawAlternative is one production alternative as written in a grammar
// file: a space-separated pattern, an optional action template, and an
// optional precedence-token override.
type RawAlternative struct {
	Pattern string `json:"pattern"`
	Action  any    `json:"action,omitempty"`
	Prec    string `json:"prec,omitempty"`
}

// IsJison reports whether the file uses jison-mode action templates (the
// `bnf` key was present instead of `grammar`, spec.md §6).
func (f File) IsJison() bool {
	return len(f.BNF) > 0
}

// LoadFile decodes data as a grammar File.
func LoadFile(data []byte) (File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, icterrors.WrapGrammar(err, "decode grammar file")
	}
	if len(f.Grammar) == 0 && len(f.BNF) == 0 {
		return File{}, icterrors.Grammar("grammar file has neither 'grammar' nor 'bnf' key")
	}
	return f, nil
}

// Definition converts the file's rule mapping (whichever of Grammar/BNF is
// populated) into the Definition shape Build consumes.
func (f File) Definition() Definition {
	src := f.Grammar
	if f.IsJison() {
		src = f.BNF
	}
	def := make(Definition, len(src))
	for name, alts := range src {
		converted := make([]Alternative, len(alts))
		for i, a := range alts {
			converted[i] = Alternative{
				Pattern: ParsePattern(a.Pattern),
				Action:  a.Action,
				Prec:    a.Prec,
			}
		}
		def[name] = converted
	}
	return def
}

// OperatorRows converts the file's `operators` rows into OperatorRow
// values (spec.md §6: "ordered sequence (lowest to highest precedence) of
// rows [assoc, tok1, tok2, ...]").
func (f File) OperatorRows() ([]OperatorRow, error) {
	rows := make([]OperatorRow, len(f.Operators))
	for i, row := range f.Operators {
		if len(row) == 0 {
			return nil, icterrors.Grammar("operators[%d]: empty row", i)
		}
		assoc, err := parseAssoc(row[0])
		if err != nil {
			return nil, icterrors.WrapGrammar(err, "operators[%d]", i)
		}
		rows[i] = OperatorRow{Assoc: assoc, Tokens: row[1:]}
	}
	return rows, nil
}

func parseAssoc(s string) (Assoc, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "nonassoc":
		return NonAssoc, nil
	default:
		return 0, icterrors.Grammar("unknown associativity %q", s)
	}
}
