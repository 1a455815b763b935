package action

import (
	"strconv"
	"strings"

	"github.com/dekarrin/ictiobus/icterrors"
)

// Eval executes a compiled Body in-process, without going through emitted
// Go source. This backs the generator's own driver, parse.Driver (used for
// testing a grammar before emission, and for the REPL). The emitted parser
// carries its own copy of the driver loop and renders action bodies as Go
// source instead of calling Eval.
//
// Action templates in this corpus build small tagged literals — JSON-array-
// style structures such as ["+", 1, 3] (spec.md §8 scenarios A-C) — so Eval
// interprets the rendered fragment stream as exactly that restricted
// literal grammar: '[' ... ']' nests a slice, quoted text is a string leaf,
// a PositionRef/LocRef fragment is already a value, and anything else is
// folded into the surrounding literal text. This is not a general
// expression evaluator; the emitter (§1.7) targets full Go source for
// anything richer.
func Eval(body Body, stackAt func(offset int) any, locAt func(offset int) any) (any, error) {
	if body.ReturnsNull {
		return nil, nil
	}
	if len(body.Fragments) == 1 {
		switch f := body.Fragments[0]; f.Kind {
		case PositionRef:
			return stackAt(f.Offset), nil
		case LocRef:
			return locAt(f.Offset), nil
		case BoolReturn:
			return f.Text == "true", nil
		case ResultRef, ResultLoc:
			return nil, nil
		}
	}

	toks, err := tokenize(body, stackAt, locAt)
	if err != nil {
		return nil, err
	}
	v, rest, err := parseLiteral(toks)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		// trailing literal text after the structured value (e.g. a
		// trailing ";" some templates carry) -- the structured value is
		// still what the reduction should produce.
		return v, nil
	}
	return v, nil
}

type token struct {
	isValue bool
	value   any
	text    string // "[" "]" "," or a bare/string-literal chunk
}

func tokenize(body Body, stackAt, locAt func(int) any) ([]token, error) {
	var toks []token
	for _, f := range body.Fragments {
		switch f.Kind {
		case Literal:
			toks = append(toks, tokenizeText(f.Text)...)
		case PositionRef:
			toks = append(toks, token{isValue: true, value: stackAt(f.Offset)})
		case LocRef:
			toks = append(toks, token{isValue: true, value: locAt(f.Offset)})
		case ResultRef, ResultLoc:
			toks = append(toks, token{isValue: true, value: nil})
		case BoolReturn:
			return []token{{isValue: true, value: f.Text == "true"}}, nil
		}
	}
	return toks, nil
}

// tokenizeText splits literal text into structural punctuation ('[', ']',
// ',') and string-literal/bare chunks, skipping insignificant whitespace
// between them.
func tokenizeText(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '[' || c == ']' || c == ',':
			toks = append(toks, token{text: string(c)})
			i++
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(s) && s[j] != c {
				if s[j] == '\\' {
					j++
				}
				j++
			}
			if j < len(s) {
				j++
			}
			toks = append(toks, token{isValue: true, value: s[i+1 : min(j, len(s))-1]})
			i = j
		default:
			j := i
			for j < len(s) && s[j] != '[' && s[j] != ']' && s[j] != ',' && s[j] != '"' && s[j] != '\'' {
				j++
			}
			chunk := strings.TrimSpace(s[i:j])
			if chunk != "" {
				toks = append(toks, token{isValue: true, value: bareLiteral(chunk)})
			}
			i = j
		}
	}
	return toks
}

func bareLiteral(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// parseLiteral parses a '[' elem (',' elem)* ']' structure, or a single
// value token, from the front of toks.
func parseLiteral(toks []token) (any, []token, error) {
	if len(toks) == 0 {
		return nil, nil, icterrors.Grammar("empty action body")
	}

	if toks[0].text == "[" {
		toks = toks[1:]
		var elems []any
		for {
			if len(toks) > 0 && toks[0].text == "]" {
				toks = toks[1:]
				break
			}
			v, rest, err := parseLiteral(toks)
			if err != nil {
				return nil, nil, err
			}
			elems = append(elems, v)
			toks = rest
			if len(toks) > 0 && toks[0].text == "," {
				toks = toks[1:]
				continue
			}
			if len(toks) > 0 && toks[0].text == "]" {
				toks = toks[1:]
				break
			}
			break
		}
		return elems, toks, nil
	}

	if toks[0].isValue {
		return toks[0].value, toks[1:], nil
	}

	// unrecognized punctuation at top level; skip it
	return nil, toks[1:], nil
}
