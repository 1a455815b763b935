package action

import (
	"regexp"
	"strconv"
)

// dollarRefPattern matches a "$n" reference, n a signed integer, with n !=
// "$" excluded by construction (the pattern requires at least one digit).
var dollarRefPattern = regexp.MustCompile(`\$(-?[0-9]+)`)

// bareIntPattern matches a bare signed integer not part of a longer
// identifier or number, used for the style-2 rewrite ('["if", 2, 3]').
var bareIntPattern = regexp.MustCompile(`-?[0-9]+`)

// CompileSexp compiles one sexp-mode action template into a Body (spec.md
// §4.3 "sexp mode"). rhsLen is L, the production's RHS length.
func CompileSexp(template any, rhsLen int) Body {
	switch t := template.(type) {
	case nil:
		return Body{Fragments: []Fragment{pos(rhsLen - 1)}}
	case int:
		return Body{Fragments: []Fragment{pos(rhsLen - t)}}
	case string:
		if dollarRefPattern.MatchString(t) {
			return Body{Fragments: rewriteDollarRefs(t, rhsLen)}
		}
		if bareIntPattern.MatchString(t) {
			return Body{Fragments: rewriteBareInts(t, rhsLen)}
		}
		return Body{ReturnsNull: true}
	default:
		return Body{ReturnsNull: true}
	}
}

// rewriteDollarRefs replaces every $n with a PositionRef, preserving all
// other characters verbatim (spec.md: "bare digits are literal because the
// author opted into explicit $n syntax").
func rewriteDollarRefs(t string, rhsLen int) []Fragment {
	var frags []Fragment
	last := 0
	for _, m := range dollarRefPattern.FindAllStringSubmatchIndex(t, -1) {
		start, end := m[0], m[1]
		nStart, nEnd := m[2], m[3]
		if start > last {
			frags = append(frags, lit(t[last:start]))
		}
		n, _ := strconv.Atoi(t[nStart:nEnd])
		frags = append(frags, pos(rhsLen-n))
		last = end
	}
	if last < len(t) {
		frags = append(frags, lit(t[last:]))
	}
	return frags
}

// rewriteBareInts replaces every bare signed integer n with a PositionRef
// (the style-2 rewrite); all other characters are preserved verbatim.
func rewriteBareInts(t string, rhsLen int) []Fragment {
	var frags []Fragment
	last := 0
	for _, m := range bareIntPattern.FindAllStringIndex(t, -1) {
		start, end := m[0], m[1]
		if (start > 0 && (isIdentRune(t[start-1]) || t[start-1] == '.')) ||
			(end < len(t) && (isIdentRune(t[end]) || t[end] == '.')) {
			continue // digits inside an identifier or a longer number stay literal
		}
		if start > last {
			frags = append(frags, lit(t[last:start]))
		}
		n, _ := strconv.Atoi(t[start:end])
		frags = append(frags, pos(rhsLen-n))
		last = end
	}
	if last < len(t) {
		frags = append(frags, lit(t[last:]))
	}
	return frags
}
