package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_BuildNameTable_positionalAndAliases(t *testing.T) {
	assert := assert.New(t)

	names := []string{"Expr", "PLUS", "Expr"}
	aliases := []string{"left", "", "right"}

	table := BuildNameTable(names, aliases)

	assert.Equal(1, table["left"])
	assert.Equal(3, table["right"])
	assert.Equal(1, table["Expr"])  // first occurrence, bare name
	assert.Equal(3, table["Expr1"]) // second occurrence, disambiguated
	assert.Equal(2, table["PLUS"])
}

func Test_CompileJison_dollarDollar(t *testing.T) {
	assert := assert.New(t)

	body := CompileJison("$$ = $1 + $3;", 3, map[string]int{})

	var sawResultRef, sawPos1, sawPos3 bool
	for _, f := range body.Fragments {
		switch f.Kind {
		case ResultRef:
			sawResultRef = true
		case PositionRef:
			if f.Offset == 2 {
				sawPos1 = true
			}
			if f.Offset == 0 {
				sawPos3 = true
			}
		}
	}
	assert.True(sawResultRef)
	assert.True(sawPos1)
	assert.True(sawPos3)
}

func Test_CompileJison_namedRefsResolveThroughTable(t *testing.T) {
	assert := assert.New(t)

	table := map[string]int{"left": 1, "right": 3}
	body := CompileJison("$$ = [$left, $right];", 3, table)

	var positions []int
	for _, f := range body.Fragments {
		if f.Kind == PositionRef {
			positions = append(positions, f.Offset)
		}
	}
	assert.Equal([]int{2, 0}, positions)
}

func Test_CompileJison_yyabortYyaccept(t *testing.T) {
	assert := assert.New(t)

	abort := CompileJison("YYABORT", 1, map[string]int{})
	assert.Equal([]Fragment{boolReturn(false)}, abort.Fragments)

	accept := CompileJison("YYACCEPT", 1, map[string]int{})
	assert.Equal([]Fragment{boolReturn(true)}, accept.Fragments)
}

func Test_CompileJison_dollarInQuotedStringIsLiteral(t *testing.T) {
	assert := assert.New(t)

	body := CompileJison(`$$ = "literal $1 text";`, 2, map[string]int{})

	// only one ResultRef fragment, and the quoted "$1" stayed inside a
	// literal chunk rather than becoming a PositionRef.
	var resultRefs, posRefs int
	for _, f := range body.Fragments {
		switch f.Kind {
		case ResultRef:
			resultRefs++
		case PositionRef:
			posRefs++
		}
	}
	assert.Equal(1, resultRefs)
	assert.Equal(0, posRefs)
}

func Test_CompileJison_nonStringTemplate_passesThroughFirstSymbol(t *testing.T) {
	assert := assert.New(t)

	body := CompileJison(nil, 2, map[string]int{})
	assert.Equal([]Fragment{{Kind: PositionRef, Offset: 1}}, body.Fragments)
}
