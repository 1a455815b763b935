package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_CompileSexp_nilTemplate_passesThroughFirstSymbol(t *testing.T) {
	assert := assert.New(t)

	body := CompileSexp(nil, 3)
	assert.Equal([]Fragment{{Kind: PositionRef, Offset: 2}}, body.Fragments)
}

func Test_CompileSexp_intTemplate_referencesPosition(t *testing.T) {
	assert := assert.New(t)

	// template 1 means "$1", the first RHS symbol.
	body := CompileSexp(1, 3)
	assert.Equal([]Fragment{{Kind: PositionRef, Offset: 2}}, body.Fragments)

	body = CompileSexp(2, 3)
	assert.Equal([]Fragment{{Kind: PositionRef, Offset: 1}}, body.Fragments)
}

func Test_CompileSexp_dollarRefString(t *testing.T) {
	assert := assert.New(t)

	body := CompileSexp(`["+", $1, $3]`, 3)

	var hasLit, hasPos1, hasPos3 bool
	for _, f := range body.Fragments {
		switch f.Kind {
		case Literal:
			hasLit = true
		case PositionRef:
			if f.Offset == 2 {
				hasPos1 = true
			}
			if f.Offset == 0 {
				hasPos3 = true
			}
		}
	}
	assert.True(hasLit)
	assert.True(hasPos1)
	assert.True(hasPos3)
}

func Test_CompileSexp_bareIntRewrite(t *testing.T) {
	assert := assert.New(t)

	// style-2: bare digits rewritten as positions when no $n appears.
	body := CompileSexp(`[1, 2]`, 2)

	var positions []int
	for _, f := range body.Fragments {
		if f.Kind == PositionRef {
			positions = append(positions, f.Offset)
		}
	}
	assert.Equal([]int{1, 0}, positions)
}

func Test_CompileSexp_plainStringWithNoDigits_returnsNull(t *testing.T) {
	assert := assert.New(t)

	body := CompileSexp("hello", 1)
	assert.True(body.ReturnsNull)
}

func Test_CompileSexp_unsupportedType_returnsNull(t *testing.T) {
	assert := assert.New(t)

	body := CompileSexp(3.14, 1)
	assert.True(body.ReturnsNull)
}

func Test_Body_Canon_deduplicatesIdenticalShapes(t *testing.T) {
	assert := assert.New(t)

	a := CompileSexp(`["+", $1, $3]`, 3)
	b := CompileSexp(`["+", $1, $3]`, 3)
	c := CompileSexp(`["-", $1, $3]`, 3)

	assert.Equal(a.Canon(), b.Canon())
	assert.NotEqual(a.Canon(), c.Canon())
}
