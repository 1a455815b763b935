package icterrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grammar_formatsMessage(t *testing.T) {
	assert := assert.New(t)

	err := Grammar("no start symbol %q", "E")
	assert.EqualError(err, `no start symbol "E"`)
}

func Test_WrapGrammar_unwrapsToOriginal(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("disk full")
	err := WrapGrammar(cause, "write cache database")

	assert.EqualError(err, "write cache database")
	assert.ErrorIs(err, cause)
}

func Test_Conflict_formatsMessage(t *testing.T) {
	assert := assert.New(t)

	err := Conflict("state %d: reduce/reduce on rule %d", 4, 2)
	assert.EqualError(err, "state 4: reduce/reduce on rule 2")
}

func Test_NewSyntaxErrorFromToken_includesPositionAndFields(t *testing.T) {
	assert := assert.New(t)

	err := NewSyntaxErrorFromToken("unexpected token", 3, 7, "+", []string{"id", "("})

	var se *SyntaxError
	assert.ErrorAs(err, &se)
	assert.Equal("+", se.Token)
	assert.Equal(3, se.Line)
	assert.Equal(7, se.LinePos)
	assert.Equal([]string{"id", "("}, se.Expected)
	assert.Contains(err.Error(), "line 3")
	assert.Contains(err.Error(), "col 7")
}
