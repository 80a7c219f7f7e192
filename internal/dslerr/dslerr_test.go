package dslerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindsFormatMessage(t *testing.T) {
	assert.Contains(t, NewSyntaxError(3, 7, "unexpected %q", "x").Error(), "3:7")
	assert.Contains(t, NewInvalidRuleError("bad rule").Error(), "invalid rule: bad rule")
	assert.Contains(t, NewUnknownColumnError("no such col").Error(), "unknown column: no such col")
	assert.Contains(t, NewUnknownReferenceError("no such ref").Error(), "unknown reference: no such ref")
	assert.Contains(t, NewGenerationError("boom").Error(), "generation error: boom")
}

func TestSyntaxErrorWithoutPositionOmitsCoordinates(t *testing.T) {
	err := NewSyntaxError(0, 0, "top-level failure")
	assert.Equal(t, "syntax error: top-level failure", err.Error())
}

func TestWrapSyntaxPreservesCause(t *testing.T) {
	cause := errors.New("underlying")
	err := WrapSyntax(cause, 1, 1, "wrapped")
	assert.Error(t, err.Unwrap())
}

func TestWrapNilIsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "msg"))
}

func TestWrapAttachesMessage(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := Wrap(cause, "context")
	assert.Contains(t, wrapped.Error(), "context")
	assert.Contains(t, wrapped.Error(), "root cause")
}
