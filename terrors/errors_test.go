package terrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	e := New("temporal.NewSequence", ShapeViolation, errors.New("timestamps not strictly increasing"))
	assert.Contains(t, e.Error(), "SHAPE_VIOLATION")
	assert.Contains(t, e.Error(), "timestamps not strictly increasing")
}

func TestIs(t *testing.T) {
	e := Newf("basetype.Eq", TypeMismatch, "int32 vs float64")
	assert.True(t, Is(e, TypeMismatch))
	assert.False(t, Is(e, NotFound))
	assert.False(t, Is(errors.New("plain"), TypeMismatch))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := New("op", DomainError, cause)
	assert.Same(t, cause, errors.Unwrap(e))
}
