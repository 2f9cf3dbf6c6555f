package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrors(t *testing.T) {
	err := NewAssetNotFound("AAPL")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsDuplicateKey(err))
	assert.Contains(t, err.Error(), "AAPL")
	assert.Contains(t, err.Error(), string(ErrorTypeNotFound))

	dup := NewDuplicateRelationship("r1")
	assert.True(t, IsDuplicateKey(dup))

	val := NewValidation("colors", "must be #rrggbb")
	assert.True(t, IsValidation(val))
	assert.Equal(t, "colors", val.Field)
}

func TestIsErrorType_Wrapped(t *testing.T) {
	inner := NewAssetNotFound("AAPL")
	wrapped := fmt.Errorf("loading graph: %w", inner)
	assert.True(t, IsNotFound(wrapped))

	query := NewGraphQueryFailed("fetch assets", fmt.Errorf("boom"))
	assert.True(t, IsErrorType(query, ErrorTypeGraph))
	assert.False(t, IsNotFound(query))
}

func TestIsErrorType_NilAndPlain(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsValidation(fmt.Errorf("plain error")))
}

func TestBaseError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewGraphConnectionFailed("bolt://localhost:7687", cause)
	assert.ErrorIs(t, err, cause)
}
