package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(ErrValidation("bad input")))
	assert.Equal(t, KindNotFound, KindOf(ErrNotFound("order %s not found", "x")))
	assert.Equal(t, KindStateConflict, KindOf(ErrStateConflict("conflict")))
	assert.Equal(t, KindInsufficientFunds, KindOf(ErrInsufficientFunds("broke")))

	// Wrapped typed errors still classify.
	wrapped := fmt.Errorf("confirm order: %w", ErrStateConflict("not pending"))
	assert.Equal(t, KindStateConflict, KindOf(wrapped))

	// Untyped errors default to internal.
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestErrorIs_MatchesOnKind(t *testing.T) {
	err := ErrInsufficientFunds("balance 100 cannot cover 200")
	assert.True(t, errors.Is(err, &Error{Kind: KindInsufficientFunds}))
	assert.False(t, errors.Is(err, &Error{Kind: KindNotFound}))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrExternalDependency("payment gateway unavailable", cause)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "EXTERNAL_DEPENDENCY")
	assert.Contains(t, err.Error(), "connection refused")
}
