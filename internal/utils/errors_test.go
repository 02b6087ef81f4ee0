package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		kind     ErrorKind
		message  string
	}{
		{"not found", NewNotFoundError("driver"), KindNotFound, "driver not found"},
		{"unauthorized", NewUnauthorizedError("invalid credentials"), KindUnauthorized, "invalid credentials"},
		{"forbidden", NewForbiddenError("nope"), KindForbidden, "nope"},
		{"validation", NewValidationError("bad input"), KindValidation, "bad input"},
		{"conflict", NewConflictError("duplicate"), KindConflict, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestNewInternalError_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError(cause)

	assert.Equal(t, KindInternal, err.Kind)
	assert.ErrorIs(t, err, cause)
	// The cause stays in the Error output for logs but the message is generic.
	assert.Contains(t, err.Error(), ErrInternalServer)
}

func TestNewComplianceError_CarriesDetails(t *testing.T) {
	details := map[string]bool{"compliant": false}
	err := NewComplianceError("driver is not compliant", details)

	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, details, err.Details.(map[string]bool))
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(NewNotFoundError("vehicle"))
	assert.True(t, ok)
	assert.Equal(t, KindNotFound, appErr.Kind)

	// Works through wrapping.
	wrapped := fmt.Errorf("handler: %w", NewConflictError("dup"))
	appErr, ok = AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindConflict, appErr.Kind)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}
