package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomError_WrapsSentinel(t *testing.T) {
	err := fmt.Errorf("delete material 7: %w", NewForbiddenError("You can only delete your own materials"))

	assert.True(t, errors.Is(err, ErrPermissionDenied))
	assert.False(t, errors.Is(err, ErrResourceNotFound))

	msg, ok := UserMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "You can only delete your own materials", msg)
}

func TestUserMessage_PlainError(t *testing.T) {
	_, ok := UserMessage(ErrGone)
	assert.False(t, ok)
}

func TestIs_List(t *testing.T) {
	err := NewCustomError(ErrEmailAlreadyExists, "taken")
	assert.True(t, Is(err, ErrIdentifierExists, ErrEmailAlreadyExists))
	assert.False(t, Is(err, ErrIdentifierExists, ErrMaterialNotFound))
}

func TestCustomError_ErrorFallbacks(t *testing.T) {
	assert.Equal(t, "file too large", (&CustomError{Err: ErrFileTooLarge}).Error())
	assert.Equal(t, "unknown error", (&CustomError{}).Error())
	assert.Equal(t, "AUTH_001", NewCustomError(ErrInvalidCredentials, "x").WithCode("AUTH_001").Code)
}
