package account

import (
	"errors"
	"fmt"
)

var (
	errFailedHashPassword    = errors.New("failed to hash password")
	errFailedCreateToken     = errors.New("error create token")
	errFailedPasswordOrEmail = errors.New("failed password or email")
	errEmailTaken            = errors.New("email already registered")
	errInvalidInvite         = errors.New("invite code is invalid")
	errUserNotFound          = errors.New("user not found")
	errProfileNotFound       = errors.New("profile not found")
)

// ValidationError carries per-field messages for structural input
// failures; it is never collapsed into a generic message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// ConflictError is a unique-constraint violation translated to the
// field it concerns, so duplicate tax IDs and duplicate emails report
// differently.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}
