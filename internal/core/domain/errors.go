package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrConflict           = errors.New("conflicting write")
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrResetTokenNotFound = errors.New("password reset token not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
)

// Validation failure reasons. They double as translation keys suffixes in the HTTP layer.
const (
	ReasonRequired   = "required"
	ReasonTooLong    = "tooLong"
	ReasonTooShort   = "tooShort"
	ReasonInvalid    = "invalid"
	ReasonUnknownKey = "unknownKey"
	ReasonInactive   = "inactive"
)

// ValidationError reports a malformed input value. Field is the request-level name
// of the offending field or query parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
