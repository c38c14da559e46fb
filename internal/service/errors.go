package service

import (
	"errors"
	"fmt"
)

var (
	// Auth
	ErrUserExists         = errors.New("email or username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Guard
	ErrUnknownActor = errors.New("acting user does not exist")
	ErrUserBlocked  = errors.New("user is blocked")
	ErrNotOwner     = errors.New("not the owner of this listing")

	// Resources
	ErrNotFound      = errors.New("resource not found")
	ErrImageNotFound = errors.New("image not found")
)

// ValidationError reports which client-supplied field or reason failed. It is
// terminal: surfaced to the caller, never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
