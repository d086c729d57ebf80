package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a credential rejected before reaching the gate.
	ErrValidation = errors.New("auth: validation failed")
	// ErrAuthDenied marks credentials the verifier refused.
	ErrAuthDenied = errors.New("auth: invalid credentials")
	// ErrTransient marks an unexpected failure while verifying credentials.
	ErrTransient = errors.New("auth: transient error")
)

const (
	// ReasonInvalidCredentials is the Denied reason for refused credentials.
	ReasonInvalidCredentials = "invalid credentials"
	// ReasonTransient is the Denied reason for timeouts, panics and backend failures.
	ReasonTransient = "transient error"
)

const (
	// MessageInvalidCredentials is shown to the user when credentials are refused.
	MessageInvalidCredentials = "Invalid credentials."
	// MessageTransient is shown to the user for every other failure.
	MessageTransient = "Something went wrong. Please try again."
)

// RedirectKind is the discriminator carried by a RedirectSignal.
const RedirectKind = "redirect"

// RedirectSignal is returned by verifiers whose success path is expressed as
// a navigation instruction. Only Kind == RedirectKind denotes success.
// User is optional: a signal without one signs in the credential's email.
type RedirectSignal struct {
	Kind   string
	Target string
	User   User
}

// Error implements the error interface.
func (s *RedirectSignal) Error() string {
	return fmt.Sprintf("auth: %s signal to %q", s.Kind, s.Target)
}

// IsSuccess reports whether the signal encodes a successful sign in.
func (s *RedirectSignal) IsSuccess() bool {
	return s != nil && s.Kind == RedirectKind
}

// ValidationError wraps FieldErrors so callers can classify it with errors.Is(err, ErrValidation).
type ValidationError struct {
	Fields FieldErrors
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return ErrValidation.Error()
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UserMessage maps a classified error to the text shown on the login form.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return ""
	case errors.Is(err, ErrAuthDenied):
		return MessageInvalidCredentials
	default:
		return MessageTransient
	}
}
