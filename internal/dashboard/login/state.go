// Package login drives the sign-in form: local validation, one in-flight
// submission at a time, and a single delayed navigation after success.
package login

import "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/auth"

// Status is the phase of the login form.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSuccess
	StatusError
	StatusRedirecting
	StatusNavigated
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusRedirecting:
		return "redirecting"
	case StatusNavigated:
		return "navigated"
	default:
		return "unknown"
	}
}

// InputsDisabled reports whether the form inputs are locked in this phase.
func (s Status) InputsDisabled() bool {
	switch s {
	case StatusSubmitting, StatusSuccess, StatusRedirecting, StatusNavigated:
		return true
	default:
		return false
	}
}

// State is a snapshot of the form.
type State struct {
	Status      Status
	Message     string
	FieldErrors auth.FieldErrors
	// Target is the navigation destination once the submission succeeded.
	Target string
	// Submission counts accepted submissions; 0 before the first one.
	Submission uint64
}

func (s State) clone() State {
	if s.FieldErrors != nil {
		copied := make(auth.FieldErrors, len(s.FieldErrors))
		for field, msgs := range s.FieldErrors {
			copied[field] = append([]string(nil), msgs...)
		}
		s.FieldErrors = copied
	}
	return s
}
