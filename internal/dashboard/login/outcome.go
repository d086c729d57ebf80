package login

import (
	"context"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/auth"
)

// Outcome is the result of one submission: Granted, Redirected, Denied or Invalid.
type Outcome interface {
	isOutcome()
}

// Granted means the credentials were accepted; Target may be empty.
type Granted struct {
	Target string
}

// Redirected means the backend answered with an explicit navigation target.
type Redirected struct {
	Target string
}

// Denied means the credentials were refused or verification failed.
type Denied struct {
	Reason  string
	Message string
}

// Invalid means the backend rejected the shape of the input.
type Invalid struct {
	FieldErrors auth.FieldErrors
}

func (Granted) isOutcome()    {}
func (Redirected) isOutcome() {}
func (Denied) isOutcome()     {}
func (Invalid) isOutcome()    {}

func transientDenied() Denied {
	return Denied{Reason: auth.ReasonTransient, Message: auth.MessageTransient}
}

// Submitter sends a validated credential to the authentication backend.
type Submitter interface {
	Submit(ctx context.Context, cred auth.Credential, callbackURL string) Outcome
}

// SubmitterFunc adapts a function into a Submitter.
type SubmitterFunc func(ctx context.Context, cred auth.Credential, callbackURL string) Outcome

// Submit implements Submitter.
func (f SubmitterFunc) Submit(ctx context.Context, cred auth.Credential, callbackURL string) Outcome {
	return f(ctx, cred, callbackURL)
}

// Authenticator is the subset of auth.Gate used in-process.
type Authenticator interface {
	Authenticate(ctx context.Context, cred auth.Credential) auth.Result
}

// GateSubmitter submits to an in-process gate.
type GateSubmitter struct {
	Gate Authenticator
	// OnGranted receives the granted result, e.g. to persist the session.
	OnGranted func(ctx context.Context, granted auth.Granted) error
}

// Submit implements Submitter.
func (s GateSubmitter) Submit(ctx context.Context, cred auth.Credential, callbackURL string) Outcome {
	if s.Gate == nil {
		return transientDenied()
	}
	switch res := s.Gate.Authenticate(ctx, cred).(type) {
	case auth.Granted:
		if s.OnGranted != nil {
			if err := s.OnGranted(ctx, res); err != nil {
				return transientDenied()
			}
		}
		if res.RedirectTo != "" {
			return Redirected{Target: res.RedirectTo}
		}
		return Granted{Target: callbackURL}
	case auth.Denied:
		return Denied{Reason: res.Reason, Message: res.Message()}
	default:
		return transientDenied()
	}
}
