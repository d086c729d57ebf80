package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/auth"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/guard"
	"github.com/iamplus-mubina/acme-dashboard/internal/platform/requestctx"
)

type authContextKey string

const (
	userContextKey  authContextKey = "auth.user"
	stateContextKey authContextKey = "auth.state"
)

// User represents the signed-in account for templates and handlers.
type User struct {
	ID    string
	Name  string
	Email string
}

const (
	// ReasonNoSession indicates a request without a signed-in session.
	ReasonNoSession = "no_session"
	// ReasonTokenInvalid indicates a session token that failed verification.
	ReasonTokenInvalid = "token_invalid"
	// ReasonTokenExpired indicates the session token outlived its TTL.
	ReasonTokenExpired = "token_expired"
	// ReasonUndetermined indicates the session could not be read or verified.
	ReasonUndetermined = "undetermined"
)

// Identity resolves the session into a guard.SessionState and, when present,
// attaches the User to the context. It never rejects a request itself.
func Identity(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, user, reason := resolveIdentity(r, verifier)
			logger := requestctx.Logger(r.Context())
			if reason != "" && reason != ReasonNoSession {
				logger.Info("session not accepted", zap.String("reason", reason), zap.Stringer("state", state))
			}

			ctx := context.WithValue(r.Context(), stateContextKey, state)
			if user != nil {
				ctx = ContextWithUser(ctx, user)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveIdentity(r *http.Request, verifier auth.TokenVerifier) (guard.SessionState, *User, string) {
	if SessionLoadError(r.Context()) != nil {
		return guard.SessionUnknown, nil, ReasonUndetermined
	}
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		return guard.SessionUnknown, nil, ReasonUndetermined
	}
	if !sess.Authenticated() {
		return guard.SessionAbsent, nil, ReasonNoSession
	}
	if verifier == nil {
		return guard.SessionUnknown, nil, ReasonUndetermined
	}

	verified, err := verifier.VerifyToken(r.Context(), sess.Token())
	switch {
	case err == nil:
		if verified.ID != sess.User().ID {
			sess.SignOut()
			return guard.SessionAbsent, nil, ReasonTokenInvalid
		}
		return guard.SessionPresent, &User{ID: verified.ID, Name: verified.Name, Email: verified.Email}, ""
	case errors.Is(err, auth.ErrTokenExpired):
		sess.SignOut()
		return guard.SessionAbsent, nil, ReasonTokenExpired
	case errors.Is(err, auth.ErrTokenInvalid):
		sess.SignOut()
		return guard.SessionAbsent, nil, ReasonTokenInvalid
	default:
		return guard.SessionUnknown, nil, ReasonUndetermined
	}
}

// SessionState is a guard.StateFunc reading the state resolved by Identity.
// Requests that did not pass through Identity report SessionUnknown.
func SessionState(r *http.Request) guard.SessionState {
	if state, ok := r.Context().Value(stateContextKey).(guard.SessionState); ok {
		return state
	}
	return guard.SessionUnknown
}

// ContextWithUser attaches the user to the context.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated user if present.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok && user != nil
}

// SessionUserID returns the user stored in the request session for request
// logging. It reads the session pointer, so sign in and sign out performed by
// the handler are visible once the handler returns.
func SessionUserID(ctx context.Context) string {
	sess, ok := SessionFromContext(ctx)
	if !ok || sess.Destroyed() || sess.User() == nil {
		return ""
	}
	return sess.User().ID
}
