package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single verification call.
const DefaultTimeout = 5 * time.Second

// Verifier checks a credential against the identity backend.
// ok=false with a nil error means the credentials were refused.
type Verifier interface {
	Verify(ctx context.Context, email, password string) (user User, ok bool, err error)
}

// VerifierFunc adapts a function into a Verifier.
type VerifierFunc func(ctx context.Context, email, password string) (User, bool, error)

// Verify implements Verifier.
func (f VerifierFunc) Verify(ctx context.Context, email, password string) (User, bool, error) {
	return f(ctx, email, password)
}

// TokenIssuer mints the opaque session token for a granted user.
type TokenIssuer interface {
	Issue(ctx context.Context, user User) (string, error)
}

// GateOption customises a Gate.
type GateOption func(*Gate)

// WithTimeout overrides the verification bound. Non-positive values keep the default.
func WithTimeout(d time.Duration) GateOption {
	return func(g *Gate) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets the logger used for authentication events.
func WithLogger(logger *zap.Logger) GateOption {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithTracer overrides the tracer used for authentication spans.
func WithTracer(tracer trace.Tracer) GateOption {
	return func(g *Gate) {
		if tracer != nil {
			g.tracer = tracer
		}
	}
}

// Gate decides whether a validated credential signs the user in.
type Gate struct {
	verifier Verifier
	issuer   TokenIssuer
	timeout  time.Duration
	logger   *zap.Logger
	tracer   trace.Tracer
}

// NewGate constructs a Gate around one verifier and one token issuer.
func NewGate(verifier Verifier, issuer TokenIssuer, opts ...GateOption) *Gate {
	g := &Gate{
		verifier: verifier,
		issuer:   issuer,
		timeout:  DefaultTimeout,
		logger:   zap.NewNop(),
		tracer:   otel.Tracer("github.com/iamplus-mubina/acme-dashboard/internal/dashboard/auth"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type verifyOutcome struct {
	user User
	ok   bool
	err  error
}

// Authenticate returns Granted or Denied. It never panics and never returns
// an error: every failure is folded into Denied{ReasonTransient}.
func (g *Gate) Authenticate(ctx context.Context, cred Credential) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := g.tracer.Start(ctx, "auth.Authenticate", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	start := time.Now()
	result := g.authenticate(ctx, cred)

	fields := []zap.Field{zap.Duration("duration", time.Since(start))}
	switch res := result.(type) {
	case Granted:
		span.SetAttributes(attribute.String("auth.outcome", "granted"), attribute.String("auth.user_id", res.User.ID))
		span.SetStatus(codes.Ok, "granted")
		fields = append(fields, zap.String("outcome", "granted"), zap.String("user_id", res.User.ID))
		if res.RedirectTo != "" {
			fields = append(fields, zap.String("redirect_to", res.RedirectTo))
		}
		g.logger.Info("auth attempt", fields...)
	case Denied:
		span.SetAttributes(attribute.String("auth.outcome", "denied"), attribute.String("auth.reason", res.Reason))
		fields = append(fields, zap.String("outcome", "denied"), zap.String("reason", res.Reason))
		if res.Reason == ReasonTransient {
			span.SetStatus(codes.Error, res.Reason)
			g.logger.Error("auth attempt", fields...)
		} else {
			g.logger.Warn("auth attempt", fields...)
		}
	}
	return result
}

func (g *Gate) authenticate(ctx context.Context, cred Credential) Result {
	if g == nil || g.verifier == nil || g.issuer == nil {
		return Denied{Reason: ReasonTransient}
	}

	verifyCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	// Buffered so the verifier goroutine never blocks after a timeout.
	done := make(chan verifyOutcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- verifyOutcome{err: fmt.Errorf("auth: verifier panic: %v", rec)}
			}
		}()
		user, ok, err := g.verifier.Verify(verifyCtx, cred.Email, cred.Password)
		done <- verifyOutcome{user: user, ok: ok, err: err}
	}()

	var outcome verifyOutcome
	select {
	case outcome = <-done:
	case <-verifyCtx.Done():
		g.logger.Warn("auth verify aborted", zap.Error(verifyCtx.Err()))
		return Denied{Reason: ReasonTransient}
	}

	user := outcome.user
	redirectTo := ""
	if outcome.err != nil {
		var signal *RedirectSignal
		if !errors.As(outcome.err, &signal) || !signal.IsSuccess() {
			g.logger.Error("auth verify failed", zap.Error(outcome.err))
			return Denied{Reason: ReasonTransient}
		}
		redirectTo = signal.Target
		user = signalUser(user, signal, cred)
	} else if !outcome.ok {
		return Denied{Reason: ReasonInvalidCredentials}
	}

	if user.ID == "" {
		g.logger.Error("auth verify returned no user")
		return Denied{Reason: ReasonTransient}
	}

	token, err := g.issue(ctx, user)
	if err != nil {
		g.logger.Error("auth token issue failed", zap.Error(err))
		return Denied{Reason: ReasonTransient}
	}
	return Granted{User: user, Token: token, RedirectTo: redirectTo}
}

// signalUser picks the identity for a success signal: the returned user, then
// the signal's user, then the submitted email.
func signalUser(returned User, signal *RedirectSignal, cred Credential) User {
	if returned.ID != "" {
		return returned
	}
	if signal.User.ID != "" {
		return signal.User
	}
	return User{ID: cred.Email, Email: cred.Email}
}

func (g *Gate) issue(ctx context.Context, user User) (token string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("auth: token issuer panic: %v", rec)
		}
	}()
	return g.issuer.Issue(ctx, user)
}
