package auth

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type countingIssuer struct {
	calls atomic.Int32
	err   error
}

func (c *countingIssuer) Issue(_ context.Context, user User) (string, error) {
	n := c.calls.Add(1)
	if c.err != nil {
		return "", c.err
	}
	return user.ID + "-token-" + string(rune('0'+n)), nil
}

func newTestGate(t *testing.T, verifier Verifier, opts ...GateOption) (*Gate, *countingIssuer) {
	t.Helper()
	issuer := &countingIssuer{}
	return NewGate(verifier, issuer, opts...), issuer
}

func referenceVerifier() Verifier {
	return NewStaticVerifier(DefaultUser, "123456")
}

func TestGateGrantsConfiguredCredential(t *testing.T) {
	gate, issuer := newTestGate(t, referenceVerifier())

	res := gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "123456"})
	granted, ok := res.(Granted)
	if !ok {
		t.Fatalf("expected Granted, got %#v", res)
	}
	if granted.User != DefaultUser {
		t.Fatalf("unexpected user %+v", granted.User)
	}
	if granted.Token == "" {
		t.Fatalf("expected token")
	}
	if granted.RedirectTo != "" {
		t.Fatalf("unexpected redirect %q", granted.RedirectTo)
	}
	if issuer.calls.Load() != 1 {
		t.Fatalf("expected one issue call, got %d", issuer.calls.Load())
	}
}

func TestGateDeniesWrongPassword(t *testing.T) {
	gate, issuer := newTestGate(t, referenceVerifier())

	res := gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "wrong"})
	denied, ok := res.(Denied)
	if !ok {
		t.Fatalf("expected Denied, got %#v", res)
	}
	if denied.Reason != "invalid credentials" {
		t.Fatalf("unexpected reason %q", denied.Reason)
	}
	if !errors.Is(denied.Err(), ErrAuthDenied) {
		t.Fatalf("expected ErrAuthDenied, got %v", denied.Err())
	}
	if denied.Message() != "Invalid credentials." {
		t.Fatalf("unexpected message %q", denied.Message())
	}
	if issuer.calls.Load() != 0 {
		t.Fatalf("issuer must not be called on denial")
	}
}

func TestGateDeniesUnknownEmail(t *testing.T) {
	gate, _ := newTestGate(t, referenceVerifier())
	res := gate.Authenticate(context.Background(), Credential{Email: "someone@nextmail.com", Password: "123456"})
	if denied, ok := res.(Denied); !ok || denied.Reason != ReasonInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %#v", res)
	}
}

func TestGateEmailMatchIsCaseSensitive(t *testing.T) {
	gate, issuer := newTestGate(t, referenceVerifier())
	for _, email := range []string{"USER@nextmail.com", "User@NextMail.com", " user@nextmail.com"} {
		res := gate.Authenticate(context.Background(), Credential{Email: email, Password: "123456"})
		if denied, ok := res.(Denied); !ok || denied.Reason != ReasonInvalidCredentials {
			t.Fatalf("%q: expected invalid credentials, got %#v", email, res)
		}
	}
	if issuer.calls.Load() != 0 {
		t.Fatalf("expected no token issuance, got %d", issuer.calls.Load())
	}
}

func TestGateIsIdempotent(t *testing.T) {
	gate, issuer := newTestGate(t, referenceVerifier())
	cred := Credential{Email: "user@nextmail.com", Password: "123456"}

	first, ok := gate.Authenticate(context.Background(), cred).(Granted)
	if !ok {
		t.Fatalf("first call not granted")
	}
	second, ok := gate.Authenticate(context.Background(), cred).(Granted)
	if !ok {
		t.Fatalf("second call not granted")
	}
	if first.User != second.User {
		t.Fatalf("users differ: %+v vs %+v", first.User, second.User)
	}
	if issuer.calls.Load() != 2 {
		t.Fatalf("expected token issuance per call, got %d", issuer.calls.Load())
	}
}

func TestGateTimeoutIsTransient(t *testing.T) {
	blocking := VerifierFunc(func(ctx context.Context, _, _ string) (User, bool, error) {
		<-ctx.Done()
		return User{}, false, ctx.Err()
	})
	gate, _ := newTestGate(t, blocking, WithTimeout(20*time.Millisecond))

	start := time.Now()
	res := gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "123456"})
	if denied, ok := res.(Denied); !ok || denied.Reason != ReasonTransient {
		t.Fatalf("expected transient denial, got %#v", res)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("timeout not enforced, took %s", elapsed)
	}
}

func TestGateTimeoutIgnoredByVerifier(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	stubborn := VerifierFunc(func(context.Context, string, string) (User, bool, error) {
		<-release
		return DefaultUser, true, nil
	})
	gate, issuer := newTestGate(t, stubborn, WithTimeout(10*time.Millisecond))

	res := gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "123456"})
	if denied, ok := res.(Denied); !ok || denied.Reason != ReasonTransient {
		t.Fatalf("expected transient denial, got %#v", res)
	}
	if issuer.calls.Load() != 0 {
		t.Fatalf("issuer must not run after timeout")
	}
}

func TestGateContainsVerifierPanic(t *testing.T) {
	panicking := VerifierFunc(func(context.Context, string, string) (User, bool, error) {
		panic("backend exploded")
	})
	gate, _ := newTestGate(t, panicking)

	res := gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "123456"})
	denied, ok := res.(Denied)
	if !ok || denied.Reason != ReasonTransient {
		t.Fatalf("expected transient denial, got %#v", res)
	}
	if denied.Message() != "Something went wrong. Please try again." {
		t.Fatalf("unexpected message %q", denied.Message())
	}
}

func TestGateVerifierErrorIsTransient(t *testing.T) {
	failing := VerifierFunc(func(context.Context, string, string) (User, bool, error) {
		return User{}, false, errors.New("connection refused")
	})
	gate, _ := newTestGate(t, failing)
	res := gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "123456"})
	if denied, ok := res.(Denied); !ok || !errors.Is(denied.Err(), ErrTransient) {
		t.Fatalf("expected transient denial, got %#v", res)
	}
}

func TestGateReclassifiesRedirectSignal(t *testing.T) {
	signalling := VerifierFunc(func(context.Context, string, string) (User, bool, error) {
		return DefaultUser, false, &RedirectSignal{Kind: RedirectKind, Target: "/dashboard/invoices"}
	})
	gate, issuer := newTestGate(t, signalling)

	res := gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "123456"})
	granted, ok := res.(Granted)
	if !ok {
		t.Fatalf("expected Granted, got %#v", res)
	}
	if granted.RedirectTo != "/dashboard/invoices" {
		t.Fatalf("unexpected redirect %q", granted.RedirectTo)
	}
	if issuer.calls.Load() != 1 {
		t.Fatalf("expected token issuance")
	}
}

func TestGateRedirectSignalWithoutUser(t *testing.T) {
	signalling := VerifierFunc(func(context.Context, string, string) (User, bool, error) {
		return User{}, false, &RedirectSignal{Kind: RedirectKind, Target: "/dashboard"}
	})
	gate, issuer := newTestGate(t, signalling)

	res := gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "123456"})
	granted, ok := res.(Granted)
	if !ok {
		t.Fatalf("expected Granted, got %#v", res)
	}
	if granted.User.Email != "user@nextmail.com" || granted.User.ID == "" {
		t.Fatalf("expected identity from the credential, got %+v", granted.User)
	}
	if granted.RedirectTo != "/dashboard" || granted.Token == "" {
		t.Fatalf("unexpected grant %#v", granted)
	}
	if issuer.calls.Load() != 1 {
		t.Fatalf("expected token issuance")
	}
}

func TestGateRedirectSignalCarriesUser(t *testing.T) {
	signalling := VerifierFunc(func(context.Context, string, string) (User, bool, error) {
		return User{}, false, &RedirectSignal{Kind: RedirectKind, Target: "/dashboard", User: DefaultUser}
	})
	gate, _ := newTestGate(t, signalling)

	res := gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "123456"})
	granted, ok := res.(Granted)
	if !ok {
		t.Fatalf("expected Granted, got %#v", res)
	}
	if granted.User != DefaultUser {
		t.Fatalf("expected signal user, got %+v", granted.User)
	}
}

func TestGateRejectsNonRedirectSignalKinds(t *testing.T) {
	for _, kind := range []string{"not-found", "", "Redirect"} {
		signalling := VerifierFunc(func(context.Context, string, string) (User, bool, error) {
			return DefaultUser, false, &RedirectSignal{Kind: kind, Target: "/dashboard"}
		})
		gate, _ := newTestGate(t, signalling)
		res := gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "123456"})
		if denied, ok := res.(Denied); !ok || denied.Reason != ReasonTransient {
			t.Fatalf("kind %q: expected transient denial, got %#v", kind, res)
		}
	}
}

func TestGateWrappedRedirectSignal(t *testing.T) {
	signalling := VerifierFunc(func(context.Context, string, string) (User, bool, error) {
		return DefaultUser, false, errors.Join(errors.New("navigation"), &RedirectSignal{Kind: RedirectKind, Target: "/dashboard"})
	})
	gate, _ := newTestGate(t, signalling)
	res := gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "123456"})
	if _, ok := res.(Granted); !ok {
		t.Fatalf("expected Granted, got %#v", res)
	}
}

func TestGateIssuerFailureIsTransient(t *testing.T) {
	issuer := &countingIssuer{err: errors.New("signing key unavailable")}
	gate := NewGate(referenceVerifier(), issuer)
	res := gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "123456"})
	if denied, ok := res.(Denied); !ok || denied.Reason != ReasonTransient {
		t.Fatalf("expected transient denial, got %#v", res)
	}
}

func TestGateWithoutDependenciesIsTransient(t *testing.T) {
	gate := NewGate(nil, nil)
	res := gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "123456"})
	if denied, ok := res.(Denied); !ok || denied.Reason != ReasonTransient {
		t.Fatalf("expected transient denial, got %#v", res)
	}
}

func TestGateLogsOutcomeWithoutSecrets(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gate, _ := newTestGate(t, referenceVerifier(), WithLogger(zap.New(core)))

	gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "123456"})
	gate.Authenticate(context.Background(), Credential{Email: "user@nextmail.com", Password: "hunter22"})

	entries := logs.FilterMessage("auth attempt").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 auth events, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["outcome"]; got != "granted" {
		t.Fatalf("unexpected first outcome %v", got)
	}
	if got := entries[1].ContextMap()["reason"]; got != ReasonInvalidCredentials {
		t.Fatalf("unexpected second reason %v", got)
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level for denial, got %s", entries[1].Level)
	}
	for _, entry := range logs.All() {
		for _, value := range entry.ContextMap() {
			if s, ok := value.(string); ok && (strings.Contains(s, "123456") || strings.Contains(s, "hunter22")) {
				t.Fatalf("password leaked into log entry %+v", entry)
			}
		}
	}
}
