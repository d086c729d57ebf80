package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestIssuer(t *testing.T) *JWTIssuer {
	t.Helper()
	issuer, err := NewJWTIssuer([]byte(strings.Repeat("k", 32)), "acme-dashboard", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTIssuer: %v", err)
	}
	return issuer
}

func TestJWTIssuerRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t)
	token, err := issuer.Issue(context.Background(), DefaultUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	user, err := issuer.VerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if user != DefaultUser {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestJWTIssuerRejectsTamperedToken(t *testing.T) {
	issuer := newTestIssuer(t)
	token, err := issuer.Issue(context.Background(), DefaultUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(token, ".")
	parts[2] = strings.Repeat("A", len(parts[2]))
	if _, err := issuer.VerifyToken(context.Background(), strings.Join(parts, ".")); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWTIssuerRejectsForeignSecret(t *testing.T) {
	issuer := newTestIssuer(t)
	other, err := NewJWTIssuer([]byte(strings.Repeat("z", 32)), "acme-dashboard", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTIssuer: %v", err)
	}
	token, err := other.Issue(context.Background(), DefaultUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.VerifyToken(context.Background(), token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWTIssuerRejectsExpiredToken(t *testing.T) {
	issuer := newTestIssuer(t)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := issuer.Issue(context.Background(), DefaultUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.VerifyToken(context.Background(), token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTIssuerRejectsEmptyInput(t *testing.T) {
	issuer := newTestIssuer(t)
	if _, err := issuer.VerifyToken(context.Background(), ""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := issuer.Issue(context.Background(), User{}); err == nil {
		t.Fatalf("expected error issuing for empty user")
	}
	if _, err := NewJWTIssuer(nil, "x", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
