package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/auth"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/customers"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/httpserver"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/invoices"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/login"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/overview"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/seed"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/session"
)

// Test credentials accepted by the default gate.
const (
	Email          = "user@nextmail.com"
	Password       = "123456"
	CSRFCookieName = "dashboard_csrf"
)

var (
	hashKey     = []byte("0123456789abcdef0123456789abcdef")
	blockKey    = []byte("fedcba9876543210fedcba9876543210")
	tokenSecret = []byte("test-token-secret-test-token-secret")
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithGate overrides the login gate.
func WithGate(gate login.Authenticator) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Gate = gate
	}
}

// WithOverviewService wires a custom overview service implementation.
func WithOverviewService(service overview.Service) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.OverviewService = service
	}
}

// WithInvoicesService wires a custom invoices service implementation.
func WithInvoicesService(service invoices.Service) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.InvoicesService = service
	}
}

// WithEnvironment sets the environment label shown in the navigation badge.
func WithEnvironment(env string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Environment = env
	}
}

// NewServer constructs an httptest server running the dashboard HTTP stack
// over the seeded in-memory data and a gate accepting Email/Password.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	sessions, err := session.NewManager(session.Config{
		HashKey:     hashKey,
		BlockKey:    blockKey,
		IdleTimeout: 30 * time.Minute,
	})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	issuer, err := auth.NewJWTIssuer(tokenSecret, "acme-dashboard-test", time.Hour)
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}
	user := auth.DefaultUser
	user.Email = Email
	gate := auth.NewGate(auth.NewStaticVerifier(user, Password), issuer)

	ds := seed.MustLoad()
	inv := invoices.NewStaticService(ds)
	cust := customers.NewStaticService(ds, inv, 0)

	cfg := httpserver.Config{
		Address:          ":0",
		Environment:      "development",
		Sessions:         sessions,
		Gate:             gate,
		Tokens:           issuer,
		CSRFCookieName:   CSRFCookieName,
		RedirectDelay:    login.DefaultRedirectDelay,
		OverviewService:  overview.NewStaticService(ds, inv, cust, 0),
		InvoicesService:  inv,
		CustomersService: cust,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		t.Fatalf("httpserver.New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
