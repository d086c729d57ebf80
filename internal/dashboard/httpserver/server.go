package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/auth"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/customers"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/guard"
	custommw "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/httpserver/middleware"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/httpserver/ui"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/invoices"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/login"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/overview"
	"github.com/iamplus-mubina/acme-dashboard/internal/platform/httpx"
	"github.com/iamplus-mubina/acme-dashboard/internal/platform/observability"
	"github.com/iamplus-mubina/acme-dashboard/public"
)

const (
	defaultRequestTimeout = 60 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultIdleTimeout    = 60 * time.Second
)

// Config holds runtime options for the dashboard HTTP server.
type Config struct {
	Address     string
	Environment string
	Logger      *zap.Logger

	Sessions custommw.SessionStore
	Gate     login.Authenticator
	Tokens   auth.TokenVerifier

	CSRFCookieName   string
	CSRFCookieSecure bool
	CSRFHeaderName   string

	// RedirectDelay is how long the login form shows its success state before navigating.
	RedirectDelay time.Duration

	OverviewService  overview.Service
	InvoicesService  invoices.Service
	CustomersService customers.Service
	PageSize         int

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("httpserver: session store is required")
	}
	if cfg.Gate == nil {
		return nil, fmt.Errorf("httpserver: login gate is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("httpserver: token verifier is required")
	}
	logger := observability.OrNop(cfg.Logger)

	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("embed static: %w", err)
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.TraceMiddleware())
	router.Use(observability.InjectLoggerMiddleware(logger))
	router.Use(custommw.Session(cfg.Sessions))
	router.Use(observability.RequestLoggerMiddleware(custommw.SessionUserID))
	router.Use(observability.RecoveryMiddleware(logger))
	router.Use(chimw.Timeout(durationOr(cfg.RequestTimeout, defaultRequestTimeout)))
	router.Use(custommw.HTMX())
	router.Use(custommw.RequestInfoMiddleware())
	router.Use(custommw.Environment(cfg.Environment))
	router.Use(custommw.NoStore())
	router.Use(custommw.CSRF(custommw.CSRFConfig{
		CookieName: cfg.CSRFCookieName,
		HeaderName: cfg.CSRFHeaderName,
		Secure:     cfg.CSRFCookieSecure,
	}))
	router.Use(custommw.Identity(cfg.Tokens))
	router.Use(guard.Middleware(custommw.SessionState, guard.WithLogger(logger)))

	router.Handle("/public/static/*", http.StripPrefix("/public/static/", http.FileServer(http.FS(staticContent))))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	pages := ui.NewHandlers(ui.Dependencies{
		OverviewService:  cfg.OverviewService,
		InvoicesService:  cfg.InvoicesService,
		CustomersService: cfg.CustomersService,
		PageSize:         cfg.PageSize,
	})
	authh := newAuthHandlers(cfg.Gate, cfg.RedirectDelay)

	mountRoutes(router, pages, authh)

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  durationOr(cfg.ReadTimeout, defaultReadTimeout),
		WriteTimeout: durationOr(cfg.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:  durationOr(cfg.IdleTimeout, defaultIdleTimeout),
	}, nil
}

func mountRoutes(router chi.Router, pages *ui.Handlers, authh *authHandlers) {
	router.Get("/", pages.Landing)
	router.Get(guard.LoginPath, authh.LoginForm)
	router.Post(guard.LoginPath, authh.LoginSubmit)

	router.Route(guard.ProtectedPrefix, func(r chi.Router) {
		r.Get("/", pages.Overview)
		r.Post("/logout", authh.Logout)

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", pages.InvoicesPage)
			r.Get("/create", pages.InvoiceCreateForm)
			r.Post("/create", pages.InvoiceCreate)
			r.Get("/{invoiceID}/edit", pages.InvoiceEditForm)
			r.Post("/{invoiceID}/edit", pages.InvoiceUpdate)
			r.Post("/{invoiceID}/delete", pages.InvoiceDelete)
		})

		r.Get("/customers", pages.CustomersPage)
		r.NotFound(pages.NotFound)
	})

	router.NotFound(pages.NotFound)
}

func durationOr(value, fallback time.Duration) time.Duration {
	if value > 0 {
		return value
	}
	return fallback
}
