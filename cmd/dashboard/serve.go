package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/auth"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/customers"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/httpserver"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/invoices"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/overview"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/seed"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/session"
	"github.com/iamplus-mubina/acme-dashboard/internal/platform/config"
	"github.com/iamplus-mubina/acme-dashboard/internal/platform/observability"
)

type serveConfig struct {
	envFile string
	addr    string
}

func newServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP server",
		Long: `Start the dashboard HTTP server. Configuration is read from DASHBOARD_*
environment variables and an optional .env file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.envFile, "env-file", ".env", "dotenv file with local overrides")
	cmd.Flags().StringVar(&cfg.addr, "addr", "", "listen address (overrides DASHBOARD_HTTP_ADDR)")

	return cmd
}

func runServe(ctx context.Context, cfg *serveConfig) error {
	conf, err := config.Load(ctx, config.WithEnvFile(cfg.envFile))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.addr != "" {
		conf.Server.Address = cfg.addr
	}

	logger, err := observability.NewLogger(conf.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	srv, err := buildServer(conf, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dashboard listening",
			zap.String("addr", conf.Server.Address),
			zap.String("environment", conf.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	logger.Info("dashboard shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// buildServer wires configuration, seed data and the HTTP stack.
func buildServer(conf config.Config, logger *zap.Logger) (*http.Server, error) {
	keys := resolveKeys(conf, logger)

	sessions, err := session.NewManager(session.Config{
		CookieName:   conf.Session.CookieName,
		HashKey:      keys.hash,
		BlockKey:     keys.block,
		CookieSecure: conf.Session.Secure,
		IdleTimeout:  conf.Session.IdleTimeout,
		Lifetime:     conf.Session.Lifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("session manager: %w", err)
	}

	issuer, err := auth.NewJWTIssuer(keys.token, conf.Token.Issuer, conf.Token.TTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	ds, err := seed.Load()
	if err != nil {
		return nil, fmt.Errorf("load seed data: %w", err)
	}

	gate := auth.NewGate(
		auth.NewStaticVerifier(accountFor(ds, conf.Auth.Email), conf.Auth.Password),
		issuer,
		auth.WithTimeout(conf.Auth.Timeout),
		auth.WithLogger(logger.Named("auth")),
	)

	inv := invoices.NewStaticService(ds,
		invoices.WithLatency(conf.Data.Latency),
		invoices.WithLogger(logger.Named("invoices")),
	)
	cust := customers.NewStaticService(ds, inv, conf.Data.Latency)

	return httpserver.New(httpserver.Config{
		Address:          conf.Server.Address,
		Environment:      conf.Environment,
		Logger:           logger,
		Sessions:         sessions,
		Gate:             gate,
		Tokens:           issuer,
		CSRFCookieName:   conf.CSRF.CookieName,
		CSRFCookieSecure: conf.CSRF.Secure,
		RedirectDelay:    conf.Auth.RedirectDelay,
		OverviewService:  overview.NewStaticService(ds, inv, cust, conf.Data.Latency),
		InvoicesService:  inv,
		CustomersService: cust,
		PageSize:         conf.Data.PageSize,
		ReadTimeout:      conf.Server.ReadTimeout,
		WriteTimeout:     conf.Server.WriteTimeout,
		IdleTimeout:      conf.Server.IdleTimeout,
	})
}

type keySet struct {
	hash  []byte
	block []byte
	token []byte
}

// resolveKeys uses the configured secrets and generates ephemeral ones for
// anything left empty. Production configs are rejected earlier when empty.
func resolveKeys(conf config.Config, logger *zap.Logger) keySet {
	keys := keySet{
		hash:  []byte(conf.Session.HashKey),
		block: []byte(conf.Session.BlockKey),
		token: []byte(conf.Token.Secret),
	}
	var generated []string
	if len(keys.hash) == 0 {
		keys.hash = securecookie.GenerateRandomKey(32)
		generated = append(generated, "session hash key")
	}
	if len(keys.block) == 0 {
		keys.block = securecookie.GenerateRandomKey(32)
		generated = append(generated, "session block key")
	}
	if len(keys.token) == 0 {
		keys.token = securecookie.GenerateRandomKey(32)
		generated = append(generated, "token secret")
	}
	if len(generated) > 0 {
		logger.Warn("using ephemeral keys; sessions will not survive a restart",
			zap.String("keys", strings.Join(generated, ", ")))
	}
	return keys
}

// accountFor picks the seeded user matching email, falling back to the default user.
func accountFor(ds seed.Dataset, email string) auth.User {
	for _, u := range ds.Users {
		if u.Email == email {
			return auth.User{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	user := auth.DefaultUser
	user.Email = email
	return user
}
