package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile            = ".env"
	defaultHTTPAddr           = ":8080"
	defaultEnvironment        = "development"
	defaultLogLevel           = "info"
	defaultReadTimeout        = 10 * time.Second
	defaultWriteTimeout       = 30 * time.Second
	defaultIdleTimeout        = 60 * time.Second
	defaultShutdownTimeout    = 10 * time.Second
	defaultSessionCookie      = "dashboard_session"
	defaultSessionIdle        = 30 * time.Minute
	defaultSessionLifetime    = 12 * time.Hour
	defaultTokenTTL           = 12 * time.Hour
	defaultTokenIssuer        = "acme-dashboard"
	defaultAuthEmail          = "user@nextmail.com"
	defaultAuthPassword       = "123456"
	defaultAuthTimeout        = 5 * time.Second
	defaultCSRFCookie         = "dashboard_csrf"
	defaultRedirectDelay      = 500 * time.Millisecond
	defaultPageSize           = 6
	productionEnvironmentName = "production"
	minSecretKeyLength        = 32
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Session     SessionConfig
	Token       TokenConfig
	Auth        AuthConfig
	CSRF        CSRFConfig
	Data        DataConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	CookieName  string
	HashKey     string
	BlockKey    string
	Secure      bool
	IdleTimeout time.Duration
	Lifetime    time.Duration
}

// TokenConfig controls the session token minted on successful login.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// AuthConfig holds the single configured login and the verification bound.
type AuthConfig struct {
	Email         string
	Password      string
	Timeout       time.Duration
	RedirectDelay time.Duration
}

// CSRFConfig controls the double-submit cookie.
type CSRFConfig struct {
	CookieName string
	Secure     bool
}

// DataConfig tunes the in-memory data providers.
type DataConfig struct {
	// Latency simulates backend latency on every provider call.
	Latency  time.Duration
	PageSize int
}

// IsProduction reports whether the configuration targets production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, productionEnvironmentName)
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the dashboard configuration by combining defaults, .env overrides
// and environment variables.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	env := &envReader{lookup: lookup}
	cfg := Config{
		Environment: strings.ToLower(env.str("DASHBOARD_ENVIRONMENT", defaultEnvironment)),
		LogLevel:    env.str("LOG_LEVEL", defaultLogLevel),
		Server: ServerConfig{
			Address:         env.str("DASHBOARD_HTTP_ADDR", defaultHTTPAddr),
			ReadTimeout:     env.duration("DASHBOARD_HTTP_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    env.duration("DASHBOARD_HTTP_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     env.duration("DASHBOARD_HTTP_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: env.duration("DASHBOARD_HTTP_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Session: SessionConfig{
			CookieName:  env.str("DASHBOARD_SESSION_COOKIE", defaultSessionCookie),
			HashKey:     env.str("DASHBOARD_SESSION_HASH_KEY", ""),
			BlockKey:    env.str("DASHBOARD_SESSION_BLOCK_KEY", ""),
			Secure:      env.boolean("DASHBOARD_SESSION_SECURE", false),
			IdleTimeout: env.duration("DASHBOARD_SESSION_IDLE_TIMEOUT", defaultSessionIdle),
			Lifetime:    env.duration("DASHBOARD_SESSION_LIFETIME", defaultSessionLifetime),
		},
		Token: TokenConfig{
			Secret: env.str("DASHBOARD_TOKEN_SECRET", ""),
			Issuer: env.str("DASHBOARD_TOKEN_ISSUER", defaultTokenIssuer),
			TTL:    env.duration("DASHBOARD_TOKEN_TTL", defaultTokenTTL),
		},
		Auth: AuthConfig{
			Email:         env.str("DASHBOARD_AUTH_EMAIL", defaultAuthEmail),
			Password:      env.str("DASHBOARD_AUTH_PASSWORD", defaultAuthPassword),
			Timeout:       env.duration("DASHBOARD_AUTH_TIMEOUT", defaultAuthTimeout),
			RedirectDelay: env.duration("DASHBOARD_AUTH_REDIRECT_DELAY", defaultRedirectDelay),
		},
		CSRF: CSRFConfig{
			CookieName: env.str("DASHBOARD_CSRF_COOKIE", defaultCSRFCookie),
			Secure:     env.boolean("DASHBOARD_CSRF_SECURE", false),
		},
		Data: DataConfig{
			Latency:  env.duration("DASHBOARD_DATA_LATENCY", 0),
			PageSize: env.integer("DASHBOARD_DATA_PAGE_SIZE", defaultPageSize),
		},
	}

	if err := validateConfig(cfg, env.malformed); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validateConfig reports malformed keys first, then fields with bad values.
func validateConfig(cfg Config, malformed []string) error {
	invalid := append([]string(nil), malformed...)

	if strings.TrimSpace(cfg.Server.Address) == "" {
		invalid = append(invalid, "Server.Address")
	}
	if cfg.Session.IdleTimeout <= 0 {
		invalid = append(invalid, "Session.IdleTimeout")
	}
	if cfg.Session.Lifetime <= 0 {
		invalid = append(invalid, "Session.Lifetime")
	}
	if cfg.Token.TTL <= 0 {
		invalid = append(invalid, "Token.TTL")
	}
	if cfg.Auth.Timeout <= 0 {
		invalid = append(invalid, "Auth.Timeout")
	}
	if cfg.Auth.RedirectDelay < 0 {
		invalid = append(invalid, "Auth.RedirectDelay")
	}
	if cfg.Data.Latency < 0 {
		invalid = append(invalid, "Data.Latency")
	}
	if cfg.Data.PageSize <= 0 {
		invalid = append(invalid, "Data.PageSize")
	}
	if strings.TrimSpace(cfg.Auth.Email) == "" {
		invalid = append(invalid, "Auth.Email")
	}
	if cfg.Session.HashKey != "" && len(cfg.Session.HashKey) < minSecretKeyLength {
		invalid = append(invalid, "Session.HashKey")
	}
	if cfg.Session.BlockKey != "" && !validBlockKeyLength(len(cfg.Session.BlockKey)) {
		invalid = append(invalid, "Session.BlockKey")
	}
	if cfg.Token.Secret != "" && len(cfg.Token.Secret) < minSecretKeyLength {
		invalid = append(invalid, "Token.Secret")
	}

	// Production never falls back to ephemeral keys.
	if cfg.IsProduction() {
		if cfg.Session.HashKey == "" {
			invalid = append(invalid, "Session.HashKey")
		}
		if cfg.Token.Secret == "" {
			invalid = append(invalid, "Token.Secret")
		}
		if !cfg.Session.Secure {
			invalid = append(invalid, "Session.Secure")
		}
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

// AES-128/192/256 block keys.
func validBlockKeyLength(n int) bool {
	return n == 16 || n == 24 || n == 32
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		value = strings.Trim(value, "\"'")
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

// envReader reads typed values, falling back to defaults for unset keys and
// recording keys whose values do not parse.
type envReader struct {
	lookup    func(string) (string, bool)
	malformed []string
}

func (e *envReader) raw(key string) (string, bool) {
	value, ok := e.lookup(key)
	if !ok {
		return "", false
	}
	return value, value != ""
}

func (e *envReader) str(key, fallback string) string {
	if value, ok := e.raw(key); ok {
		return value
	}
	return fallback
}

func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	value, ok := e.raw(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		e.malformed = append(e.malformed, key)
		return fallback
	}
	return d
}

func (e *envReader) integer(key string, fallback int) int {
	value, ok := e.raw(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		e.malformed = append(e.malformed, key)
		return fallback
	}
	return parsed
}

func (e *envReader) boolean(key string, fallback bool) bool {
	value, ok := e.raw(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	e.malformed = append(e.malformed, key)
	return fallback
}
