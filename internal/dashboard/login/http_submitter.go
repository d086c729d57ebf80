package login

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/auth"
)

const (
	defaultCSRFCookie = "dashboard_csrf"
	csrfHeader        = "X-CSRF-Token"
	maxResponseBytes  = 64 << 10
)

// LoginResponse is the JSON body of POST /login for clients sending Accept: application/json.
type LoginResponse struct {
	Status   string              `json:"status"`
	Redirect string              `json:"redirect,omitempty"`
	Message  string              `json:"message,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
}

// HTTPSubmitter posts the login form to a running dashboard.
type HTTPSubmitter struct {
	baseURL    *url.URL
	client     *http.Client
	csrfCookie string
	logger     *zap.Logger
}

// HTTPSubmitterOption customises an HTTPSubmitter.
type HTTPSubmitterOption func(*HTTPSubmitter)

// WithHTTPClient replaces the HTTP client. Its redirect policy is overridden
// so redirects are reported instead of followed.
func WithHTTPClient(client *http.Client) HTTPSubmitterOption {
	return func(s *HTTPSubmitter) {
		if client != nil {
			copied := *client
			s.client = &copied
		}
	}
}

// WithCSRFCookie sets the name of the double-submit cookie.
func WithCSRFCookie(name string) HTTPSubmitterOption {
	return func(s *HTTPSubmitter) {
		if name != "" {
			s.csrfCookie = name
		}
	}
}

// WithSubmitterLogger sets the logger for request failures.
func WithSubmitterLogger(logger *zap.Logger) HTTPSubmitterOption {
	return func(s *HTTPSubmitter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHTTPSubmitter constructs a submitter for the dashboard at baseURL.
func NewHTTPSubmitter(baseURL string, opts ...HTTPSubmitterOption) (*HTTPSubmitter, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("login: parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("login: unsupported base url scheme %q", parsed.Scheme)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("login: cookie jar: %w", err)
	}
	s := &HTTPSubmitter{
		baseURL:    parsed,
		client:     &http.Client{Jar: jar, Timeout: 10 * time.Second},
		csrfCookie: defaultCSRFCookie,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client.Jar == nil {
		s.client.Jar = jar
	}
	s.client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return s, nil
}

// Client exposes the HTTP client carrying the session cookies.
func (s *HTTPSubmitter) Client() *http.Client {
	return s.client
}

// Resolve turns a server-relative target into an absolute URL on the dashboard.
func (s *HTTPSubmitter) Resolve(target string) string {
	ref, err := url.Parse(target)
	if err != nil {
		return s.baseURL.String()
	}
	return s.baseURL.ResolveReference(ref).String()
}

// Submit implements Submitter.
func (s *HTTPSubmitter) Submit(ctx context.Context, cred auth.Credential, callbackURL string) Outcome {
	token, err := s.csrfToken(ctx)
	if err != nil {
		s.logger.Warn("login csrf bootstrap failed", zap.Error(err))
		return transientDenied()
	}

	form := url.Values{}
	form.Set("email", cred.Email)
	form.Set("password", cred.Password)
	if callbackURL != "" {
		form.Set("callbackUrl", callbackURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Resolve("/login"), strings.NewReader(form.Encode()))
	if err != nil {
		return transientDenied()
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(csrfHeader, token)

	resp, err := s.client.Do(req)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("login request failed", zap.Error(err))
		}
		return transientDenied()
	}
	defer resp.Body.Close()

	return s.interpret(resp)
}

func (s *HTTPSubmitter) interpret(resp *http.Response) Outcome {
	if target := resp.Header.Get("HX-Redirect"); target != "" {
		return Redirected{Target: target}
	}

	var body LoginResponse
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
			s.logger.Warn("login response decode failed", zap.Error(err), zap.Int("status", resp.StatusCode))
		}
	}

	switch {
	case resp.StatusCode == http.StatusOK && body.Status == "granted":
		if body.Redirect != "" {
			return Redirected{Target: body.Redirect}
		}
		return Granted{}
	case resp.StatusCode == http.StatusSeeOther || resp.StatusCode == http.StatusFound:
		if location := resp.Header.Get("Location"); location != "" {
			return Redirected{Target: location}
		}
		return Granted{}
	case resp.StatusCode == http.StatusUnauthorized:
		msg := body.Message
		if msg == "" {
			msg = auth.MessageInvalidCredentials
		}
		return Denied{Reason: auth.ReasonInvalidCredentials, Message: msg}
	case resp.StatusCode == http.StatusUnprocessableEntity:
		fields := auth.FieldErrors{}
		for field, msgs := range body.Errors {
			for _, msg := range msgs {
				fields.Add(field, msg)
			}
		}
		return Invalid{FieldErrors: fields}
	default:
		s.logger.Warn("login unexpected response", zap.Int("status", resp.StatusCode))
		return transientDenied()
	}
}

func (s *HTTPSubmitter) csrfToken(ctx context.Context) (string, error) {
	if token := s.cookieValue(s.csrfCookie); token != "" {
		return token, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Resolve("/login"), nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	resp.Body.Close()

	if token := s.cookieValue(s.csrfCookie); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("login: no %s cookie issued (status %d)", s.csrfCookie, resp.StatusCode)
}

func (s *HTTPSubmitter) cookieValue(name string) string {
	if s.client.Jar == nil {
		return ""
	}
	for _, c := range s.client.Jar.Cookies(s.baseURL) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
