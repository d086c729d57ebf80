package guard

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// CallbackParam carries the originally requested path through the login page.
const CallbackParam = "callbackUrl"

// DefaultExcludedPrefixes are never guarded: assets, health checks and APIs.
var DefaultExcludedPrefixes = []string{"/public/static/", "/healthz", "/api/"}

// StateFunc resolves the session state of a request.
type StateFunc func(r *http.Request) SessionState

// Option customises the guard middleware.
type Option func(*options)

type options struct {
	excluded []string
	logger   *zap.Logger
}

// WithExcludedPrefixes replaces the default excluded prefixes.
func WithExcludedPrefixes(prefixes ...string) Option {
	return func(o *options) {
		o.excluded = append([]string(nil), prefixes...)
	}
}

// WithLogger sets the logger for redirect decisions.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Middleware enforces Authorize on every request that is not excluded.
// Denied navigations answer with 302, or 401 plus HX-Redirect for htmx requests.
func Middleware(state StateFunc, opts ...Option) func(http.Handler) http.Handler {
	o := options{
		excluded: DefaultExcludedPrefixes,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if state == nil {
		state = func(*http.Request) SessionState { return SessionUnknown }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if isExcluded(path, o.excluded) {
				next.ServeHTTP(w, r)
				return
			}

			current := state(r)
			decision := Authorize(path, current)
			if decision.Allowed() {
				next.ServeHTTP(w, r)
				return
			}

			target := decision.Target()
			if target == LoginPath {
				target = loginURL(r)
			}
			o.logger.Debug("guard redirect",
				zap.String("path", path),
				zap.Stringer("session", current),
				zap.String("target", target),
			)

			if strings.EqualFold(r.Header.Get("HX-Request"), "true") {
				w.Header().Set("HX-Redirect", target)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, target, http.StatusFound)
		})
	}
}

// loginURL points at the login page and remembers where the visitor wanted to go.
func loginURL(r *http.Request) string {
	requested := r.URL.Path
	if r.URL.RawQuery != "" && r.Method == http.MethodGet {
		requested += "?" + r.URL.RawQuery
	}
	if requested == "" || requested == ProtectedPrefix {
		return LoginPath
	}
	q := url.Values{}
	q.Set(CallbackParam, requested)
	return LoginPath + "?" + q.Encode()
}

func isExcluded(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}
		if strings.HasSuffix(prefix, "/") {
			if strings.HasPrefix(path, prefix) {
				return true
			}
			continue
		}
		if hasSegmentPrefix(path, prefix) {
			return true
		}
	}
	return false
}
