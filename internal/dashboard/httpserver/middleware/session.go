package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/iamplus-mubina/acme-dashboard/internal/platform/requestctx"

	appsession "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/session"
)

type sessionContextKey string

const (
	requestSessionKey sessionContextKey = "dashboard.session"
	sessionLoadKey    sessionContextKey = "dashboard.session.load"
)

// SessionStore abstracts the session manager for middleware integration.
type SessionStore interface {
	Load(*http.Request) (*appsession.Session, error)
	New() *appsession.Session
	Save(http.ResponseWriter, *appsession.Session) error
	Destroy(http.ResponseWriter)
}

// Session attaches the decoded session to the request context and persists
// changes back to the client cookie before the first byte of the response.
func Session(store SessionStore) func(http.Handler) http.Handler {
	if store == nil {
		panic("session store is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := requestctx.Logger(r.Context())

			sess, err := store.Load(r)
			var loadErr error
			switch {
			case errors.Is(err, appsession.ErrExpired):
				logger.Debug("session expired: resetting")
				sess = store.New()
			case err != nil:
				logger.Warn("session load failed", zap.Error(err))
				loadErr = err
				if sess == nil {
					sess = store.New()
				}
			case sess == nil:
				sess = store.New()
			}

			ctx := context.WithValue(r.Context(), requestSessionKey, sess)
			ctx = context.WithValue(ctx, sessionLoadKey, loadErr)

			sw := &sessionWriter{ResponseWriter: w}
			sw.persist = func() {
				if err := store.Save(w, sess); err != nil {
					logger.Error("session save failed", zap.Error(err))
				}
			}

			next.ServeHTTP(sw, r.WithContext(ctx))
			sw.save()
		})
	}
}

// SessionFromContext retrieves the session attached to this request.
func SessionFromContext(ctx context.Context) (*appsession.Session, bool) {
	if ctx == nil {
		return nil, false
	}
	sess, ok := ctx.Value(requestSessionKey).(*appsession.Session)
	return sess, ok && sess != nil
}

// SessionLoadError reports why the incoming session cookie could not be decoded, if it could not.
func SessionLoadError(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	err, _ := ctx.Value(sessionLoadKey).(error)
	return err
}

// sessionWriter saves the session once, right before headers are sent.
type sessionWriter struct {
	http.ResponseWriter
	persist func()
	saved   bool
}

func (w *sessionWriter) save() {
	if w.saved {
		return
	}
	w.saved = true
	w.persist()
}

func (w *sessionWriter) WriteHeader(status int) {
	w.save()
	w.ResponseWriter.WriteHeader(status)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.save()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Flush() {
	w.save()
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
