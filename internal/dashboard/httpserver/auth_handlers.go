package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/auth"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/guard"
	custommw "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/httpserver/middleware"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/login"
	appsession "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/session"
	authtpl "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/auth"
	"github.com/iamplus-mubina/acme-dashboard/internal/platform/httpx"
	"github.com/iamplus-mubina/acme-dashboard/internal/platform/requestctx"
)

const (
	logoutRedirect       = "/"
	messageMalformedForm = "The form could not be read. Please try again."
)

var errNoSession = errors.New("login: no session on request")

type authHandlers struct {
	submitter     login.Submitter
	redirectDelay time.Duration
}

func newAuthHandlers(gate login.Authenticator, redirectDelay time.Duration) *authHandlers {
	if gate == nil {
		panic("auth: gate is required")
	}
	if redirectDelay < 0 {
		redirectDelay = 0
	}
	return &authHandlers{
		submitter:     login.GateSubmitter{Gate: gate, OnGranted: signIn},
		redirectDelay: redirectDelay,
	}
}

// signIn records the granted user and token on the request's session.
func signIn(ctx context.Context, granted auth.Granted) error {
	sess, ok := custommw.SessionFromContext(ctx)
	if !ok || sess == nil {
		return errNoSession
	}
	sess.SignIn(appsession.User{
		ID:    granted.User.ID,
		Name:  granted.User.Name,
		Email: granted.User.Email,
	}, granted.Token)
	return nil
}

// LoginForm renders the login page. The callbackUrl query survives as a hidden field.
func (h *authHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, r.URL.Query().Get(guard.CallbackParam))
	renderLogin(w, r, authtpl.LoginPage(data), http.StatusOK)
}

// LoginSubmit validates the credential, runs it through the gate and answers
// in the shape the caller asked for: JSON, an htmx fragment, or a full page.
func (h *authHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		if httpx.WantsJSON(r) {
			httpx.WriteJSON(w, http.StatusBadRequest, login.LoginResponse{Status: "invalid", Message: messageMalformedForm})
			return
		}
		data := h.pageData(r, "")
		data.Status = authtpl.StatusError
		data.Message = messageMalformedForm
		h.respond(w, r, data, http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	callback := callbackTarget(r.PostFormValue(guard.CallbackParam))
	data := h.pageData(r, callback)
	data.Email = strings.TrimSpace(email)

	var outcome login.Outcome
	cred, err := auth.Validate(email, r.PostFormValue("password"))
	var verr *auth.ValidationError
	if errors.As(err, &verr) {
		outcome = login.Invalid{FieldErrors: verr.Fields}
	} else {
		outcome = h.submitter.Submit(r.Context(), cred, callback)
	}

	logger := requestctx.Logger(r.Context())
	switch o := outcome.(type) {
	case login.Granted:
		target := callbackTarget(o.Target)
		logger.Info("login granted", zap.String("target", target))
		h.granted(w, r, data, target)
	case login.Redirected:
		target := callbackTarget(o.Target)
		logger.Info("login redirected", zap.String("target", target))
		h.granted(w, r, data, target)
	case login.Invalid:
		if httpx.WantsJSON(r) {
			httpx.WriteJSON(w, http.StatusUnprocessableEntity, login.LoginResponse{Status: "invalid", Errors: o.FieldErrors})
			return
		}
		data.Status = authtpl.StatusError
		data.FieldErrors = o.FieldErrors
		h.respond(w, r, data, http.StatusUnprocessableEntity)
	case login.Denied:
		status := http.StatusUnauthorized
		if o.Reason == auth.ReasonTransient {
			status = http.StatusServiceUnavailable
		}
		logger.Info("login denied", zap.String("reason", o.Reason))
		if httpx.WantsJSON(r) {
			httpx.WriteJSON(w, status, login.LoginResponse{Status: "denied", Message: o.Message})
			return
		}
		data.Status = authtpl.StatusError
		data.Message = o.Message
		h.respond(w, r, data, status)
	}
}

func (h *authHandlers) granted(w http.ResponseWriter, r *http.Request, data authtpl.LoginPageData, target string) {
	switch {
	case httpx.WantsJSON(r):
		httpx.WriteJSON(w, http.StatusOK, login.LoginResponse{Status: "granted", Redirect: target})
	case custommw.IsHTMXRequest(r.Context()):
		data.Status = authtpl.StatusSuccess
		data.Redirect = target
		data.RedirectDelayMS = h.redirectDelay.Milliseconds()
		renderLogin(w, r, authtpl.LoginForm(data), http.StatusOK)
	default:
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

// respond renders failures. htmx does not swap error responses, so fragments always go out as 200.
func (h *authHandlers) respond(w http.ResponseWriter, r *http.Request, data authtpl.LoginPageData, status int) {
	if custommw.IsHTMXRequest(r.Context()) {
		renderLogin(w, r, authtpl.LoginForm(data), http.StatusOK)
		return
	}
	renderLogin(w, r, authtpl.LoginPage(data), status)
}

// Logout destroys the session and returns the visitor to the landing page.
func (h *authHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := custommw.SessionFromContext(r.Context()); ok && sess != nil {
		sess.Destroy()
	}
	requestctx.Logger(r.Context()).Info("logout")

	if custommw.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", logoutRedirect)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, logoutRedirect, http.StatusSeeOther)
}

func (h *authHandlers) pageData(r *http.Request, callback string) authtpl.LoginPageData {
	return authtpl.LoginPageData{
		CallbackURL: normalizeCallback(callback),
		LoginPath:   guard.LoginPath,
		CSRFToken:   custommw.CSRFTokenFromContext(r.Context()),
		Status:      authtpl.StatusIdle,
	}
}

func renderLogin(w http.ResponseWriter, r *http.Request, component templ.Component, status int) {
	templ.Handler(component, templ.WithStatus(status)).ServeHTTP(w, r)
}

// callbackTarget resolves where a signed-in visitor lands. Anything outside
// the protected subtree falls back to the dashboard home.
func callbackTarget(raw string) string {
	if target := normalizeCallback(raw); target != "" {
		return target
	}
	return login.DefaultCallbackURL
}

func normalizeCallback(raw string) string {
	sanitized := sanitizeNextTarget(guard.ProtectedPrefix, raw)
	if sanitized == "" || samePath(pathOnly(sanitized), guard.LoginPath) {
		return ""
	}
	return sanitized
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	trim := func(p string) string {
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		for len(p) > 1 && strings.HasSuffix(p, "/") {
			p = strings.TrimSuffix(p, "/")
		}
		return p
	}
	return trim(a) == trim(b)
}

// sanitizeNextTarget keeps only same-origin paths under basePath, with query and fragment.
func sanitizeNextTarget(basePath, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "" || parsed.Host != "" {
		return ""
	}

	pathValue := parsed.Path
	if pathValue == "" {
		pathValue = "/"
	}

	unescaped, err := url.PathUnescape(pathValue)
	if err != nil {
		return ""
	}
	if strings.Contains(unescaped, "\\") {
		return ""
	}

	cleaned := path.Clean(unescaped)
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	if strings.HasPrefix(cleaned, "//") {
		return ""
	}
	if !hasSafePrefix(cleaned, basePath) {
		return ""
	}

	target := cleaned
	if parsed.RawQuery != "" {
		target += "?" + parsed.RawQuery
	}
	if parsed.Fragment != "" {
		target += "#" + parsed.Fragment
	}
	return target
}

func hasSafePrefix(pathValue, base string) bool {
	if base == "/" {
		return strings.HasPrefix(pathValue, "/")
	}
	if !strings.HasPrefix(pathValue, base) {
		return false
	}
	if len(pathValue) == len(base) {
		return true
	}
	return pathValue[len(base)] == '/'
}

func pathOnly(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Path
}
