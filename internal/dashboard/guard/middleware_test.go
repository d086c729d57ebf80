package guard

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func serveGuarded(t *testing.T, state SessionState, req *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	reached := false
	handler := Middleware(func(*http.Request) SessionState { return state })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr, reached
}

func TestMiddlewareRedirectsAnonymousToLoginWithCallback(t *testing.T) {
	rr, reached := serveGuarded(t, SessionAbsent, httptest.NewRequest(http.MethodGet, "/dashboard/invoices?page=2", nil))
	if reached {
		t.Fatalf("handler must not run")
	}
	if rr.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rr.Code)
	}
	loc, err := url.Parse(rr.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if loc.Path != "/login" {
		t.Fatalf("expected /login, got %s", loc.Path)
	}
	if got := loc.Query().Get(CallbackParam); got != "/dashboard/invoices?page=2" {
		t.Fatalf("unexpected callback %q", got)
	}
}

func TestMiddlewareBareDashboardOmitsCallback(t *testing.T) {
	rr, _ := serveGuarded(t, SessionUnknown, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rr.Header().Get("Location") != "/login" {
		t.Fatalf("expected plain /login, got %q", rr.Header().Get("Location"))
	}
}

func TestMiddlewareRedirectsSignedInAwayFromLogin(t *testing.T) {
	rr, reached := serveGuarded(t, SessionPresent, httptest.NewRequest(http.MethodGet, "/login", nil))
	if reached || rr.Code != http.StatusFound || rr.Header().Get("Location") != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestMiddlewareHTMXReceivesHeaderRedirect(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard/customers", nil)
	req.Header.Set("HX-Request", "true")
	rr, reached := serveGuarded(t, SessionAbsent, req)
	if reached {
		t.Fatalf("handler must not run")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if got := rr.Header().Get("HX-Redirect"); got != "/login?callbackUrl=%2Fdashboard%2Fcustomers" {
		t.Fatalf("unexpected HX-Redirect %q", got)
	}
}

func TestMiddlewareSkipsExcludedPaths(t *testing.T) {
	for _, path := range []string{"/public/static/app.css", "/healthz", "/api/login"} {
		_, reached := serveGuarded(t, SessionPresent, httptest.NewRequest(http.MethodGet, path, nil))
		if !reached {
			t.Fatalf("expected %s to bypass the guard", path)
		}
	}
	_, reached := serveGuarded(t, SessionPresent, httptest.NewRequest(http.MethodGet, "/healthzz", nil))
	if reached {
		t.Fatalf("expected /healthzz to be guarded")
	}
}

func TestMiddlewareAllowsMatchingState(t *testing.T) {
	if _, reached := serveGuarded(t, SessionPresent, httptest.NewRequest(http.MethodGet, "/dashboard", nil)); !reached {
		t.Fatalf("expected signed-in dashboard request to pass")
	}
	if _, reached := serveGuarded(t, SessionAbsent, httptest.NewRequest(http.MethodGet, "/login", nil)); !reached {
		t.Fatalf("expected anonymous login request to pass")
	}
}
