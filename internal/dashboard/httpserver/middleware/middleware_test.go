package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/auth"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/guard"
	appsession "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/session"
)

type stubVerifier struct {
	token string
	user  auth.User
	err   error
}

func (s *stubVerifier) VerifyToken(_ context.Context, token string) (auth.User, error) {
	if s.err != nil {
		return auth.User{}, s.err
	}
	if token != s.token {
		return auth.User{}, auth.ErrTokenInvalid
	}
	return s.user, nil
}

func TestIdentityMiddleware(t *testing.T) {
	clock := &sessionTestClock{now: time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)}
	store := newSessionStoreForTest(t, clock)
	verifier := &stubVerifier{token: "valid", user: auth.User{ID: "1", Name: "Test User", Email: "user@nextmail.com"}}

	var (
		gotState guard.SessionState
		gotUser  *User
	)
	handler := Session(store)(Identity(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotState = SessionState(r)
		gotUser, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})))

	signedIn := func(token string) *http.Cookie {
		sess := store.New()
		sess.SignIn(appsession.User{ID: "1", Name: "Test User"}, token)
		rec := httptest.NewRecorder()
		if err := store.Save(rec, sess); err != nil {
			t.Fatalf("save session: %v", err)
		}
		return findCookie(rec.Result().Cookies(), "test_session")
	}

	t.Run("no cookie is absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if gotState != guard.SessionAbsent || gotUser != nil {
			t.Fatalf("expected absent session, got %s user=%v", gotState, gotUser)
		}
	})

	t.Run("verified token is present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(signedIn("valid"))
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if gotState != guard.SessionPresent {
			t.Fatalf("expected present session, got %s", gotState)
		}
		if gotUser == nil || gotUser.Email != "user@nextmail.com" {
			t.Fatalf("expected verified user in context, got %+v", gotUser)
		}
	})

	t.Run("rejected token signs out", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(signedIn("forged"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if gotState != guard.SessionAbsent {
			t.Fatalf("expected absent session, got %s", gotState)
		}

		next := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		next.AddCookie(findCookie(rec.Result().Cookies(), "test_session"))
		loaded, err := store.Load(next)
		if err != nil {
			t.Fatalf("load session: %v", err)
		}
		if loaded.Authenticated() {
			t.Fatalf("expected session to be signed out after rejected token")
		}
	})

	t.Run("garbage cookie is unknown", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: "test_session", Value: "garbage"})
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if gotState != guard.SessionUnknown {
			t.Fatalf("expected unknown session, got %s", gotState)
		}
	})

	t.Run("verifier failure is unknown", func(t *testing.T) {
		verifier.err = errors.New("key service down")
		defer func() { verifier.err = nil }()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(signedIn("valid"))
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if gotState != guard.SessionUnknown {
			t.Fatalf("expected unknown session, got %s", gotState)
		}
	})
}

func TestSessionStateWithoutIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if got := SessionState(req); got != guard.SessionUnknown {
		t.Fatalf("expected unknown state, got %s", got)
	}
}

func TestCSRFMiddleware(t *testing.T) {
	mw := CSRF(CSRFConfig{CookieName: "csrf", HeaderName: "X-CSRF-Token"})

	t.Run("issues cookie on GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		rr := httptest.NewRecorder()
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := CSRFTokenFromContext(r.Context())
			if token == "" {
				t.Fatalf("expected token in context")
			}
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if c := findCookie(rr.Result().Cookies(), "csrf"); c == nil || c.Value == "" {
			t.Fatalf("expected csrf cookie to be set")
		}
	})

	t.Run("rejects unsafe request without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.AddCookie(&http.Cookie{Name: "csrf", Value: "token"})
		rr := httptest.NewRecorder()
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rr.Code)
		}
	})

	t.Run("rejects mismatched header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.AddCookie(&http.Cookie{Name: "csrf", Value: "token"})
		req.Header.Set("X-CSRF-Token", "other")
		rr := httptest.NewRecorder()
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rr.Code)
		}
	})

	t.Run("allows unsafe request with matching header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.AddCookie(&http.Cookie{Name: "csrf", Value: "token"})
		req.Header.Set("X-CSRF-Token", "token")
		rr := httptest.NewRecorder()
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("allows form field token", func(t *testing.T) {
		form := url.Values{CSRFFormField: {"token"}, "email": {"user@nextmail.com"}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: "csrf", Value: "token"})
		rr := httptest.NewRecorder()
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.PostFormValue("email") != "user@nextmail.com" {
				t.Fatalf("expected form values to remain readable")
			}
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})
}

func TestHTMXMiddleware(t *testing.T) {
	base := HTMX()

	t.Run("detects htmx", func(t *testing.T) {
		handler := base(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsHTMXRequest(r.Context()) {
				t.Fatalf("expected htmx request")
			}
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/dashboard/invoices", nil)
		req.Header.Set("HX-Request", "true")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if rr.Header().Get("Vary") != "HX-Request" {
			t.Fatalf("expected Vary header, got %q", rr.Header().Get("Vary"))
		}
	})

	t.Run("fragment requests need a matching target", func(t *testing.T) {
		var fragment, boosted bool
		handler := base(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("HX-Boosted") != "" {
				boosted = WantsFragment(r.Context(), "invoices-table")
				return
			}
			fragment = WantsFragment(r.Context(), "invoices-table")
		}))

		req := httptest.NewRequest(http.MethodGet, "/dashboard/invoices", nil)
		req.Header.Set("HX-Request", "true")
		req.Header.Set("HX-Target", "invoices-table")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		req = httptest.NewRequest(http.MethodGet, "/dashboard/invoices", nil)
		req.Header.Set("HX-Request", "true")
		req.Header.Set("HX-Boosted", "true")
		req.Header.Set("HX-Target", "invoices-table")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if !fragment {
			t.Fatalf("expected fragment request")
		}
		if boosted {
			t.Fatalf("boosted navigation must render the full page")
		}
	})
}

func TestNoStoreMiddleware(t *testing.T) {
	handler := NoStore()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Cache-Control"); got != "no-store, max-age=0" {
		t.Fatalf("unexpected Cache-Control: %s", got)
	}
	if got := rr.Header().Get("Pragma"); got != "no-cache" {
		t.Fatalf("unexpected Pragma: %s", got)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestEnvironmentBadge(t *testing.T) {
	cases := map[string]string{
		"":            "DEV",
		"development": "DEV",
		"staging":     "STG",
		"Production":  "PROD",
		"qa":          "QA",
	}
	for input, want := range cases {
		if got := EnvironmentBadge(EnvironmentLabel(input)); got != want {
			t.Errorf("EnvironmentBadge(%q) = %q, want %q", input, got, want)
		}
	}
}
