package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fixedClock struct {
	current time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.current
}

func newTestManager(t *testing.T) (*Manager, *fixedClock) {
	t.Helper()

	hashKey := []byte("12345678901234567890123456789012")
	blockKey := []byte("abcdefghijklmnopqrstuv0123456789")
	clock := &fixedClock{current: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	httpOnly := true
	mgr, err := NewManager(Config{
		CookieName:     "test_session",
		HashKey:        hashKey,
		BlockKey:       blockKey,
		CookiePath:     "/",
		CookieHTTPOnly: &httpOnly,
		IdleTimeout:    10 * time.Minute,
		Lifetime:       2 * time.Hour,
		Now:            clock.Now,
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	return mgr, clock
}

func TestManager_NewSessionLifecycle(t *testing.T) {
	mgr, clock := newTestManager(t)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	sess, err := mgr.Load(req)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if sess == nil || sess.ID() == "" {
		t.Fatalf("expected session with id")
	}
	if !sess.CreatedAt().Equal(clock.current) {
		t.Fatalf("unexpected CreatedAt: %v", sess.CreatedAt())
	}
	if sess.Authenticated() {
		t.Fatalf("fresh session must not be authenticated")
	}

	firstID := sess.ID()
	sess.SignIn(User{ID: "1", Name: "Test User", Email: "user@nextmail.com"}, "token-1")
	if sess.ID() == firstID {
		t.Fatalf("expected session id rotation on sign in")
	}
	if !sess.Authenticated() {
		t.Fatalf("expected authenticated session")
	}
	token, err := sess.EnsureCSRFToken()
	if err != nil || token == "" {
		t.Fatalf("expected csrf token: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := mgr.Save(rec, sess); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	cookie := findCookie(rec.Result().Cookies(), "test_session")
	if cookie == nil {
		t.Fatalf("expected session cookie to be set")
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}

	clock.current = clock.current.Add(5 * time.Minute)
	req2 := httptest.NewRequest("GET", "/dashboard", nil)
	req2.AddCookie(cookie)
	sess2, err := mgr.Load(req2)
	if err != nil {
		t.Fatalf("Load existing error: %v", err)
	}
	if sess2.User() == nil || sess2.User().Email != "user@nextmail.com" {
		t.Fatalf("expected user to persist")
	}
	if sess2.Token() != "token-1" {
		t.Fatalf("expected token to persist, got %q", sess2.Token())
	}
	if sess2.CSRFToken() != token {
		t.Fatalf("expected csrf token to persist")
	}

	sess2.SignOut()
	if sess2.Authenticated() || !sess2.Dirty() {
		t.Fatalf("expected signed out dirty session")
	}
}

func TestManager_IdleTimeout(t *testing.T) {
	mgr, clock := newTestManager(t)
	sess, err := mgr.Load(httptest.NewRequest("GET", "/dashboard", nil))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	rec := httptest.NewRecorder()
	if err := mgr.Save(rec, sess); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	cookie := findCookie(rec.Result().Cookies(), "test_session")

	clock.current = clock.current.Add(20 * time.Minute)
	req2 := httptest.NewRequest("GET", "/dashboard", nil)
	req2.AddCookie(cookie)
	if _, err := mgr.Load(req2); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestManager_AbsoluteLifetime(t *testing.T) {
	mgr, clock := newTestManager(t)
	sess := mgr.New()

	var cookie *http.Cookie
	// Keep the session active so only the absolute lifetime can expire it.
	for i := 0; i < 13; i++ {
		rec := httptest.NewRecorder()
		if err := mgr.Save(rec, sess); err != nil {
			t.Fatalf("Save error: %v", err)
		}
		cookie = findCookie(rec.Result().Cookies(), "test_session")
		clock.current = clock.current.Add(9*time.Minute + 30*time.Second)

		req := httptest.NewRequest("GET", "/dashboard", nil)
		req.AddCookie(cookie)
		loaded, err := mgr.Load(req)
		if err != nil {
			if errors.Is(err, ErrExpired) && clock.current.Sub(sess.CreatedAt()) > 2*time.Hour {
				return
			}
			t.Fatalf("unexpected error after %d iterations: %v", i, err)
		}
		sess = loaded
	}
	t.Fatalf("expected absolute expiry")
}

func TestManager_InvalidCookie(t *testing.T) {
	mgr, _ := newTestManager(t)
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: "tampered-value"})

	sess, err := mgr.Load(req)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if sess == nil || sess.Authenticated() {
		t.Fatalf("expected fresh unauthenticated session")
	}
}

func TestManager_Destroy(t *testing.T) {
	mgr, _ := newTestManager(t)
	sess, _ := mgr.Load(httptest.NewRequest("GET", "/dashboard", nil))
	rec := httptest.NewRecorder()
	sess.Destroy()
	if err := mgr.Save(rec, sess); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	cookie := findCookie(rec.Result().Cookies(), "test_session")
	if cookie == nil || cookie.MaxAge != -1 {
		t.Fatalf("expected session cookie cleared")
	}
}

func TestNewManagerRejectsBadKeys(t *testing.T) {
	if _, err := NewManager(Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for missing hash key, got %v", err)
	}
	if _, err := NewManager(Config{HashKey: []byte("12345678901234567890123456789012"), BlockKey: []byte("short")}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for bad block key, got %v", err)
	}
}

func TestManager_SameSiteDefaultsToLax(t *testing.T) {
	for name, mode := range map[string]http.SameSite{"zero": 0, "default mode": http.SameSiteDefaultMode} {
		mgr, err := NewManager(Config{
			CookieName:     "test_session",
			HashKey:        []byte("12345678901234567890123456789012"),
			BlockKey:       []byte("abcdefghijklmnopqrstuv0123456789"),
			CookieSameSite: mode,
		})
		if err != nil {
			t.Fatalf("%s: NewManager error: %v", name, err)
		}
		sess, err := mgr.Load(httptest.NewRequest("GET", "/", nil))
		if err != nil {
			t.Fatalf("%s: Load error: %v", name, err)
		}
		rec := httptest.NewRecorder()
		if err := mgr.Save(rec, sess); err != nil {
			t.Fatalf("%s: Save error: %v", name, err)
		}
		if header := rec.Header().Get("Set-Cookie"); !strings.Contains(header, "SameSite=Lax") {
			t.Fatalf("%s: expected SameSite=Lax in %q", name, header)
		}
	}
}

func TestManager_SameSiteExplicitModeKept(t *testing.T) {
	mgr, err := NewManager(Config{
		CookieName:     "test_session",
		HashKey:        []byte("12345678901234567890123456789012"),
		BlockKey:       []byte("abcdefghijklmnopqrstuv0123456789"),
		CookieSameSite: http.SameSiteStrictMode,
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	sess, err := mgr.Load(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	rec := httptest.NewRecorder()
	if err := mgr.Save(rec, sess); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if header := rec.Header().Get("Set-Cookie"); !strings.Contains(header, "SameSite=Strict") {
		t.Fatalf("expected SameSite=Strict in %q", header)
	}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
