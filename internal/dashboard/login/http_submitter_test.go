package login

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/auth"
)

func newLoginStub(t *testing.T, post http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.SetCookie(w, &http.Cookie{Name: "dashboard_csrf", Value: "csrf-123", Path: "/"})
			w.WriteHeader(http.StatusOK)
		case http.MethodPost:
			if r.Header.Get("X-CSRF-Token") != "csrf-123" {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			post(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func submitOnce(t *testing.T, post http.HandlerFunc) Outcome {
	t.Helper()
	srv := newLoginStub(t, post)
	sub, err := NewHTTPSubmitter(srv.URL)
	require.NoError(t, err)
	return sub.Submit(context.Background(), auth.Credential{Email: "user@nextmail.com", Password: "123456"}, "/dashboard")
}

func TestHTTPSubmitterGrantedJSON(t *testing.T) {
	out := submitOnce(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "user@nextmail.com", r.PostForm.Get("email"))
		require.Equal(t, "123456", r.PostForm.Get("password"))
		require.Equal(t, "/dashboard", r.PostForm.Get("callbackUrl"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		writeJSON(w, http.StatusOK, `{"status":"granted","redirect":"/dashboard/invoices"}`)
	})
	require.Equal(t, Redirected{Target: "/dashboard/invoices"}, out)
}

func TestHTTPSubmitterSeeOtherIsRedirect(t *testing.T) {
	out := submitOnce(t, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	require.Equal(t, Redirected{Target: "/dashboard"}, out)
}

func TestHTTPSubmitterHXRedirect(t *testing.T) {
	out := submitOnce(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("HX-Redirect", "/dashboard/customers")
		w.WriteHeader(http.StatusNoContent)
	})
	require.Equal(t, Redirected{Target: "/dashboard/customers"}, out)
}

func TestHTTPSubmitterUnauthorized(t *testing.T) {
	out := submitOnce(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"status":"denied","message":"Invalid credentials."}`)
	})
	require.Equal(t, Denied{Reason: auth.ReasonInvalidCredentials, Message: "Invalid credentials."}, out)
}

func TestHTTPSubmitterValidationErrors(t *testing.T) {
	out := submitOnce(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{"status":"invalid","errors":{"password":["Password must be at least 6 characters."]}}`)
	})
	invalid, ok := out.(Invalid)
	require.True(t, ok, "expected Invalid, got %#v", out)
	require.Equal(t, "Password must be at least 6 characters.", invalid.FieldErrors.First("password"))
}

func TestHTTPSubmitterServerErrorIsTransient(t *testing.T) {
	out := submitOnce(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	require.Equal(t, transientDenied(), out)
}

func TestHTTPSubmitterTransportErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	sub, err := NewHTTPSubmitter(url)
	require.NoError(t, err)
	out := sub.Submit(context.Background(), auth.Credential{Email: "user@nextmail.com", Password: "123456"}, "")
	require.Equal(t, transientDenied(), out)
}

func TestHTTPSubmitterRejectsBadBaseURL(t *testing.T) {
	_, err := NewHTTPSubmitter("ftp://example.com")
	require.Error(t, err)
}

func TestHTTPSubmitterDrivesOrchestrator(t *testing.T) {
	srv := newLoginStub(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("password") != "123456" {
			writeJSON(w, http.StatusUnauthorized, `{"status":"denied","message":"Invalid credentials."}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"status":"granted","redirect":"/dashboard"}`)
	})
	sub, err := NewHTTPSubmitter(srv.URL)
	require.NoError(t, err)

	nav := &recordingNavigator{}
	o := New(sub, nav, WithRedirectDelay(0))
	defer o.Close()

	o.Submit("user@nextmail.com", "wrong-password")
	o.Wait()
	require.Equal(t, "Invalid credentials.", o.State().Message)

	o.Submit("user@nextmail.com", "123456")
	waitClosed(t, o.Navigated(), "navigation")
	o.Wait()
	require.Equal(t, []string{"/dashboard"}, nav.Targets())
	require.Equal(t, srv.URL+"/dashboard", sub.Resolve("/dashboard"))
}
