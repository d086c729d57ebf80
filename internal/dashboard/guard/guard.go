// Package guard decides, per navigation, whether a request may reach its
// path given the caller's session state.
package guard

import "strings"

const (
	// ProtectedPrefix is the path subtree that requires a session.
	ProtectedPrefix = "/dashboard"
	// LoginPath is where anonymous visitors of the protected subtree are sent.
	LoginPath = "/login"
	// HomePath is where signed-in visitors of public pages are sent.
	HomePath = ProtectedPrefix
)

// SessionState is the guard's view of the caller's session.
type SessionState int

const (
	// SessionAbsent means no authenticated session exists.
	SessionAbsent SessionState = iota
	// SessionPresent means a verified session exists.
	SessionPresent
	// SessionUnknown means the session could not be determined; treated as absent.
	SessionUnknown
)

// String implements fmt.Stringer.
func (s SessionState) String() string {
	switch s {
	case SessionPresent:
		return "present"
	case SessionAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Authorize. The zero value allows the request.
type Decision struct {
	redirect string
}

// Allow permits the navigation.
func Allow() Decision {
	return Decision{}
}

// DenyRedirect refuses the navigation and names where to go instead.
func DenyRedirect(target string) Decision {
	if target == "" {
		target = "/"
	}
	return Decision{redirect: target}
}

// Allowed reports whether the navigation may proceed.
func (d Decision) Allowed() bool {
	return d.redirect == ""
}

// Target returns the redirect target of a denial.
func (d Decision) Target() string {
	return d.redirect
}

// String implements fmt.Stringer.
func (d Decision) String() string {
	if d.Allowed() {
		return "allow"
	}
	return "deny_redirect(" + d.redirect + ")"
}

// Authorize applies the four-way rule: the protected subtree needs a session,
// and signed-in users are moved off public pages onto the dashboard.
// Unknown session state is handled as absent.
func Authorize(path string, state SessionState) Decision {
	signedIn := state == SessionPresent
	if IsProtected(path) {
		if signedIn {
			return Allow()
		}
		return DenyRedirect(LoginPath)
	}
	if signedIn {
		return DenyRedirect(HomePath)
	}
	return Allow()
}

// IsProtected reports whether path lies in the protected subtree. Matching is
// segment aware: "/dashboard" and "/dashboard/x" match, "/dashboards" does not.
func IsProtected(path string) bool {
	return hasSegmentPrefix(path, ProtectedPrefix)
}

func hasSegmentPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/'
}
