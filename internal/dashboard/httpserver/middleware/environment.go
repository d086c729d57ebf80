package middleware

import (
	"context"
	"net/http"
	"strings"
)

type environmentContextKey struct{}

// Environment attaches the deployment environment label to the request context
// so templates can render the environment badge. Empty values default to "Development".
func Environment(value string) func(http.Handler) http.Handler {
	label := EnvironmentLabel(value)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), environmentContextKey{}, label)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EnvironmentLabel title-cases a configured environment name.
func EnvironmentLabel(value string) string {
	label := strings.ToLower(strings.TrimSpace(value))
	if label == "" {
		return "Development"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// EnvironmentFromContext returns the environment label registered for the
// current request, defaulting to "Development" when unavailable.
func EnvironmentFromContext(ctx context.Context) string {
	if ctx == nil {
		return "Development"
	}
	if value, ok := ctx.Value(environmentContextKey{}).(string); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return "Development"
}

// EnvironmentBadge returns the short badge text for an environment label.
func EnvironmentBadge(label string) string {
	switch strings.ToLower(label) {
	case "production", "prod":
		return "PROD"
	case "staging", "stg":
		return "STG"
	case "development", "dev", "local":
		return "DEV"
	default:
		if len(label) > 4 {
			label = label[:4]
		}
		return strings.ToUpper(label)
	}
}
