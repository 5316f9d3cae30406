// ABOUTME: Installs the feature flag manager into every request context
// ABOUTME: Lets services consult flags through featureflags.IsEnabled(ctx, ...)

package middleware

import (
	"net/http"

	"pagesmith-api/pkg/featureflags"
)

// FeatureFlags makes manager available to handlers and services
func FeatureFlags(manager featureflags.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(featureflags.WithManager(r.Context(), manager)))
		})
	}
}
