package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/arthousehq/photofolio/pkg/photofolio/auth"
)

// RequireAdmin guards a route group with the admin bearer token. A nil admin
// disables the guard entirely (development deployments without a credential).
func RequireAdmin(admin *auth.Admin) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if admin == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := admin.VerifyBearer(r.Header.Get("Authorization"))
			if err != nil {
				slog.Warn("unauthorized request", "path", r.URL.Path, "error", err)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, ErrorResponse{Error: "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORS allows browser clients from any origin. Used in development; a real
// deployment fronts the API with its own CORS policy.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
