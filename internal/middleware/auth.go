package middleware

import (
	"net/http"

	"github.com/aseed/a-seed/backend/internal/service/auth"
	"github.com/aseed/a-seed/backend/pkg/utils"
)

// RequireUser rejects requests whose cookie carries no user identity.
func RequireUser(sessions *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions.Identity(r).UserID == "" {
				utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests whose cookie lacks the admin flag.
func RequireAdmin(sessions *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sessions.Identity(r).Admin {
				utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
