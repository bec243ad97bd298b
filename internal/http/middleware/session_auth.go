package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/docassist/platform/internal/session"
)

// OptionalSession resolves the bearer token into a session and stores
// it on the request context. Missing or malformed tokens resolve to the
// anonymous session; the request always proceeds. Public pages like the
// payment return must keep working for visitors without a login.
func OptionalSession(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromBearer(r.Header.Get("Authorization"), secret)
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

// RequireSession rejects requests whose context session is anonymous.
// It must run after OptionalSession.
func RequireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !session.FromContext(r.Context()).Authenticated {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "authentication required"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
