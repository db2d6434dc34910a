// Package api implements the Visper REST API using chi.
package api

import (
	"net/http"
	"strings"

	"github.com/visperhq/visper/internal/auth"
)

// AuthMiddleware resolves the "Authorization: Bearer <token>" header to a
// verified user id via the configured Verifier and injects it into the
// request context. Requests the Verifier rejects get 401.
func AuthMiddleware(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}

			userID, err := verifier.Verify(r.Context(), token)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

// requestUser extracts the verified user id placed by AuthMiddleware.
func requestUser(r *http.Request) string {
	userID, _ := auth.UserID(r.Context())
	return userID
}
