package middleware

import (
	"net/http"

	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/auth"
	"github.com/shashiranjanraj/stockpile/pkg/response"
)

// Auth requires a valid "Authorization: Bearer <key>" header and stores the
// resolved identity in the request context. Missing, malformed or unknown
// keys get a 403.
func Auth(a auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := auth.BearerToken(r)
			if key == "" {
				response.Error(w, http.StatusForbidden, "Unauthorized AuthKey")
				return
			}

			id, err := a.Authenticate(r.Context(), key)
			if err != nil {
				if apperr.Status(err) >= http.StatusInternalServerError {
					response.Fail(w, r, err)
					return
				}
				response.Error(w, http.StatusForbidden, apperr.Message(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}
