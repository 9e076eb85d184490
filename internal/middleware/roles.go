package middleware

import (
	"net/http"

	"vetusrex/internal/reqctx"
	helpers "vetusrex/internal/utils/helpres"
)

// OnlyRole ДОЛЖЕН стоять после Authenticator.Required, чтобы сессия уже была в контексте.
func OnlyRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := reqctx.GetSession(r.Context())
			if !ok || sess.Role != role {
				helpers.Error(w, http.StatusForbidden, "Доступ запрещён")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
