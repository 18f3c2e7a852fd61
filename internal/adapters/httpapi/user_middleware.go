package httpapi

import (
	"net/http"

	"github.com/wayfarer-travel/wayfarer-api/internal/app/users"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

// NewUserMiddleware resolves the local user bound to the authenticated
// subject, provisioning one on first contact, and stores the user ID in
// request context. It must run after the auth middleware.
func NewUserMiddleware(svc *users.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub, ok := SubjectFromContext(r.Context())
			if !ok {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
				return
			}

			u, err := svc.GetOrCreateBySubject(r.Context(), domain.SubjectID(sub), DisplayNameFromContext(r.Context()))
			if err != nil {
				writeAppError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), u.ID)))
		})
	}
}
