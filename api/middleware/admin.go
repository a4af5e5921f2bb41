package middleware

import (
	"net/http"

	"github.com/arto/mercator-backend/api/responses"
	"github.com/arto/mercator-backend/pkg/auth/session"
	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"github.com/arto/mercator-backend/pkg/logger"
)

// Admin rejects requests whose admin session cookie is missing or invalid.
func Admin(sessions *session.Manager, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConfiguration, "admin sessions not configured"))
				return
			}

			cookie, err := r.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin session required"))
				return
			}

			if _, err := sessions.Parse(cookie.Value); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid admin session"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IsAdmin reports whether the request carries a valid admin session cookie.
// Used by handlers that serve both public and admin views of the same route.
func IsAdmin(sessions *session.Manager, r *http.Request) bool {
	if sessions == nil {
		return false
	}
	cookie, err := r.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, err = sessions.Parse(cookie.Value)
	return err == nil
}
