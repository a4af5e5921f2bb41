package controllers

import (
	"net/http"
	"time"

	"github.com/arto/mercator-backend/api/responses"
	"github.com/arto/mercator-backend/api/validators"
	"github.com/arto/mercator-backend/pkg/auth/session"
	"github.com/arto/mercator-backend/pkg/config"
	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"github.com/arto/mercator-backend/pkg/logger"
	"github.com/arto/mercator-backend/pkg/security"
)

type adminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// AdminLogin checks the shared editor secret and sets the session cookie.
// An unset secret is a deployment fault, not a bad credential, and is
// reported as such.
func AdminLogin(cfg config.AdminConfig, sessions *session.Manager, secureCookies bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !cfg.Configured() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConfiguration, "admin password not configured"))
			return
		}
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConfiguration, "admin sessions not configured"))
			return
		}

		var payload adminLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ok, err := verifyAdminPassword(cfg, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "admin password hash unreadable"))
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid password"))
			return
		}

		now := time.Now()
		token, err := sessions.Mint(now)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint admin session"))
			return
		}

		http.SetCookie(w, sessions.Cookie(token, now, secureCookies))
		responses.WriteSuccess(w, map[string]bool{"ok": true})
	}
}

func AdminLogout(secureCookies bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, session.ExpiredCookie(secureCookies))
		responses.WriteSuccess(w, map[string]bool{"ok": true})
	}
}

func verifyAdminPassword(cfg config.AdminConfig, candidate string) (bool, error) {
	if cfg.PasswordHash != "" {
		return security.VerifyPassword(candidate, cfg.PasswordHash)
	}
	return security.ConstantTimeEquals(candidate, cfg.Password), nil
}
