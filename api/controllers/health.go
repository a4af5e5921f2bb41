package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/arto/mercator-backend/api/responses"
	"github.com/arto/mercator-backend/pkg/config"
	"github.com/arto/mercator-backend/pkg/db"
	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"github.com/arto/mercator-backend/pkg/logger"
	"github.com/arto/mercator-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Mercator-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes every hard dependency. The redis pinger may be nil
// when the event guard is not configured.
func HealthReady(cfg *config.Config, database db.Pinger, cache redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Mercator-Env", cfg.App.Env)

		var probeErr error
		if database != nil {
			probeErr = multierr.Append(probeErr, database.Ping(r.Context()))
		}
		if cache != nil {
			probeErr = multierr.Append(probeErr, cache.Ping(r.Context()))
		}

		if probeErr != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, probeErr, "readiness probe failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
