package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/avaldez-dev/gatepass-backend/api/responses"
	"github.com/avaldez-dev/gatepass-backend/pkg/config"
	"github.com/avaldez-dev/gatepass-backend/pkg/db"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
	"github.com/avaldez-dev/gatepass-backend/pkg/redis"
)

const readinessTimeout = 3 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GatePass-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores so a failing dependency pulls the pod
// out of rotation.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GatePass-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				checks["postgres"] = err.Error()
				healthy = false
			} else {
				checks["postgres"] = "ok"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
