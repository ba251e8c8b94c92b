package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/amaldonado/fixpoint-backend/api/responses"
	"github.com/amaldonado/fixpoint-backend/pkg/config"
	"github.com/amaldonado/fixpoint-backend/pkg/logger"
)

const readinessProbeTimeout = 3 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Fixpoint-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes every wired dependency and reports per-dependency
// status. A nil pinger means the dependency is not configured and is
// skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP, pubsubP pinger) http.HandlerFunc {
	probes := []struct {
		name   string
		pinger pinger
	}{
		{name: "database", pinger: dbP},
		{name: "redis", pinger: redisP},
		{name: "pubsub", pinger: pubsubP},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessProbeTimeout)
		defer cancel()

		w.Header().Set("X-Fixpoint-Env", cfg.App.Env)

		status := map[string]string{}
		healthy := true
		for _, probe := range probes {
			if probe.pinger == nil {
				status[probe.name] = "skipped"
				continue
			}
			if err := probe.pinger.Ping(ctx); err != nil {
				healthy = false
				status[probe.name] = "down"
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", probe.name), "health.probe_failed", err)
				}
				continue
			}
			status[probe.name] = "up"
		}

		if !healthy {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
			return
		}
		status["status"] = "ready"
		responses.WriteSuccess(w, status)
	}
}
