package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/flamoure/flamoure-backend/api/responses"
	"github.com/flamoure/flamoure-backend/pkg/config"
	"github.com/flamoure/flamoure-backend/pkg/db"
	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
	"github.com/flamoure/flamoure-backend/pkg/logger"
	pkgredis "github.com/flamoure/flamoure-backend/pkg/redis"
	"github.com/flamoure/flamoure-backend/pkg/storage/gcs"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Flamoure-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes the backing stores. Nil dependencies are skipped so
// partial wirings can share the handler.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Flamoure-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := []struct {
			name string
			ping func(context.Context) error
		}{
			{"database", pingOrNil(dbP)},
			{"redis", pingOrNil(redisP)},
			{"storage", pingOrNil(gcsP)},
		}
		for _, check := range checks {
			if check.ping == nil {
				continue
			}
			if err := check.ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

func pingOrNil(p interface{ Ping(context.Context) error }) func(context.Context) error {
	if p == nil {
		return nil
	}
	return p.Ping
}
