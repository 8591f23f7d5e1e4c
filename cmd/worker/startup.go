package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"buxta-backend/internal/config"
	"buxta-backend/pkg/container"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
	"github.com/rs/zerolog/log"
)

// HealthChecker verifies the worker's dependencies at startup and on /ready
type HealthChecker struct {
	redisClient *redis.Client
	container   *container.Container
}

func newHealthChecker(cfg *config.Config, c *container.Container) *HealthChecker {
	return &HealthChecker{
		redisClient: redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			MaintNotificationsConfig: &maintnotifications.Config{
				Mode: maintnotifications.ModeDisabled,
			},
		}),
		container: c,
	}
}

// checkAll runs every dependency check; Redis is mandatory for the worker
func (h *HealthChecker) checkAll(ctx context.Context) error {
	checks := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"redis", h.checkRedis},
		{"database", h.container.DB.HealthCheck},
	}

	for _, check := range checks {
		if err := check.fn(ctx); err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("[STARTUP] health check failed")
			return fmt.Errorf("%s check failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("[STARTUP] ok")
	}
	return nil
}

func (h *HealthChecker) checkRedis(ctx context.Context) error {
	return h.redisClient.Ping(ctx).Err()
}

func (h *HealthChecker) Close() error {
	return h.redisClient.Close()
}

// startHealthCheckServer serves /health (liveness) and /ready (dependencies)
func startHealthCheckServer(port string, checker *HealthChecker) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "UP", "service": "buxta-worker"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := checker.checkAll(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "NOT_READY", "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "READY"})
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("port", port).Msg("[HEALTH] listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("[HEALTH] failed to start")
		}
	}()
	return srv
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
