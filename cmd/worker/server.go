package main

import (
	"context"

	"buxta-backend/internal/config"
	"buxta-backend/internal/shared"
	"buxta-backend/pkg/container"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// queueWeights favour order notifications over maintenance
var queueWeights = map[string]int{
	shared.QueueCritical: 6,
	shared.QueueDefault:  3,
	shared.QueueLow:      1,
}

type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(cfg *config.Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		container.RedisOpt(cfg.Redis),
		asynq.Config{
			Queues:      queueWeights,
			Concurrency: cfg.Worker.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				log.Error().
					Err(err).
					Str("task", task.Type()).
					Int("retry", retried).
					Int("max_retry", maxRetry).
					Msg("[WORKER] task failed")
			}),
		},
	)

	go func() {
		log.Info().Msg("[WORKER] starting")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("[WORKER] failed")
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown waits for in-flight tasks (asynq's ShutdownTimeout, 8s by default)
func (s *asynqServer) Shutdown() {
	log.Info().Msg("[WORKER] shutting down")
	s.Server.Shutdown()
	log.Info().Msg("[WORKER] stopped")
}
