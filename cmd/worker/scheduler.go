package main

import (
	"buxta-backend/internal/config"
	"buxta-backend/internal/infrastructure/queue"
	"buxta-backend/pkg/container"

	"github.com/rs/zerolog/log"
)

type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(cfg *config.Config) *asynqScheduler {
	scheduler := queue.NewScheduler(container.RedisOpt(cfg.Redis))

	if err := scheduler.RegisterJobs(cfg.Worker.AbandonedCartDays); err != nil {
		log.Fatal().Err(err).Msg("[SCHEDULER] failed to register jobs")
	}

	go func() {
		log.Info().Msg("[SCHEDULER] starting")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("[SCHEDULER] failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("[SCHEDULER] shutting down")
	s.Scheduler.Shutdown()
}
