package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"buxta-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Scheduler registers periodic tasks (cron specs) with asynq
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(opt asynq.RedisClientOpt) *Scheduler {
	return &Scheduler{
		scheduler: asynq.NewScheduler(opt, &asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		}),
	}
}

// RegisterJobs registers every periodic job of the shop
func (s *Scheduler) RegisterJobs(abandonedCartDays int) error {
	if abandonedCartDays <= 0 {
		abandonedCartDays = shared.DefaultAbandonedCartMaxDays
	}

	payload, err := json.Marshal(shared.CleanupAbandonedCartsPayload{OlderThanDays: abandonedCartDays})
	if err != nil {
		return err
	}

	// daily at 03:30 UTC
	entryID, err := s.scheduler.Register(
		"30 3 * * *",
		asynq.NewTask(shared.TypeCleanupAbandonedCarts, payload),
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("register %s: %w", shared.TypeCleanupAbandonedCarts, err)
	}

	log.Info().Str("entry_id", entryID).Str("task", shared.TypeCleanupAbandonedCarts).Msg("[SCHEDULER] job registered")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
