package job

import (
	"context"
	"fmt"

	"buxta-backend/internal/domains/cart/service"
	"buxta-backend/internal/infrastructure/queue"
	"buxta-backend/internal/shared"

	"github.com/hibiken/asynq"
)

// CleanupAbandonedHandler runs on the scheduler and drops stale anonymous carts
type CleanupAbandonedHandler struct {
	carts service.ServiceInterface
}

func NewCleanupAbandonedHandler(carts service.ServiceInterface) *CleanupAbandonedHandler {
	return &CleanupAbandonedHandler{carts: carts}
}

func (h *CleanupAbandonedHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload := shared.CleanupAbandonedCartsPayload{OlderThanDays: shared.DefaultAbandonedCartMaxDays}
	if len(task.Payload()) > 0 {
		if err := queue.Unmarshal(task, &payload); err != nil {
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
	}
	if payload.OlderThanDays <= 0 {
		payload.OlderThanDays = shared.DefaultAbandonedCartMaxDays
	}

	if _, err := h.carts.CleanupAbandoned(ctx, payload.OlderThanDays); err != nil {
		return fmt.Errorf("cleanup abandoned carts: %w", err)
	}
	return nil
}
