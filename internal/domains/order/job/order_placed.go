package job

import (
	"context"
	"errors"
	"fmt"

	"buxta-backend/internal/domains/order/model"
	"buxta-backend/internal/domains/order/service"
	"buxta-backend/internal/infrastructure/queue"
	"buxta-backend/internal/shared"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// OrderPlacedHandler notifies staff and refreshes the dashboard once an order commits
type OrderPlacedHandler struct {
	orders service.ServiceInterface
}

func NewOrderPlacedHandler(orders service.ServiceInterface) *OrderPlacedHandler {
	return &OrderPlacedHandler{orders: orders}
}

func (h *OrderPlacedHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.OrderPlacedPayload
	if err := queue.Unmarshal(task, &payload); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		return fmt.Errorf("%w: invalid order id %q", asynq.SkipRetry, payload.OrderID)
	}

	if err := h.orders.NotifyPlaced(ctx, orderID); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		log.Error().Err(err).Str("order_number", payload.OrderNumber).Msg("order:placed failed")
		return err
	}

	log.Info().Str("order_number", payload.OrderNumber).Msg("order:placed processed")
	return nil
}
