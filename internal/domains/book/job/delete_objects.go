package job

import (
	"context"
	"fmt"

	"buxta-backend/internal/domains/book/service"
	"buxta-backend/internal/infrastructure/queue"
	"buxta-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// DeleteObjectsHandler removes stored files after their rows are gone
type DeleteObjectsHandler struct {
	images service.ImageService
}

func NewDeleteObjectsHandler(images service.ImageService) *DeleteObjectsHandler {
	return &DeleteObjectsHandler{images: images}
}

func (h *DeleteObjectsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteStorageObjectsPayload
	if err := queue.Unmarshal(task, &payload); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if err := h.images.DeleteObjects(ctx, payload); err != nil {
		log.Error().Err(err).Str("prefix", payload.Prefix).Int("keys", len(payload.Keys)).Msg("failed to delete storage objects")
		return err
	}

	log.Info().Str("prefix", payload.Prefix).Int("keys", len(payload.Keys)).Msg("storage objects deleted")
	return nil
}
