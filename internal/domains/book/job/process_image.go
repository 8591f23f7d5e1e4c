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

// ProcessImageHandler renders the size variants of an uploaded book image
type ProcessImageHandler struct {
	images service.ImageService
}

func NewProcessImageHandler(images service.ImageService) *ProcessImageHandler {
	return &ProcessImageHandler{images: images}
}

func (h *ProcessImageHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ProcessBookImagePayload
	if err := queue.Unmarshal(task, &payload); err != nil {
		log.Error().Err(err).Msg("bad process image payload")
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	log.Info().Str("image_id", payload.ImageID).Str("book_id", payload.BookID).Msg("processing book image variants")

	if err := h.images.ProcessVariants(ctx, payload); err != nil {
		log.Error().Err(err).Str("image_id", payload.ImageID).Msg("failed to process image")
		return fmt.Errorf("process image: %w", err)
	}

	log.Info().Str("image_id", payload.ImageID).Msg("book image processed")
	return nil
}
