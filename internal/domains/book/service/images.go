package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"buxta-backend/internal/domains/book/model"
	"buxta-backend/internal/domains/book/repository"
	"buxta-backend/internal/infrastructure/queue"
	"buxta-backend/internal/infrastructure/storage"
	"buxta-backend/internal/shared"
	"buxta-backend/pkg/cache"
	"buxta-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type imageService struct {
	books     repository.Repository
	repo      repository.ImageRepository
	storage   ObjectStorage
	processor ImageProcessor
	queue     queue.Enqueuer
	cache     cache.Cache
	now       func() time.Time
}

func NewImageService(
	books repository.Repository,
	repo repository.ImageRepository,
	store ObjectStorage,
	processor ImageProcessor,
	q queue.Enqueuer,
	c cache.Cache,
) ImageService {
	return &imageService{
		books:     books,
		repo:      repo,
		storage:   store,
		processor: processor,
		queue:     q,
		cache:     c,
		now:       time.Now,
	}
}

func (s *imageService) List(ctx context.Context, bookID uuid.UUID) ([]model.BookImage, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, err
	}
	return s.repo.ListByBook(ctx, bookID)
}

type pendingUpload struct {
	file        model.UploadFile
	contentType string
	ext         string
}

// Upload validates every file before storing any of them
func (s *imageService) Upload(ctx context.Context, bookID uuid.UUID, files []model.UploadFile) ([]model.BookImage, error) {
	if len(files) == 0 {
		return nil, model.ErrNoImages
	}
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	// 1. Sniff every file first so a bad one rejects the batch before any upload
	pending := make([]pendingUpload, 0, len(files))
	coverIndex := -1
	for i, f := range files {
		format, err := s.processor.ValidateImage(f.Data)
		if err != nil {
			return nil, imageError(f.Filename, err)
		}
		if f.IsCover {
			coverIndex = i
		}
		pending = append(pending, pendingUpload{file: f, contentType: storage.ContentType(format), ext: storage.Extension(format)})
	}

	// 2. Store originals; a failure removes what was already written
	now := s.now()
	images := make([]model.BookImage, 0, len(pending))
	uploaded := make([]string, 0, len(pending))
	for _, p := range pending {
		id := uuid.New()
		key := model.ObjectPrefix(bookID, id) + p.ext
		url, err := s.storage.Upload(ctx, key, p.file.Data, p.contentType)
		if err != nil {
			s.cleanup(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, key)
		images = append(images, model.BookImage{
			ID:        id,
			ImageURL:  url,
			ObjectKey: key,
			AltText:   book.Title,
			CreatedAt: now,
		})
	}

	// 3. Record rows and pick the primary under the book lock
	saved, err := s.repo.Add(ctx, bookID, images, coverIndex)
	if err != nil {
		s.cleanup(ctx, uploaded)
		return nil, err
	}
	invalidateStorefront(ctx, s.cache)

	// 4. Variants are rendered by the worker
	for _, img := range saved {
		payload := shared.ProcessBookImagePayload{
			BookID:    bookID.String(),
			ImageID:   img.ID.String(),
			ObjectKey: img.ObjectKey,
		}
		if err := s.queue.Enqueue(ctx, shared.TypeProcessBookImage, payload, asynq.Queue(shared.QueueDefault), asynq.MaxRetry(3)); err != nil {
			logger.Warn("failed to enqueue image processing", map[string]interface{}{
				"image_id": img.ID.String(),
				"error":    err.Error(),
			})
		}
	}
	return saved, nil
}

func imageError(filename string, err error) error {
	msg := "Invalid image"
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		msg = "Image size must be less than 5MB"
	case errors.Is(err, storage.ErrUnsupportedFormat), errors.Is(err, storage.ErrNotAnImage):
		msg = "Only JPEG and PNG images are allowed"
	}
	if filename != "" {
		msg = fmt.Sprintf("%s: %s", filename, msg)
	}
	return model.ErrInvalidImage.WithMessage("%s", msg)
}

func (s *imageService) cleanup(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.Warn("failed to remove orphaned upload", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
}

func (s *imageService) SetPrimary(ctx context.Context, bookID, imageID uuid.UUID) error {
	if err := s.repo.SetPrimary(ctx, bookID, imageID); err != nil {
		return err
	}
	invalidateStorefront(ctx, s.cache)
	return nil
}

// Delete removes the row in a transaction, then the stored original and variants
func (s *imageService) Delete(ctx context.Context, bookID, imageID uuid.UUID) error {
	img, err := s.repo.Delete(ctx, bookID, imageID)
	if err != nil {
		return err
	}
	invalidateStorefront(ctx, s.cache)

	payload := shared.DeleteStorageObjectsPayload{Prefix: model.ObjectPrefix(bookID, img.ID)}
	if err := s.queue.Enqueue(ctx, shared.TypeDeleteStorageObjects, payload, asynq.Queue(shared.QueueLow)); err != nil {
		logger.Warn("failed to enqueue image cleanup", map[string]interface{}{
			"image_id": imageID.String(),
			"error":    err.Error(),
		})
	}
	return nil
}

// ProcessVariants renders thumbnail/medium/large copies of an uploaded original
func (s *imageService) ProcessVariants(ctx context.Context, p shared.ProcessBookImagePayload) error {
	imageID, err := uuid.Parse(p.ImageID)
	if err != nil {
		return fmt.Errorf("invalid image id %q: %w", p.ImageID, err)
	}

	original, err := s.storage.Download(ctx, p.ObjectKey)
	if err != nil {
		return err
	}
	variants, err := s.processor.ProcessImage(original)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(p.ObjectKey, path.Ext(p.ObjectKey))
	urls := make(map[string]string, len(variants))
	for name, data := range variants {
		url, err := s.storage.Upload(ctx, base+"_"+name+".jpg", data, "image/jpeg")
		if err != nil {
			return fmt.Errorf("upload %s variant: %w", name, err)
		}
		urls[name] = url
	}

	if err := s.repo.UpdateVariants(ctx, imageID, urls["thumbnail"], urls["medium"], urls["large"]); err != nil {
		if errors.Is(err, model.ErrImageNotFound) {
			// image deleted while we worked; drop what we just wrote
			_ = s.storage.DeleteByPrefix(ctx, base)
			return nil
		}
		return err
	}
	invalidateStorefront(ctx, s.cache)
	return nil
}

func (s *imageService) DeleteObjects(ctx context.Context, p shared.DeleteStorageObjectsPayload) error {
	if p.Prefix != "" {
		if err := s.storage.DeleteByPrefix(ctx, p.Prefix); err != nil {
			return err
		}
	}
	for _, key := range p.Keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
