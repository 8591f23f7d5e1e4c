package service

import (
	"context"
	"time"

	"buxta-backend/internal/domains/book/model"
	"buxta-backend/internal/domains/book/repository"
	"buxta-backend/internal/infrastructure/queue"
	"buxta-backend/internal/shared"
	"buxta-backend/internal/shared/utils"
	"buxta-backend/pkg/cache"
	"buxta-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/lib/pq"
)

type adminService struct {
	repo   repository.Repository
	images repository.ImageRepository
	queue  queue.Enqueuer
	cache  cache.Cache
	now    func() time.Time
}

func NewAdminService(
	repo repository.Repository,
	images repository.ImageRepository,
	q queue.Enqueuer,
	c cache.Cache,
) AdminService {
	return &adminService{repo: repo, images: images, queue: q, cache: c, now: time.Now}
}

func (s *adminService) List(ctx context.Context, filter model.AdminListFilter) ([]model.Book, int, *model.AdminStats, error) {
	books, total, err := s.repo.AdminList(ctx, filter)
	if err != nil {
		return nil, 0, nil, err
	}
	stats, err := s.repo.AdminStats(ctx)
	if err != nil {
		return nil, 0, nil, err
	}
	return books, total, stats, nil
}

func (s *adminService) Get(ctx context.Context, id uuid.UUID) (*model.BookDetail, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &model.BookDetail{Book: *book}
	if detail.Images, err = s.images.ListByBook(ctx, id); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *adminService) Create(ctx context.Context, in model.BookInput) (*model.Book, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	b := &model.Book{
		ID:        uuid.New(),
		IsActive:  true,
		CreatedAt: now,
	}
	if err := s.apply(ctx, b, in); err != nil {
		return nil, err
	}
	b.UpdatedAt = now

	if err := s.repo.Create(ctx, b, in.AuthorIDs, in.CategoryIDs); err != nil {
		return nil, err
	}
	invalidateStorefront(ctx, s.cache)
	return s.repo.GetByID(ctx, b.ID)
}

func (s *adminService) Update(ctx context.Context, id uuid.UUID, in model.BookInput) (*model.Book, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, b, in); err != nil {
		return nil, err
	}
	b.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, b, in.AuthorIDs, in.CategoryIDs); err != nil {
		return nil, err
	}
	invalidateStorefront(ctx, s.cache)
	return s.repo.GetByID(ctx, id)
}

// apply runs the uniqueness checks and copies the input onto b
func (s *adminService) apply(ctx context.Context, b *model.Book, in model.BookInput) error {
	taken, err := s.repo.TitleExists(ctx, in.Title, b.ID)
	if err != nil {
		return err
	}
	if taken {
		return model.ErrTitleExists
	}

	if in.ISBN13 != "" {
		taken, err := s.repo.ISBN13Exists(ctx, in.ISBN13, b.ID)
		if err != nil {
			return err
		}
		if taken {
			return model.ErrISBN13Exists
		}
	}

	if b.Slug == "" || b.Title != in.Title {
		slug, err := utils.UniqueSlug(utils.GenerateSlug(in.Title), func(candidate string) (bool, error) {
			return s.repo.SlugExists(ctx, candidate, b.ID)
		})
		if err != nil {
			return err
		}
		b.Slug = slug
	}

	publicationDate, err := utils.ParseOptionalDate(in.PublicationDate)
	if err != nil {
		return err
	}

	b.Title = in.Title
	b.Subtitle = in.Subtitle
	b.ISBN10 = optional(in.ISBN10)
	b.ISBN13 = optional(in.ISBN13)
	b.PublisherID = in.PublisherID
	b.Description = in.Description
	b.Excerpt = in.Excerpt
	b.TableOfContents = in.TableOfContents
	b.Format = in.Format
	b.Condition = in.Condition
	b.Pages = in.Pages
	b.Language = in.Language
	b.Dimensions = in.Dimensions
	b.Weight = in.Weight
	b.PublicationDate = publicationDate
	b.Edition = in.Edition
	b.Price = *in.Price
	b.CompareAtPrice = in.CompareAtPrice
	b.CostPrice = in.CostPrice
	b.StockQuantity = in.StockQuantity
	b.LowStockThreshold = model.DefaultLowStockThreshold
	if in.LowStockThreshold != nil {
		b.LowStockThreshold = *in.LowStockThreshold
	}
	b.MetaTitle = in.MetaTitle
	b.MetaDescription = in.MetaDescription
	b.MetaKeywords = pq.StringArray(in.MetaKeywords)
	if b.MetaKeywords == nil {
		b.MetaKeywords = pq.StringArray{}
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	b.IsFeatured = in.IsFeatured
	b.IsBestseller = in.IsBestseller
	b.IsNewArrival = in.IsNewArrival
	b.IsOnSale = in.IsOnSale
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *adminService) ToggleActive(ctx context.Context, id uuid.UUID) (bool, error) {
	active, err := s.repo.ToggleActive(ctx, id)
	if err != nil {
		return false, err
	}
	invalidateStorefront(ctx, s.cache)
	return active, nil
}

// Delete removes the row first; stored images are cleaned up by the worker afterwards
func (s *adminService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	invalidateStorefront(ctx, s.cache)

	payload := shared.DeleteStorageObjectsPayload{Prefix: model.BookPrefix(id)}
	if err := s.queue.Enqueue(ctx, shared.TypeDeleteStorageObjects, payload, asynq.Queue(shared.QueueLow)); err != nil {
		logger.Warn("failed to enqueue book image cleanup", map[string]interface{}{
			"book_id": id.String(),
			"error":   err.Error(),
		})
	}
	return nil
}
