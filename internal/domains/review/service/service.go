package service

import (
	"context"
	"fmt"
	"time"

	customermodel "buxta-backend/internal/domains/customer/model"
	"buxta-backend/internal/domains/review/model"
	"buxta-backend/internal/domains/review/repository"
	"buxta-backend/internal/shared"
	"buxta-backend/pkg/cache"
	"buxta-backend/pkg/logger"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, bookSlug string, in model.ReviewInput) (*model.Review, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Review, int, *model.Stats, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Review, error)
	Act(ctx context.Context, id uuid.UUID, action string) (*model.ActionResult, error)
	BulkAct(ctx context.Context, action string, ids []uuid.UUID) (string, error)
}

// CustomerResolver finds (or lazily creates) the customer profile of a user
type CustomerResolver interface {
	GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*customermodel.Customer, error)
}

type reviewService struct {
	repo      repository.Repository
	customers CustomerResolver
	cache     cache.Cache
	now       func() time.Time
}

func NewReviewService(repo repository.Repository, customers CustomerResolver, c cache.Cache) ServiceInterface {
	return &reviewService{repo: repo, customers: customers, cache: c, now: time.Now}
}

// Create submits a review that stays hidden until staff approve it
func (s *reviewService) Create(ctx context.Context, userID uuid.UUID, bookSlug string, in model.ReviewInput) (*model.Review, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	r := &model.Review{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		Rating:     in.Rating,
		Title:      in.Title,
		Content:    in.Content,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, r, bookSlug); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *reviewService) List(ctx context.Context, filter model.ListFilter) ([]model.Review, int, *model.Stats, error) {
	reviews, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, nil, err
	}
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, 0, nil, err
	}
	return reviews, total, stats, nil
}

func (s *reviewService) Get(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *reviewService) Act(ctx context.Context, id uuid.UUID, action string) (*model.ActionResult, error) {
	result := &model.ActionResult{}
	switch action {
	case model.ActionApprove, model.ActionReject, model.ActionDelete:
		var n int
		var err error
		if action == model.ActionDelete {
			n, err = s.repo.Delete(ctx, []uuid.UUID{id})
		} else {
			n, err = s.repo.SetApproved(ctx, []uuid.UUID{id}, action == model.ActionApprove)
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, model.ErrReviewNotFound
		}
		result.Message = map[string]string{
			model.ActionApprove: "Review approved successfully!",
			model.ActionReject:  "Review rejected successfully!",
			model.ActionDelete:  "Review deleted successfully!",
		}[action]

	case model.ActionToggleVerified:
		verified, err := s.repo.ToggleVerified(ctx, id)
		if err != nil {
			return nil, err
		}
		result.IsVerified = &verified
		result.Message = "Review marked as unverified"
		if verified {
			result.Message = "Review marked as verified purchase"
		}

	default:
		return nil, model.ErrInvalidAction
	}

	s.invalidate(ctx)
	return result, nil
}

func (s *reviewService) BulkAct(ctx context.Context, action string, ids []uuid.UUID) (string, error) {
	if len(ids) == 0 {
		return "", model.ErrNoReviewsChosen
	}

	var n int
	var err error
	var verb string
	switch action {
	case model.ActionApprove:
		n, err = s.repo.SetApproved(ctx, ids, true)
		verb = "approved"
	case model.ActionReject:
		n, err = s.repo.SetApproved(ctx, ids, false)
		verb = "rejected"
	case model.ActionDelete:
		n, err = s.repo.Delete(ctx, ids)
		verb = "deleted"
	default:
		return "", model.ErrInvalidAction
	}
	if err != nil {
		return "", err
	}

	s.invalidate(ctx)
	return fmt.Sprintf("%d reviews %s successfully!", n, verb), nil
}

func (s *reviewService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, shared.StorefrontCacheKeys); err != nil {
		logger.Warn("storefront cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
