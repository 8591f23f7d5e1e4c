package repository

import (
	"context"

	"buxta-backend/internal/domains/review/model"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts a review for the active book with that slug
	Create(ctx context.Context, r *model.Review, bookSlug string) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Review, int, error)
	Stats(ctx context.Context) (*model.Stats, error)

	SetApproved(ctx context.Context, ids []uuid.UUID, approved bool) (int, error)
	ToggleVerified(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, ids []uuid.UUID) (int, error)
}
