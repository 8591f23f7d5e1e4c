package repository

import (
	"context"

	"buxta-backend/internal/domains/publisher/model"

	"github.com/google/uuid"
)

type Repository interface {
	List(ctx context.Context, filter model.ListFilter) ([]model.Publisher, int, error)
	Stats(ctx context.Context, search string) (*model.Stats, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Publisher, error)
	Create(ctx context.Context, p *model.Publisher) error
	Update(ctx context.Context, p *model.Publisher) error

	// Delete refuses publishers that still have books
	Delete(ctx context.Context, id uuid.UUID) error
}
