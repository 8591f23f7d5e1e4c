package repository

import (
	"context"

	"buxta-backend/internal/domains/author/model"

	"github.com/google/uuid"
)

type Repository interface {
	List(ctx context.Context, filter model.ListFilter) ([]model.Author, int, error)
	Stats(ctx context.Context, search string) (*model.Stats, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	Create(ctx context.Context, a *model.Author) error
	Update(ctx context.Context, a *model.Author) error
	Delete(ctx context.Context, id uuid.UUID) error
}
