package repository

import (
	"context"

	"buxta-backend/internal/domains/user/model"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error

	// UpsertStaff creates the account or promotes an existing one to staff
	// and resets its password.
	UpsertStaff(ctx context.Context, u *model.User) error
}
