package service

import (
	"context"

	"buxta-backend/internal/domains/user/model"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.UserResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)

	// EnsureStaff bootstraps the staff account configured for this deployment
	EnsureStaff(ctx context.Context, email, password string) error
}

// TokenIssuer is satisfied by *jwt.Manager
type TokenIssuer interface {
	GenerateAccessToken(userID, email, role string) (string, error)
}
