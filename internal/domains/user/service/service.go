package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buxta-backend/internal/domains/user/model"
	"buxta-backend/internal/domains/user/repository"
	"buxta-backend/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

type userService struct {
	repo       repository.Repository
	tokens     TokenIssuer
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewUserService(repo repository.Repository, tokens TokenIssuer, tokenTTL time.Duration) ServiceInterface {
	return newUserService(repo, tokens, tokenTTL, DefaultBcryptCost)
}

func newUserService(repo repository.Repository, tokens TokenIssuer, tokenTTL time.Duration, cost int) *userService {
	return &userService{
		repo:       repo,
		tokens:     tokens,
		tokenTTL:   tokenTTL,
		bcryptCost: cost,
		now:        time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.UserResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := req.Email
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, model.ErrEmailAlreadyExists
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, fmt.Errorf("check email exists: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	resp := u.ToResponse()
	return &resp, nil
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, model.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, model.ErrUserInactive
	}

	token, err := s.tokens.GenerateAccessToken(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		logger.Warn("Failed to record last login", map[string]interface{}{
			"user_id": u.ID.String(),
			"error":   err.Error(),
		})
	}

	return &model.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   s.now().Add(s.tokenTTL),
		User:        u.ToResponse(),
	}, nil
}

func (s *userService) Me(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := u.ToResponse()
	return &resp, nil
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *userService) EnsureStaff(ctx context.Context, email, password string) error {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Store",
		LastName:     "Admin",
	}
	if err := s.repo.UpsertStaff(ctx, u); err != nil {
		return err
	}

	logger.Info("Staff account ready", map[string]interface{}{"email": email})
	return nil
}
