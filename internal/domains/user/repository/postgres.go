package repository

import (
	"context"
	"errors"
	"fmt"

	"buxta-backend/internal/domains/user/model"
	"buxta-backend/internal/shared/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const selectUser = `
	SELECT id, email, password_hash, first_name, last_name, role,
	       is_active, last_login_at, created_at, updated_at
	FROM users`

func (r *postgresRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if utils.IsUniqueViolation(err, "users_email_key") {
			return model.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, selectUser+` WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *postgresRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role,
		&u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *postgresRepository) UpsertStaff(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'staff', TRUE, NOW(), NOW())
		ON CONFLICT (LOWER(email)) DO UPDATE
		SET role = 'staff', is_active = TRUE, password_hash = EXCLUDED.password_hash, updated_at = NOW()
		RETURNING id, role, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName).
		Scan(&u.ID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert staff user: %w", err)
	}
	u.IsActive = true
	return nil
}
