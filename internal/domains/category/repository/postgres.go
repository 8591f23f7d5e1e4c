package repository

import (
	"context"
	"errors"
	"fmt"

	"buxta-backend/internal/domains/category/model"
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

const selectCategory = `
	SELECT c.id, c.name, c.slug, c.description, c.image_url, c.parent_id, c.is_active,
	       (SELECT COUNT(*) FROM book_categories bc WHERE bc.category_id = c.id) AS book_count,
	       c.created_at, c.updated_at
	FROM categories c`

func scanCategory(row pgx.Row, c *model.Category) error {
	return row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.ParentID, &c.IsActive,
		&c.BookCount, &c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Category, int, error) {
	var where utils.WhereBuilder
	if filter.Search != "" {
		where.Add("(c.name ILIKE ? OR c.description ILIKE ?)", utils.LikePattern(filter.Search))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories c`+where.SQL(), where.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	query := selectCategory + where.SQL() + ` ORDER BY c.name`
	if filter.Limit > 0 {
		query += ` LIMIT ` + where.Next(filter.Limit) + ` OFFSET ` + where.Next((filter.Page-1)*filter.Limit)
	}

	categories, err := r.query(ctx, query, where.Args...)
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *postgresRepository) ListActiveRoots(ctx context.Context) ([]model.Category, error) {
	return r.query(ctx, selectCategory+` WHERE c.is_active = TRUE AND c.parent_id IS NULL ORDER BY c.name`)
}

func (r *postgresRepository) query(ctx context.Context, query string, args ...interface{}) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return r.getOne(ctx, selectCategory+` WHERE c.id = $1`, id)
}

func (r *postgresRepository) GetActiveBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return r.getOne(ctx, selectCategory+` WHERE c.slug = $1 AND c.is_active = TRUE`, slug)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.Category, error) {
	var c model.Category
	if err := scanCategory(r.pool.QueryRow(ctx, query, arg), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *postgresRepository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`, slug, excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *postgresRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, description, image_url, parent_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.Slug, c.Description, c.ImageURL, c.ParentID, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	return mapWriteError(err)
}

func (r *postgresRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, image_url = $5, parent_id = $6, is_active = $7, updated_at = $8
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.Slug, c.Description, c.ImageURL, c.ParentID, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func (r *postgresRepository) ToggleActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var active bool
	err := r.pool.QueryRow(ctx,
		`UPDATE categories SET is_active = NOT is_active, updated_at = NOW() WHERE id = $1 RETURNING is_active`, id,
	).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, model.ErrCategoryNotFound
	}
	return active, err
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if utils.IsForeignKeyViolation(err, "") {
			return model.ErrCategoryHasBooks
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case utils.IsUniqueViolation(err, "categories_name_ci_key"):
		return model.ErrCategoryNameExists
	case utils.IsForeignKeyViolation(err, ""):
		return model.ErrParentNotFound
	default:
		return fmt.Errorf("write category: %w", err)
	}
}
