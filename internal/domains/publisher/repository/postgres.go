package repository

import (
	"context"
	"errors"
	"fmt"

	"buxta-backend/internal/domains/publisher/model"
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

const counted = `
	WITH counted AS (
		SELECT p.*, (SELECT COUNT(*) FROM books b WHERE b.publisher_id = p.id) AS book_count
		FROM publishers p
	)`

const publisherColumns = `id, name, address, website, email, founded_year, book_count, created_at, updated_at`

func searchFilter(search string) utils.WhereBuilder {
	var where utils.WhereBuilder
	if search != "" {
		where.Add("(name ILIKE ? OR address ILIKE ? OR email ILIKE ?)", utils.LikePattern(search))
	}
	return where
}

func scanPublisher(row pgx.Row) (*model.Publisher, error) {
	p := &model.Publisher{}
	err := row.Scan(&p.ID, &p.Name, &p.Address, &p.Website, &p.Email, &p.FoundedYear, &p.BookCount, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Publisher, int, error) {
	where := searchFilter(filter.Search)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM publishers`+where.SQL(), where.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count publishers: %w", err)
	}

	query := counted + ` SELECT ` + publisherColumns + ` FROM counted` + where.SQL() +
		` ORDER BY name LIMIT ` + where.Next(filter.Limit) + ` OFFSET ` + where.Next((filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, where.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list publishers: %w", err)
	}
	defer rows.Close()

	publishers := make([]model.Publisher, 0)
	for rows.Next() {
		p, err := scanPublisher(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan publisher: %w", err)
		}
		publishers = append(publishers, *p)
	}
	return publishers, total, rows.Err()
}

func (r *postgresRepository) Stats(ctx context.Context, search string) (*model.Stats, error) {
	where := searchFilter(search)

	stats := &model.Stats{}
	err := r.pool.QueryRow(ctx, counted+`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE book_count > 0),
		       COUNT(*) FILTER (WHERE book_count = 0)
		FROM counted`+where.SQL(), where.Args...,
	).Scan(&stats.Total, &stats.WithBooks, &stats.WithoutBooks)
	if err != nil {
		return nil, fmt.Errorf("publisher stats: %w", err)
	}

	top, err := scanPublisher(r.pool.QueryRow(ctx,
		counted+` SELECT `+publisherColumns+` FROM counted`+where.SQL()+` ORDER BY book_count DESC, name LIMIT 1`,
		where.Args...,
	))
	switch {
	case err == nil:
		stats.MostProductive = top
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("most productive publisher: %w", err)
	}
	return stats, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Publisher, error) {
	p, err := scanPublisher(r.pool.QueryRow(ctx, counted+` SELECT `+publisherColumns+` FROM counted WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPublisherNotFound
		}
		return nil, fmt.Errorf("get publisher: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) Create(ctx context.Context, p *model.Publisher) error {
	query := `
		INSERT INTO publishers (id, name, address, website, email, founded_year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Address, p.Website, p.Email, p.FoundedYear, p.CreatedAt, p.UpdatedAt)
	return mapWriteError(err)
}

func (r *postgresRepository) Update(ctx context.Context, p *model.Publisher) error {
	query := `
		UPDATE publishers
		SET name = $2, address = $3, website = $4, email = $5, founded_year = $6, updated_at = $7
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Address, p.Website, p.Email, p.FoundedYear, p.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPublisherNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// books.publisher_id is ON DELETE SET NULL, so the guard lives in the statement
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM publishers
		WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM books WHERE publisher_id = $1)`, id)
	if err != nil {
		return fmt.Errorf("delete publisher: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return model.ErrPublisherHasBooks
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case utils.IsUniqueViolation(err, "publishers_name_ci_key"):
		return model.ErrPublisherNameExists
	default:
		return fmt.Errorf("write publisher: %w", err)
	}
}
