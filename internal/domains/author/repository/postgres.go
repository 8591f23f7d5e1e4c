package repository

import (
	"context"
	"errors"
	"fmt"

	"buxta-backend/internal/domains/author/model"
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

// counted exposes every author with its number of books
const counted = `
	WITH counted AS (
		SELECT a.*, (SELECT COUNT(*) FROM book_authors ba WHERE ba.author_id = a.id) AS book_count
		FROM authors a
	)`

const authorColumns = `id, first_name, last_name, bio, birth_date, death_date, photo_url, website, book_count, created_at, updated_at`

func searchFilter(search string) utils.WhereBuilder {
	var where utils.WhereBuilder
	if search != "" {
		where.Add("(first_name ILIKE ? OR last_name ILIKE ? OR bio ILIKE ?)", utils.LikePattern(search))
	}
	return where
}

func scanAuthor(row pgx.Row) (*model.Author, error) {
	a := &model.Author{}
	err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Bio, &a.BirthDate, &a.DeathDate,
		&a.PhotoURL, &a.Website, &a.BookCount, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.SetFullName()
	return a, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Author, int, error) {
	where := searchFilter(filter.Search)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors`+where.SQL(), where.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count authors: %w", err)
	}

	query := counted + ` SELECT ` + authorColumns + ` FROM counted` + where.SQL() +
		` ORDER BY last_name, first_name LIMIT ` + where.Next(filter.Limit) + ` OFFSET ` + where.Next((filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, where.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	authors := make([]model.Author, 0)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, *a)
	}
	return authors, total, rows.Err()
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
		return nil, fmt.Errorf("author stats: %w", err)
	}

	top, err := scanAuthor(r.pool.QueryRow(ctx,
		counted+` SELECT `+authorColumns+` FROM counted`+where.SQL()+` ORDER BY book_count DESC, last_name LIMIT 1`,
		where.Args...,
	))
	switch {
	case err == nil:
		stats.MostProductive = top
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("most productive author: %w", err)
	}
	return stats, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	a, err := scanAuthor(r.pool.QueryRow(ctx, counted+` SELECT `+authorColumns+` FROM counted WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("get author: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) Create(ctx context.Context, a *model.Author) error {
	query := `
		INSERT INTO authors (id, first_name, last_name, bio, birth_date, death_date, photo_url, website, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.FirstName, a.LastName, a.Bio, a.BirthDate, a.DeathDate, a.PhotoURL, a.Website, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert author: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, a *model.Author) error {
	query := `
		UPDATE authors
		SET first_name = $2, last_name = $3, bio = $4, birth_date = $5, death_date = $6,
		    photo_url = $7, website = $8, updated_at = $9
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		a.ID, a.FirstName, a.LastName, a.Bio, a.BirthDate, a.DeathDate, a.PhotoURL, a.Website, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		if utils.IsForeignKeyViolation(err, "") {
			return model.ErrAuthorHasBooks
		}
		return fmt.Errorf("delete author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}
	return nil
}
