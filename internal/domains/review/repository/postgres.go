package repository

import (
	"context"
	"errors"
	"fmt"

	"buxta-backend/internal/domains/review/model"
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

const selectReview = `
	SELECT r.id, r.book_id, r.customer_id, r.rating, r.title, r.content, r.is_approved,
	       r.is_verified_purchase, r.created_at, r.updated_at,
	       b.title, b.slug, TRIM(u.first_name || ' ' || u.last_name)
	FROM reviews r
	JOIN books b ON b.id = r.book_id
	JOIN customers c ON c.id = r.customer_id
	JOIN users u ON u.id = c.user_id`

func scanReview(row pgx.Row, r *model.Review) error {
	return row.Scan(
		&r.ID, &r.BookID, &r.CustomerID, &r.Rating, &r.Title, &r.Content, &r.IsApproved,
		&r.IsVerifiedPurchase, &r.CreatedAt, &r.UpdatedAt,
		&r.BookTitle, &r.BookSlug, &r.CustomerName,
	)
}

// Create marks the review as a verified purchase when the customer has a live order containing the book
func (r *postgresRepository) Create(ctx context.Context, rv *model.Review, bookSlug string) error {
	query := `
		INSERT INTO reviews (id, book_id, customer_id, rating, title, content, is_approved, is_verified_purchase, created_at, updated_at)
		SELECT $1, b.id, $2, $3, $4, $5, FALSE,
		       EXISTS (SELECT 1 FROM order_items oi JOIN orders o ON o.id = oi.order_id
		               WHERE oi.book_id = b.id AND o.customer_id = $2 AND o.status NOT IN ('cancelled', 'refunded')),
		       $6, $6
		FROM books b
		WHERE b.slug = $7 AND b.is_active
		RETURNING book_id, is_verified_purchase`

	err := r.pool.QueryRow(ctx, query,
		rv.ID, rv.CustomerID, rv.Rating, rv.Title, rv.Content, rv.CreatedAt, bookSlug,
	).Scan(&rv.BookID, &rv.IsVerifiedPurchase)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return model.ErrBookNotFound
	case utils.IsUniqueViolation(err, "reviews_book_customer_key"):
		return model.ErrAlreadyReviewed
	case err != nil:
		return fmt.Errorf("insert review: %w", err)
	}
	rv.UpdatedAt = rv.CreatedAt
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var rv model.Review
	if err := scanReview(r.pool.QueryRow(ctx, selectReview+` WHERE r.id = $1`, id), &rv); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &rv, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Review, int, error) {
	var where utils.WhereBuilder
	switch filter.Status {
	case model.StatusPending:
		where.AddRaw("r.is_approved = FALSE")
	case model.StatusApproved:
		where.AddRaw("r.is_approved = TRUE")
	case model.StatusVerified:
		where.AddRaw("r.is_verified_purchase = TRUE")
	}
	if filter.Rating > 0 {
		where.Add("r.rating = ?", filter.Rating)
	}
	if filter.Search != "" {
		where.Add(`(r.title ILIKE ? OR r.content ILIKE ? OR b.title ILIKE ?
			OR u.first_name ILIKE ? OR u.last_name ILIKE ?)`, utils.LikePattern(filter.Search))
	}

	var total int
	countQuery := `
		SELECT COUNT(*) FROM reviews r
		JOIN books b ON b.id = r.book_id
		JOIN customers c ON c.id = r.customer_id
		JOIN users u ON u.id = c.user_id` + where.SQL()
	if err := r.pool.QueryRow(ctx, countQuery, where.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := selectReview + where.SQL() + ` ORDER BY r.created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + where.Next(filter.Limit) + ` OFFSET ` + where.Next((filter.Page-1)*filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, where.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]model.Review, 0)
	for rows.Next() {
		var rv model.Review
		if err := scanReview(rows, &rv); err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, total, rows.Err()
}

func (r *postgresRepository) Stats(ctx context.Context) (*model.Stats, error) {
	var s model.Stats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE NOT is_approved),
		       COUNT(*) FILTER (WHERE is_approved),
		       COUNT(*) FILTER (WHERE is_verified_purchase),
		       COALESCE(ROUND(AVG(rating) FILTER (WHERE is_approved), 1), 0)::float8
		FROM reviews`).Scan(&s.Total, &s.Pending, &s.Approved, &s.Verified, &s.AverageRating)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) SetApproved(ctx context.Context, ids []uuid.UUID, approved bool) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reviews SET is_approved = $2, updated_at = NOW() WHERE id = ANY($1)`, ids, approved)
	if err != nil {
		return 0, fmt.Errorf("update reviews: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *postgresRepository) ToggleVerified(ctx context.Context, id uuid.UUID) (bool, error) {
	var verified bool
	err := r.pool.QueryRow(ctx, `
		UPDATE reviews SET is_verified_purchase = NOT is_verified_purchase, updated_at = NOW()
		WHERE id = $1 RETURNING is_verified_purchase`, id).Scan(&verified)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, model.ErrReviewNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggle verified: %w", err)
	}
	return verified, nil
}

func (r *postgresRepository) Delete(ctx context.Context, ids []uuid.UUID) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete reviews: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
