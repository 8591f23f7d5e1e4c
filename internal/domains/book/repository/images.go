package repository

import (
	"context"
	"errors"
	"fmt"

	"buxta-backend/internal/domains/book/model"
	"buxta-backend/internal/shared/utils"
	"buxta-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type imageRepository struct {
	pool *pgxpool.Pool
}

func NewImageRepository(pool *pgxpool.Pool) ImageRepository {
	return &imageRepository{pool: pool}
}

const selectImage = `
	SELECT id, book_id, image_url, object_key, thumbnail_url, medium_url, large_url,
	       alt_text, is_primary, sort_order, created_at
	FROM book_images`

const imageOrder = ` ORDER BY is_primary DESC, sort_order, created_at`

func scanImage(row pgx.Row, img *model.BookImage) error {
	return row.Scan(
		&img.ID, &img.BookID, &img.ImageURL, &img.ObjectKey, &img.ThumbnailURL, &img.MediumURL,
		&img.LargeURL, &img.AltText, &img.IsPrimary, &img.SortOrder, &img.CreatedAt,
	)
}

func (r *imageRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.BookImage, error) {
	rows, err := r.pool.Query(ctx, selectImage+` WHERE book_id = $1`+imageOrder, bookID)
	if err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}
	defer rows.Close()

	images := make([]model.BookImage, 0)
	for rows.Next() {
		var img model.BookImage
		if err := scanImage(rows, &img); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *imageRepository) GetByID(ctx context.Context, bookID, imageID uuid.UUID) (*model.BookImage, error) {
	return getImage(ctx, r.pool, bookID, imageID, false)
}

func getImage(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, bookID, imageID uuid.UUID, lock bool) (*model.BookImage, error) {
	query := selectImage + ` WHERE id = $1 AND book_id = $2`
	if lock {
		query += ` FOR UPDATE`
	}

	var img model.BookImage
	if err := scanImage(q.QueryRow(ctx, query, imageID, bookID), &img); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrImageNotFound
		}
		return nil, fmt.Errorf("get image: %w", err)
	}
	return &img, nil
}

func (r *imageRepository) Add(ctx context.Context, bookID uuid.UUID, images []model.BookImage, coverIndex int) ([]model.BookImage, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) ([]model.BookImage, error) {
		if err := lockBook(ctx, tx, bookID); err != nil {
			return nil, err
		}

		var hasPrimary bool
		var nextOrder int
		err := tx.QueryRow(ctx, `
			SELECT COALESCE(BOOL_OR(is_primary), FALSE), COALESCE(MAX(sort_order) + 1, 0)
			FROM book_images WHERE book_id = $1`, bookID).Scan(&hasPrimary, &nextOrder)
		if err != nil {
			return nil, fmt.Errorf("image state: %w", err)
		}

		primary := coverIndex
		if primary < 0 && !hasPrimary {
			primary = 0
		}
		if primary >= 0 && hasPrimary {
			if _, err := tx.Exec(ctx, `UPDATE book_images SET is_primary = FALSE WHERE book_id = $1 AND is_primary`, bookID); err != nil {
				return nil, fmt.Errorf("clear primary: %w", err)
			}
		}

		batch := &pgx.Batch{}
		for i := range images {
			images[i].BookID = bookID
			images[i].IsPrimary = i == primary
			images[i].SortOrder = nextOrder + i
			img := images[i]
			batch.Queue(`
				INSERT INTO book_images (id, book_id, image_url, object_key, alt_text, is_primary, sort_order, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				img.ID, img.BookID, img.ImageURL, img.ObjectKey, img.AltText, img.IsPrimary, img.SortOrder, img.CreatedAt,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for range images {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return nil, fmt.Errorf("insert image: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return nil, err
		}
		return images, nil
	})
}

// lockBook takes the book row lock every image write holds, so writers for
// one book run one after another
func lockBook(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) error {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT TRUE FROM books WHERE id = $1 FOR UPDATE`, bookID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrBookNotFound
	}
	if err != nil {
		return fmt.Errorf("lock book: %w", err)
	}
	return nil
}

// SetPrimary clears the current primary and sets the new one in the same transaction.
// Holding the book lock makes a concurrent call wait and then win, rather than
// tripping the one-primary index.
func (r *imageRepository) SetPrimary(ctx context.Context, bookID, imageID uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockBook(ctx, tx, bookID); err != nil {
			return err
		}
		if _, err := getImage(ctx, tx, bookID, imageID, true); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE book_images SET is_primary = FALSE WHERE book_id = $1 AND is_primary AND id <> $2`, bookID, imageID,
		); err != nil {
			return fmt.Errorf("clear primary: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE book_images SET is_primary = TRUE WHERE id = $1`, imageID); err != nil {
			if utils.IsUniqueViolation(err, "book_images_one_primary") {
				return fmt.Errorf("concurrent primary change: %w", err)
			}
			return fmt.Errorf("set primary: %w", err)
		}
		return nil
	})
}

func (r *imageRepository) Delete(ctx context.Context, bookID, imageID uuid.UUID) (*model.BookImage, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.BookImage, error) {
		if err := lockBook(ctx, tx, bookID); err != nil {
			return nil, err
		}
		img, err := getImage(ctx, tx, bookID, imageID, true)
		if err != nil {
			return nil, err
		}

		if img.IsPrimary {
			var others int
			if err := tx.QueryRow(ctx,
				`SELECT COUNT(*) FROM book_images WHERE book_id = $1 AND id <> $2`, bookID, imageID,
			).Scan(&others); err != nil {
				return nil, fmt.Errorf("count images: %w", err)
			}
			if others == 0 {
				return nil, model.ErrOnlyImage
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM book_images WHERE id = $1`, imageID); err != nil {
			return nil, fmt.Errorf("delete image: %w", err)
		}

		if img.IsPrimary {
			_, err := tx.Exec(ctx, `
				UPDATE book_images SET is_primary = TRUE
				WHERE id = (SELECT id FROM book_images WHERE book_id = $1 ORDER BY sort_order, created_at LIMIT 1)`, bookID)
			if err != nil {
				return nil, fmt.Errorf("promote image: %w", err)
			}
		}
		return img, nil
	})
}

func (r *imageRepository) UpdateVariants(ctx context.Context, imageID uuid.UUID, thumbnail, medium, large string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE book_images SET thumbnail_url = $2, medium_url = $3, large_url = $4 WHERE id = $1`,
		imageID, thumbnail, medium, large,
	)
	if err != nil {
		return fmt.Errorf("update image variants: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrImageNotFound
	}
	return nil
}
