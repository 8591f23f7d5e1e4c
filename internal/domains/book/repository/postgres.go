package repository

import (
	"context"
	"errors"
	"fmt"

	authormodel "buxta-backend/internal/domains/author/model"
	"buxta-backend/internal/domains/book/model"
	categorymodel "buxta-backend/internal/domains/category/model"
	publishermodel "buxta-backend/internal/domains/publisher/model"
	"buxta-backend/internal/shared/utils"
	"buxta-backend/pkg/database"

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

const selectBook = `
	SELECT b.id, b.title, b.slug, b.subtitle, b.isbn_10, b.isbn_13, b.publisher_id,
	       b.description, b.excerpt, b.table_of_contents, b.format, b.pages, b.language,
	       b.dimensions, b.weight, b.publication_date, b.edition,
	       b.price, b.compare_at_price, b.cost_price, b.stock_quantity, b.low_stock_threshold,
	       b.condition, b.meta_title, b.meta_description, b.meta_keywords,
	       b.is_active, b.is_featured, b.is_bestseller, b.is_new_arrival, b.is_on_sale,
	       b.created_at, b.updated_at,
	       COALESCE((SELECT bi.image_url FROM book_images bi WHERE bi.book_id = b.id
	                 ORDER BY bi.is_primary DESC, bi.sort_order, bi.created_at LIMIT 1), '') AS primary_image_url,
	       COALESCE((SELECT AVG(r.rating)::float8 FROM reviews r WHERE r.book_id = b.id AND r.is_approved), 0) AS average_rating,
	       (SELECT COUNT(*) FROM reviews r WHERE r.book_id = b.id AND r.is_approved) AS review_count
	FROM books b`

func scanBook(row pgx.Row, b *model.Book) error {
	keywords := (*[]string)(&b.MetaKeywords)
	return row.Scan(
		&b.ID, &b.Title, &b.Slug, &b.Subtitle, &b.ISBN10, &b.ISBN13, &b.PublisherID,
		&b.Description, &b.Excerpt, &b.TableOfContents, &b.Format, &b.Pages, &b.Language,
		&b.Dimensions, &b.Weight, &b.PublicationDate, &b.Edition,
		&b.Price, &b.CompareAtPrice, &b.CostPrice, &b.StockQuantity, &b.LowStockThreshold,
		&b.Condition, &b.MetaTitle, &b.MetaDescription, keywords,
		&b.IsActive, &b.IsFeatured, &b.IsBestseller, &b.IsNewArrival, &b.IsOnSale,
		&b.CreatedAt, &b.UpdatedAt,
		&b.PrimaryImageURL, &b.AverageRating, &b.ReviewCount,
	)
}

func (r *postgresRepository) ListFeatured(ctx context.Context, limit int) ([]model.Book, error) {
	return r.query(ctx,
		selectBook+` WHERE b.is_active = TRUE AND b.is_featured = TRUE ORDER BY b.created_at DESC LIMIT $1`, limit)
}

func (r *postgresRepository) ListActive(ctx context.Context, filter model.ShopFilter) ([]model.Book, int, error) {
	var where utils.WhereBuilder
	where.AddRaw("b.is_active = TRUE")
	if filter.CategoryID != nil {
		where.Add("EXISTS (SELECT 1 FROM book_categories bc WHERE bc.book_id = b.id AND bc.category_id = ?)", *filter.CategoryID)
	}
	if filter.Search != "" {
		where.Add("b.title ILIKE ?", utils.LikePattern(filter.Search))
	}
	return r.page(ctx, where, filter.Page, filter.Limit)
}

func (r *postgresRepository) AdminList(ctx context.Context, filter model.AdminListFilter) ([]model.Book, int, error) {
	var where utils.WhereBuilder
	if filter.Search != "" {
		where.Add(`(b.title ILIKE ? OR b.isbn_13 ILIKE ? OR EXISTS (
			SELECT 1 FROM book_authors ba JOIN authors a ON a.id = ba.author_id
			WHERE ba.book_id = b.id AND (a.first_name || ' ' || a.last_name) ILIKE ?))`, utils.LikePattern(filter.Search))
	}
	if filter.CategoryID != nil {
		where.Add("EXISTS (SELECT 1 FROM book_categories bc WHERE bc.book_id = b.id AND bc.category_id = ?)", *filter.CategoryID)
	}
	switch filter.Status {
	case model.StatusActive:
		where.AddRaw("b.is_active = TRUE")
	case model.StatusInactive:
		where.AddRaw("b.is_active = FALSE")
	case model.StatusLowStock:
		where.AddRaw("b.stock_quantity > 0 AND b.stock_quantity <= b.low_stock_threshold")
	case model.StatusOutOfStock:
		where.AddRaw("b.stock_quantity = 0")
	}
	return r.page(ctx, where, filter.Page, filter.Limit)
}

func (r *postgresRepository) page(ctx context.Context, where utils.WhereBuilder, page, limit int) ([]model.Book, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books b`+where.SQL(), where.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	query := selectBook + where.SQL() + ` ORDER BY b.created_at DESC`
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		query += ` LIMIT ` + where.Next(limit) + ` OFFSET ` + where.Next((page-1)*limit)
	}

	books, err := r.query(ctx, query, where.Args...)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *postgresRepository) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	var s model.AdminStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE stock_quantity > 0 AND stock_quantity <= low_stock_threshold),
		       COUNT(*) FILTER (WHERE stock_quantity = 0)
		FROM books`).Scan(&s.ActiveBooks, &s.LowStock, &s.OutOfStock)
	if err != nil {
		return nil, fmt.Errorf("book stats: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) ListForExport(ctx context.Context) ([]model.Book, error) {
	return r.query(ctx, selectBook+` ORDER BY b.title`)
}

func (r *postgresRepository) ListRelated(ctx context.Context, book *model.Book, limit int) ([]model.Book, error) {
	return r.query(ctx, selectBook+`
		WHERE b.is_active = TRUE AND b.id <> $1 AND EXISTS (
			SELECT 1 FROM book_categories bc
			WHERE bc.book_id = b.id
			  AND bc.category_id IN (SELECT category_id FROM book_categories WHERE book_id = $1))
		ORDER BY b.created_at DESC
		LIMIT $2`, book.ID, limit)
}

func (r *postgresRepository) ListApprovedReviews(ctx context.Context, bookID uuid.UUID) ([]model.BookReview, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.rating, r.title, r.content, TRIM(u.first_name || ' ' || u.last_name),
		       r.is_verified_purchase, r.created_at
		FROM reviews r
		JOIN customers c ON c.id = r.customer_id
		JOIN users u ON u.id = c.user_id
		WHERE r.book_id = $1 AND r.is_approved = TRUE
		ORDER BY r.created_at DESC`, bookID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]model.BookReview, 0)
	for rows.Next() {
		var rv model.BookReview
		if err := rows.Scan(&rv.ID, &rv.Rating, &rv.Title, &rv.Content, &rv.CustomerName,
			&rv.IsVerifiedPurchase, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return r.getOne(ctx, selectBook+` WHERE b.id = $1`, id)
}

func (r *postgresRepository) GetActiveBySlug(ctx context.Context, slug string) (*model.Book, error) {
	return r.getOne(ctx, selectBook+` WHERE b.slug = $1 AND b.is_active = TRUE`, slug)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.Book, error) {
	books, err := r.query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, model.ErrBookNotFound
	}
	return &books[0], nil
}

func (r *postgresRepository) query(ctx context.Context, query string, args ...interface{}) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		var b model.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadRelations(ctx, books); err != nil {
		return nil, err
	}
	for i := range books {
		books[i].Derive()
	}
	return books, nil
}

// loadRelations fills authors, categories and publisher with one query per relation
// loadRelations fills authors, categories and publisher for a page of books
// with one query per relation instead of one per book
func (r *postgresRepository) loadRelations(ctx context.Context, books []model.Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(books))
	index := make(map[uuid.UUID]int, len(books))
	for i := range books {
		ids[i] = books[i].ID
		index[books[i].ID] = i
		books[i].Authors = make([]authormodel.AuthorSummary, 0)
		books[i].Categories = make([]categorymodel.CategorySummary, 0)
	}

	// authors
	rows, err := r.pool.Query(ctx, `
		SELECT ba.book_id, a.id, TRIM(a.first_name || ' ' || a.last_name)
		FROM book_authors ba JOIN authors a ON a.id = ba.author_id
		WHERE ba.book_id = ANY($1)
		ORDER BY a.last_name, a.first_name`, ids)
	if err != nil {
		return fmt.Errorf("query book authors: %w", err)
	}
	for rows.Next() {
		var bookID uuid.UUID
		var a authormodel.AuthorSummary
		if err := rows.Scan(&bookID, &a.ID, &a.FullName); err != nil {
			rows.Close()
			return fmt.Errorf("scan book author: %w", err)
		}
		books[index[bookID]].Authors = append(books[index[bookID]].Authors, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	// categories
	rows, err = r.pool.Query(ctx, `
		SELECT bc.book_id, c.id, c.name, c.slug
		FROM book_categories bc JOIN categories c ON c.id = bc.category_id
		WHERE bc.book_id = ANY($1)
		ORDER BY c.name`, ids)
	if err != nil {
		return fmt.Errorf("query book categories: %w", err)
	}
	for rows.Next() {
		var bookID uuid.UUID
		var c categorymodel.CategorySummary
		if err := rows.Scan(&bookID, &c.ID, &c.Name, &c.Slug); err != nil {
			rows.Close()
			return fmt.Errorf("scan book category: %w", err)
		}
		books[index[bookID]].Categories = append(books[index[bookID]].Categories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	// publisher, optional
	rows, err = r.pool.Query(ctx, `
		SELECT b.id, p.id, p.name
		FROM books b JOIN publishers p ON p.id = b.publisher_id
		WHERE b.id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("query book publishers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var bookID uuid.UUID
		var p publishermodel.PublisherSummary
		if err := rows.Scan(&bookID, &p.ID, &p.Name); err != nil {
			return fmt.Errorf("scan book publisher: %w", err)
		}
		books[index[bookID]].Publisher = &p
	}
	return rows.Err()
}

func (r *postgresRepository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE slug = $1 AND id <> $2)`, slug, excludeID)
}

func (r *postgresRepository) TitleExists(ctx context.Context, title string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE LOWER(title) = LOWER($1) AND id <> $2)`, title, excludeID)
}

func (r *postgresRepository) ISBN13Exists(ctx context.Context, isbn string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE isbn_13 = $1 AND id <> $2)`, isbn, excludeID)
}

func (r *postgresRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("book exists: %w", err)
	}
	return exists, nil
}

// Create inserts the book and its author/category links in one transaction
func (r *postgresRepository) Create(ctx context.Context, b *model.Book, authorIDs, categoryIDs []uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO books (
				id, title, slug, subtitle, isbn_10, isbn_13, publisher_id, description, excerpt,
				table_of_contents, format, pages, language, dimensions, weight, publication_date,
				edition, price, compare_at_price, cost_price, stock_quantity, low_stock_threshold,
				condition, meta_title, meta_description, meta_keywords,
				is_active, is_featured, is_bestseller, is_new_arrival, is_on_sale, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
				$20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33
			)`,
			b.ID, b.Title, b.Slug, b.Subtitle, b.ISBN10, b.ISBN13, b.PublisherID, b.Description, b.Excerpt,
			b.TableOfContents, b.Format, b.Pages, b.Language, b.Dimensions, b.Weight, b.PublicationDate,
			b.Edition, b.Price, b.CompareAtPrice, b.CostPrice, b.StockQuantity, b.LowStockThreshold,
			b.Condition, b.MetaTitle, b.MetaDescription, []string(b.MetaKeywords),
			b.IsActive, b.IsFeatured, b.IsBestseller, b.IsNewArrival, b.IsOnSale, b.CreatedAt, b.UpdatedAt,
		)
		if err != nil {
			return mapWriteError(err)
		}
		return replaceLinks(ctx, tx, b.ID, authorIDs, categoryIDs)
	})
}

func (r *postgresRepository) Update(ctx context.Context, b *model.Book, authorIDs, categoryIDs []uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE books SET
				title = $2, slug = $3, subtitle = $4, isbn_10 = $5, isbn_13 = $6, publisher_id = $7,
				description = $8, excerpt = $9, table_of_contents = $10, format = $11, pages = $12,
				language = $13, dimensions = $14, weight = $15, publication_date = $16, edition = $17,
				price = $18, compare_at_price = $19, cost_price = $20, stock_quantity = $21,
				low_stock_threshold = $22, condition = $23, meta_title = $24, meta_description = $25,
				meta_keywords = $26, is_active = $27, is_featured = $28, is_bestseller = $29,
				is_new_arrival = $30, is_on_sale = $31, updated_at = $32
			WHERE id = $1`,
			b.ID, b.Title, b.Slug, b.Subtitle, b.ISBN10, b.ISBN13, b.PublisherID,
			b.Description, b.Excerpt, b.TableOfContents, b.Format, b.Pages,
			b.Language, b.Dimensions, b.Weight, b.PublicationDate, b.Edition,
			b.Price, b.CompareAtPrice, b.CostPrice, b.StockQuantity,
			b.LowStockThreshold, b.Condition, b.MetaTitle, b.MetaDescription,
			[]string(b.MetaKeywords), b.IsActive, b.IsFeatured, b.IsBestseller,
			b.IsNewArrival, b.IsOnSale, b.UpdatedAt,
		)
		if err != nil {
			return mapWriteError(err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrBookNotFound
		}
		return replaceLinks(ctx, tx, b.ID, authorIDs, categoryIDs)
	})
}

// replaceLinks rewrites the join rows wholesale; unknown ids surface as FK errors
func replaceLinks(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, authorIDs, categoryIDs []uuid.UUID) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM book_authors WHERE book_id = $1`, bookID)
	batch.Queue(`DELETE FROM book_categories WHERE book_id = $1`, bookID)
	batch.Queue(`INSERT INTO book_authors (book_id, author_id) SELECT $1, unnest($2::uuid[])`, bookID, authorIDs)
	batch.Queue(`INSERT INTO book_categories (book_id, category_id) SELECT $1, unnest($2::uuid[])`, bookID, categoryIDs)

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return mapWriteError(err)
		}
	}
	return results.Close()
}

func (r *postgresRepository) ToggleActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var active bool
	err := r.pool.QueryRow(ctx,
		`UPDATE books SET is_active = NOT is_active, updated_at = NOW() WHERE id = $1 RETURNING is_active`, id,
	).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, model.ErrBookNotFound
	}
	return active, err
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		if utils.IsForeignKeyViolation(err, "order_items_book_id_fkey") {
			return model.ErrBookHasOrders
		}
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case utils.IsUniqueViolation(err, "books_title_ci_key"):
		return model.ErrTitleExists
	case utils.IsUniqueViolation(err, "books_isbn_13_key"):
		return model.ErrISBN13Exists
	case utils.IsUniqueViolation(err, "books_isbn_10_key"):
		return model.ErrISBN10Exists
	case utils.IsForeignKeyViolation(err, "book_authors_author_id_fkey"):
		return model.ErrUnknownAuthor
	case utils.IsForeignKeyViolation(err, "book_categories_category_id_fkey"):
		return model.ErrUnknownCategory
	case utils.IsForeignKeyViolation(err, "books_publisher_id_fkey"):
		return model.ErrUnknownPublisher
	default:
		return fmt.Errorf("write book: %w", err)
	}
}
