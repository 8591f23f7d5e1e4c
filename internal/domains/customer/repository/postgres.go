package repository

import (
	"context"
	"errors"
	"fmt"

	"buxta-backend/internal/domains/customer/model"
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

func (r *postgresRepository) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*model.Customer, error) {
	// DO UPDATE (not DO NOTHING) so RETURNING yields the existing row
	query := `
		INSERT INTO customers (id, user_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, phone, birth_date, newsletter_subscription, created_at, updated_at`

	var c model.Customer
	err := r.pool.QueryRow(ctx, query, uuid.New(), userID).Scan(
		&c.ID, &c.UserID, &c.Phone, &c.BirthDate, &c.NewsletterSubscription, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if utils.IsForeignKeyViolation(err, "") {
			return nil, model.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("upsert customer: %w", err)
	}
	return &c, nil
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, c *model.Customer) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE customers SET phone = $2, birth_date = $3, newsletter_subscription = $4, updated_at = $5
		WHERE id = $1`,
		c.ID, c.Phone, c.BirthDate, c.NewsletterSubscription, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCustomerNotFound
	}
	return nil
}

func (r *postgresRepository) AdminList(ctx context.Context, filter model.AdminListFilter) ([]model.AdminCustomer, int, error) {
	var where utils.WhereBuilder
	if filter.Search != "" {
		where.Add(`(u.first_name ILIKE ? OR u.last_name ILIKE ? OR u.email ILIKE ? OR c.phone ILIKE ?)`,
			utils.LikePattern(filter.Search))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM customers c JOIN users u ON u.id = c.user_id` + where.SQL()
	if err := r.pool.QueryRow(ctx, countQuery, where.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	query := `
		SELECT c.id, c.user_id, u.email, u.first_name, u.last_name, c.phone,
		       COUNT(o.id) AS total_orders,
		       COALESCE(SUM(o.total_amount), 0) AS total_spent,
		       c.created_at
		FROM customers c
		JOIN users u ON u.id = c.user_id
		LEFT JOIN orders o ON o.customer_id = c.id` + where.SQL() + `
		GROUP BY c.id, u.id
		ORDER BY c.created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + where.Next(filter.Limit) + ` OFFSET ` + where.Next((filter.Page-1)*filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, where.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]model.AdminCustomer, 0)
	for rows.Next() {
		var c model.AdminCustomer
		if err := rows.Scan(&c.ID, &c.UserID, &c.Email, &c.FirstName, &c.LastName, &c.Phone,
			&c.TotalOrders, &c.TotalSpent, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

// Addresses

const selectAddress = `
	SELECT id, customer_id, address_type, first_name, last_name, company, address_line_1,
	       address_line_2, city, state, postal_code, country, phone, is_default, created_at, updated_at
	FROM addresses`

func scanAddress(row pgx.Row, a *model.Address) error {
	return row.Scan(
		&a.ID, &a.CustomerID, &a.AddressType, &a.FirstName, &a.LastName, &a.Company, &a.AddressLine1,
		&a.AddressLine2, &a.City, &a.State, &a.PostalCode, &a.Country, &a.Phone, &a.IsDefault,
		&a.CreatedAt, &a.UpdatedAt,
	)
}

func (r *postgresRepository) ListAddresses(ctx context.Context, customerID uuid.UUID) ([]model.Address, error) {
	rows, err := r.pool.Query(ctx,
		selectAddress+` WHERE customer_id = $1 ORDER BY is_default DESC, created_at DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("query addresses: %w", err)
	}
	defer rows.Close()

	addresses := make([]model.Address, 0)
	for rows.Next() {
		var a model.Address
		if err := scanAddress(rows, &a); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *postgresRepository) GetAddress(ctx context.Context, customerID, id uuid.UUID) (*model.Address, error) {
	var a model.Address
	err := scanAddress(r.pool.QueryRow(ctx, selectAddress+` WHERE id = $1 AND customer_id = $2`, id, customerID), &a)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAddressNotFound
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return &a, nil
}

func (r *postgresRepository) CreateAddress(ctx context.Context, a *model.Address) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if a.IsDefault {
			if err := clearDefault(ctx, tx, a.CustomerID, a.AddressType, a.ID); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO addresses (
				id, customer_id, address_type, first_name, last_name, company, address_line_1,
				address_line_2, city, state, postal_code, country, phone, is_default, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			a.ID, a.CustomerID, a.AddressType, a.FirstName, a.LastName, a.Company, a.AddressLine1,
			a.AddressLine2, a.City, a.State, a.PostalCode, a.Country, a.Phone, a.IsDefault, a.CreatedAt, a.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert address: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) UpdateAddress(ctx context.Context, a *model.Address) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if a.IsDefault {
			if err := clearDefault(ctx, tx, a.CustomerID, a.AddressType, a.ID); err != nil {
				return err
			}
		}
		tag, err := tx.Exec(ctx, `
			UPDATE addresses SET
				address_type = $3, first_name = $4, last_name = $5, company = $6, address_line_1 = $7,
				address_line_2 = $8, city = $9, state = $10, postal_code = $11, country = $12,
				phone = $13, is_default = $14, updated_at = $15
			WHERE id = $1 AND customer_id = $2`,
			a.ID, a.CustomerID, a.AddressType, a.FirstName, a.LastName, a.Company, a.AddressLine1,
			a.AddressLine2, a.City, a.State, a.PostalCode, a.Country, a.Phone, a.IsDefault, a.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update address: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrAddressNotFound
		}
		return nil
	})
}

func (r *postgresRepository) DeleteAddress(ctx context.Context, customerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND customer_id = $2`, id, customerID)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAddressNotFound
	}
	return nil
}

// SetDefaultAddress clears the previous default of the same type and sets the new one in one transaction
func (r *postgresRepository) SetDefaultAddress(ctx context.Context, customerID, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var addressType string
		err := tx.QueryRow(ctx,
			`SELECT address_type FROM addresses WHERE id = $1 AND customer_id = $2 FOR UPDATE`, id, customerID,
		).Scan(&addressType)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrAddressNotFound
		}
		if err != nil {
			return fmt.Errorf("lock address: %w", err)
		}

		if err := clearDefault(ctx, tx, customerID, addressType, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = TRUE, updated_at = NOW() WHERE id = $1`, id); err != nil {
			return fmt.Errorf("set default address: %w", err)
		}
		return nil
	})
}

func clearDefault(ctx context.Context, tx pgx.Tx, customerID uuid.UUID, addressType string, keepID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE addresses SET is_default = FALSE, updated_at = NOW()
		WHERE customer_id = $1 AND address_type = $2 AND is_default AND id <> $3`,
		customerID, addressType, keepID,
	)
	if err != nil {
		return fmt.Errorf("clear default address: %w", err)
	}
	return nil
}

// Wishlist

func (r *postgresRepository) GetOrCreateWishlist(ctx context.Context, customerID uuid.UUID) (*model.Wishlist, error) {
	var w model.Wishlist
	err := r.pool.QueryRow(ctx, `
		INSERT INTO wishlists (id, customer_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (customer_id) DO UPDATE SET customer_id = EXCLUDED.customer_id
		RETURNING id, customer_id, name, is_public, created_at, updated_at`,
		uuid.New(), customerID, model.DefaultWishlistName,
	).Scan(&w.ID, &w.CustomerID, &w.Name, &w.IsPublic, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert wishlist: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.title, b.slug, b.price,
		       COALESCE((SELECT bi.image_url FROM book_images bi WHERE bi.book_id = b.id
		                 ORDER BY bi.is_primary DESC, bi.sort_order LIMIT 1), ''),
		       b.stock_quantity > 0, wb.added_at
		FROM wishlist_books wb
		JOIN books b ON b.id = wb.book_id
		WHERE wb.wishlist_id = $1
		ORDER BY wb.added_at DESC`, w.ID)
	if err != nil {
		return nil, fmt.Errorf("query wishlist books: %w", err)
	}
	defer rows.Close()

	w.Books = make([]model.WishlistBook, 0)
	for rows.Next() {
		var b model.WishlistBook
		if err := rows.Scan(&b.BookID, &b.Title, &b.Slug, &b.Price, &b.PrimaryImageURL, &b.IsInStock, &b.AddedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist book: %w", err)
		}
		w.Books = append(w.Books, b)
	}
	return &w, rows.Err()
}

func (r *postgresRepository) UpdateWishlist(ctx context.Context, w *model.Wishlist) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE wishlists SET name = $2, is_public = $3, updated_at = $4 WHERE id = $1`,
		w.ID, w.Name, w.IsPublic, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update wishlist: %w", err)
	}
	return nil
}

func (r *postgresRepository) AddWishlistBook(ctx context.Context, wishlistID, bookID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO wishlist_books (wishlist_id, book_id, added_at)
		SELECT $1, b.id, NOW() FROM books b WHERE b.id = $2 AND b.is_active
		ON CONFLICT (wishlist_id, book_id) DO NOTHING`, wishlistID, bookID)
	if err != nil {
		return fmt.Errorf("add wishlist book: %w", err)
	}

	var present bool
	err = r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wishlist_books WHERE wishlist_id = $1 AND book_id = $2)`, wishlistID, bookID,
	).Scan(&present)
	if err != nil {
		return fmt.Errorf("check wishlist book: %w", err)
	}
	if !present {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) RemoveWishlistBook(ctx context.Context, wishlistID, bookID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wishlist_books WHERE wishlist_id = $1 AND book_id = $2`, wishlistID, bookID)
	if err != nil {
		return fmt.Errorf("remove wishlist book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotInWishlist
	}
	return nil
}
