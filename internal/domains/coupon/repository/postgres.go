package repository

import (
	"context"
	"errors"
	"fmt"

	"buxta-backend/internal/domains/coupon/model"
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

const selectCoupon = `
	SELECT id, code, name, description, coupon_type, value, minimum_amount, maximum_discount,
	       usage_limit, usage_limit_per_customer, used_count, is_active, valid_from, valid_until,
	       created_at, updated_at
	FROM coupons`

func scanCoupon(row pgx.Row, c *model.Coupon) error {
	return row.Scan(
		&c.ID, &c.Code, &c.Name, &c.Description, &c.CouponType, &c.Value, &c.MinimumAmount, &c.MaximumDiscount,
		&c.UsageLimit, &c.UsageLimitPerCustomer, &c.UsedCount, &c.IsActive, &c.ValidFrom, &c.ValidUntil,
		&c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Coupon, int, error) {
	var where utils.WhereBuilder
	switch filter.Status {
	case model.StatusActive:
		where.AddRaw("is_active = TRUE")
	case model.StatusInactive:
		where.AddRaw("is_active = FALSE")
	case model.StatusExpired:
		where.Add("valid_until < ?", filter.Now)
	}
	if filter.Search != "" {
		where.Add("(code ILIKE ? OR name ILIKE ?)", utils.LikePattern(filter.Search))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM coupons`+where.SQL(), where.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count coupons: %w", err)
	}

	query := selectCoupon + where.SQL() + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + where.Next(filter.Limit) + ` OFFSET ` + where.Next((filter.Page-1)*filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, where.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query coupons: %w", err)
	}
	defer rows.Close()

	coupons := make([]model.Coupon, 0)
	for rows.Next() {
		var c model.Coupon
		if err := scanCoupon(rows, &c); err != nil {
			return nil, 0, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	return coupons, total, rows.Err()
}

func (r *postgresRepository) get(ctx context.Context, where string, arg interface{}) (*model.Coupon, error) {
	var c model.Coupon
	if err := scanCoupon(r.pool.QueryRow(ctx, selectCoupon+where, arg), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	return &c, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	return r.get(ctx, ` WHERE id = $1`, id)
}

func (r *postgresRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return r.get(ctx, ` WHERE code = $1`, code)
}

func (r *postgresRepository) CodeExists(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM coupons WHERE code = $1 AND ($2::uuid IS NULL OR id <> $2))`,
		code, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check coupon code: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Create(ctx context.Context, c *model.Coupon) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO coupons (
			id, code, name, description, coupon_type, value, minimum_amount, maximum_discount,
			usage_limit, usage_limit_per_customer, used_count, is_active, valid_from, valid_until,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, $12, $13, $14, $14)`,
		c.ID, c.Code, c.Name, c.Description, c.CouponType, c.Value, c.MinimumAmount, c.MaximumDiscount,
		c.UsageLimit, c.UsageLimitPerCustomer, c.IsActive, c.ValidFrom, c.ValidUntil, c.CreatedAt,
	)
	if utils.IsUniqueViolation(err, "coupons_code_key") {
		return model.ErrCodeExists
	}
	if err != nil {
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, c *model.Coupon) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE coupons
		SET code = $2, name = $3, description = $4, coupon_type = $5, value = $6, minimum_amount = $7,
		    maximum_discount = $8, usage_limit = $9, usage_limit_per_customer = $10, is_active = $11,
		    valid_from = $12, valid_until = $13, updated_at = $14
		WHERE id = $1`,
		c.ID, c.Code, c.Name, c.Description, c.CouponType, c.Value, c.MinimumAmount,
		c.MaximumDiscount, c.UsageLimit, c.UsageLimitPerCustomer, c.IsActive,
		c.ValidFrom, c.ValidUntil, c.UpdatedAt,
	)
	if utils.IsUniqueViolation(err, "coupons_code_key") {
		return model.ErrCodeExists
	}
	if err != nil {
		return fmt.Errorf("update coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}
	return nil
}

func (r *postgresRepository) ListUsages(ctx context.Context, couponID uuid.UUID) ([]model.Usage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cu.id, cu.coupon_id, cu.customer_id, TRIM(u.first_name || ' ' || u.last_name),
		       cu.order_id, o.order_number, cu.discount_amount, cu.used_at
		FROM coupon_usages cu
		JOIN customers c ON c.id = cu.customer_id
		JOIN users u ON u.id = c.user_id
		JOIN orders o ON o.id = cu.order_id
		WHERE cu.coupon_id = $1
		ORDER BY cu.used_at DESC`, couponID)
	if err != nil {
		return nil, fmt.Errorf("query coupon usages: %w", err)
	}
	defer rows.Close()

	usages := make([]model.Usage, 0)
	for rows.Next() {
		var u model.Usage
		if err := rows.Scan(&u.ID, &u.CouponID, &u.CustomerID, &u.CustomerName,
			&u.OrderID, &u.OrderNumber, &u.DiscountAmount, &u.UsedAt); err != nil {
			return nil, fmt.Errorf("scan coupon usage: %w", err)
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}
