package service

import (
	"context"
	"strings"
	"time"

	"buxta-backend/internal/domains/coupon/model"
	"buxta-backend/internal/domains/coupon/repository"
	"buxta-backend/pkg/logger"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	List(ctx context.Context, filter model.ListFilter) ([]model.Coupon, int, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	Create(ctx context.Context, in model.CouponInput) (*model.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, in model.CouponInput) (*model.Coupon, error)
	Usages(ctx context.Context, id uuid.UUID) ([]model.Usage, error)

	// Check is the public lookup; it never exposes more than the code and validity
	Check(ctx context.Context, code string) (*model.PublicCoupon, error)
}

type couponService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewCouponService(repo repository.Repository) ServiceInterface {
	return &couponService{repo: repo, now: time.Now}
}

func (s *couponService) List(ctx context.Context, filter model.ListFilter) ([]model.Coupon, int, error) {
	switch filter.Status {
	case model.StatusActive, model.StatusInactive, model.StatusExpired:
	default:
		filter.Status = ""
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Now = s.now()

	coupons, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range coupons {
		coupons[i].IsValidNow = coupons[i].IsValid(filter.Now)
	}
	return coupons, total, nil
}

func (s *couponService) Get(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.IsValidNow = c.IsValid(s.now())
	return c, nil
}

func (s *couponService) Create(ctx context.Context, in model.CouponInput) (*model.Coupon, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	exists, err := s.repo.CodeExists(ctx, in.Code, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrCodeExists
	}

	now := s.now()
	c := &model.Coupon{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
	in.Apply(c)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	c.IsValidNow = c.IsValid(now)

	logger.Info("coupon created", map[string]interface{}{"coupon_id": c.ID, "code": c.Code})
	return c, nil
}

func (s *couponService) Update(ctx context.Context, id uuid.UUID, in model.CouponInput) (*model.Coupon, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.CodeExists(ctx, in.Code, &id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrCodeExists
	}

	in.Apply(c)
	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	c.IsValidNow = c.IsValid(c.UpdatedAt)

	logger.Info("coupon updated", map[string]interface{}{"coupon_id": c.ID, "code": c.Code})
	return c, nil
}

func (s *couponService) Usages(ctx context.Context, id uuid.UUID) ([]model.Usage, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListUsages(ctx, id)
}

func (s *couponService) Check(ctx context.Context, code string) (*model.PublicCoupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, model.ErrCouponNotFound
	}
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return &model.PublicCoupon{Code: c.Code, IsValid: c.IsValid(s.now())}, nil
}
