package service

import (
	"context"
	"time"

	"buxta-backend/internal/domains/customer/model"
	"buxta-backend/internal/domains/customer/repository"
	"buxta-backend/internal/shared/utils"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*model.Customer, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in model.ProfileInput) (*model.Customer, error)
	AdminList(ctx context.Context, filter model.AdminListFilter) ([]model.AdminCustomer, int, error)

	ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	CreateAddress(ctx context.Context, userID uuid.UUID, in model.AddressInput) (*model.Address, error)
	UpdateAddress(ctx context.Context, userID, id uuid.UUID, in model.AddressInput) (*model.Address, error)
	DeleteAddress(ctx context.Context, userID, id uuid.UUID) error
	SetDefaultAddress(ctx context.Context, userID, id uuid.UUID) error

	Wishlist(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error)
	UpdateWishlist(ctx context.Context, userID uuid.UUID, in model.WishlistInput) (*model.Wishlist, error)
	AddToWishlist(ctx context.Context, userID, bookID uuid.UUID) (*model.Wishlist, error)
	RemoveFromWishlist(ctx context.Context, userID, bookID uuid.UUID) (*model.Wishlist, error)
}

type customerService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewCustomerService(repo repository.Repository) ServiceInterface {
	return &customerService{repo: repo, now: time.Now}
}

func (s *customerService) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*model.Customer, error) {
	return s.repo.GetOrCreateByUser(ctx, userID)
}

func (s *customerService) UpdateProfile(ctx context.Context, userID uuid.UUID, in model.ProfileInput) (*model.Customer, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.BirthDate, err = utils.ParseOptionalDate(in.BirthDate); err != nil {
		return nil, err
	}
	c.Phone = in.Phone
	c.NewsletterSubscription = in.NewsletterSubscription
	c.UpdatedAt = s.now()

	if err := s.repo.UpdateProfile(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) AdminList(ctx context.Context, filter model.AdminListFilter) ([]model.AdminCustomer, int, error) {
	return s.repo.AdminList(ctx, filter)
}

func (s *customerService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	c, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAddresses(ctx, c.ID)
}

func (s *customerService) CreateAddress(ctx context.Context, userID uuid.UUID, in model.AddressInput) (*model.Address, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	a := &model.Address{ID: uuid.New(), CustomerID: c.ID, CreatedAt: now, UpdatedAt: now}
	applyAddress(a, in)
	if err := s.repo.CreateAddress(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *customerService) UpdateAddress(ctx context.Context, userID, id uuid.UUID, in model.AddressInput) (*model.Address, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.GetAddress(ctx, c.ID, id)
	if err != nil {
		return nil, err
	}
	applyAddress(a, in)
	a.UpdatedAt = s.now()

	if err := s.repo.UpdateAddress(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func applyAddress(a *model.Address, in model.AddressInput) {
	a.AddressType = in.AddressType
	a.FirstName = in.FirstName
	a.LastName = in.LastName
	a.Company = in.Company
	a.AddressLine1 = in.AddressLine1
	a.AddressLine2 = in.AddressLine2
	a.City = in.City
	a.State = in.State
	a.PostalCode = in.PostalCode
	a.Country = in.Country
	a.Phone = in.Phone
	a.IsDefault = in.IsDefault
}

func (s *customerService) DeleteAddress(ctx context.Context, userID, id uuid.UUID) error {
	c, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.DeleteAddress(ctx, c.ID, id)
}

func (s *customerService) SetDefaultAddress(ctx context.Context, userID, id uuid.UUID) error {
	c, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.SetDefaultAddress(ctx, c.ID, id)
}

func (s *customerService) Wishlist(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error) {
	c, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateWishlist(ctx, c.ID)
}

func (s *customerService) UpdateWishlist(ctx context.Context, userID uuid.UUID, in model.WishlistInput) (*model.Wishlist, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	w, err := s.Wishlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	w.Name = in.Name
	w.IsPublic = in.IsPublic
	w.UpdatedAt = s.now()
	if err := s.repo.UpdateWishlist(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *customerService) AddToWishlist(ctx context.Context, userID, bookID uuid.UUID) (*model.Wishlist, error) {
	w, err := s.Wishlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddWishlistBook(ctx, w.ID, bookID); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateWishlist(ctx, w.CustomerID)
}

func (s *customerService) RemoveFromWishlist(ctx context.Context, userID, bookID uuid.UUID) (*model.Wishlist, error) {
	w, err := s.Wishlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveWishlistBook(ctx, w.ID, bookID); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateWishlist(ctx, w.CustomerID)
}
