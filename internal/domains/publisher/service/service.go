package service

import (
	"context"
	"time"

	"buxta-backend/internal/domains/publisher/model"
	"buxta-backend/internal/domains/publisher/repository"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	List(ctx context.Context, filter model.ListFilter) ([]model.Publisher, int, *model.Stats, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Publisher, error)
	Create(ctx context.Context, in model.PublisherInput) (*model.Publisher, error)
	Update(ctx context.Context, id uuid.UUID, in model.PublisherInput) (*model.Publisher, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type publisherService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewPublisherService(repo repository.Repository) ServiceInterface {
	return &publisherService{repo: repo, now: time.Now}
}

func (s *publisherService) List(ctx context.Context, filter model.ListFilter) ([]model.Publisher, int, *model.Stats, error) {
	publishers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, nil, err
	}
	stats, err := s.repo.Stats(ctx, filter.Search)
	if err != nil {
		return nil, 0, nil, err
	}
	return publishers, total, stats, nil
}

func (s *publisherService) Get(ctx context.Context, id uuid.UUID) (*model.Publisher, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *publisherService) Create(ctx context.Context, in model.PublisherInput) (*model.Publisher, error) {
	p := &model.Publisher{ID: uuid.New(), CreatedAt: s.now()}
	if err := s.apply(p, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *publisherService) Update(ctx context.Context, id uuid.UUID, in model.PublisherInput) (*model.Publisher, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(p, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *publisherService) apply(p *model.Publisher, in model.PublisherInput) error {
	in.Normalize()
	if err := in.Validate(s.now()); err != nil {
		return err
	}

	p.Name = in.Name
	p.Address = in.Address
	p.Website = in.Website
	p.Email = in.Email
	p.FoundedYear = in.FoundedYear
	p.UpdatedAt = s.now()
	return nil
}

func (s *publisherService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
