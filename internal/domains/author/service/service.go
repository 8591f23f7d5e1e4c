package service

import (
	"context"
	"time"

	"buxta-backend/internal/domains/author/model"
	"buxta-backend/internal/domains/author/repository"
	"buxta-backend/internal/shared/utils"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	List(ctx context.Context, filter model.ListFilter) ([]model.Author, int, *model.Stats, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Author, error)
	Create(ctx context.Context, in model.AuthorInput) (*model.Author, error)
	Update(ctx context.Context, id uuid.UUID, in model.AuthorInput) (*model.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type authorService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewAuthorService(repo repository.Repository) ServiceInterface {
	return &authorService{repo: repo, now: time.Now}
}

func (s *authorService) List(ctx context.Context, filter model.ListFilter) ([]model.Author, int, *model.Stats, error) {
	authors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, nil, err
	}
	stats, err := s.repo.Stats(ctx, filter.Search)
	if err != nil {
		return nil, 0, nil, err
	}
	return authors, total, stats, nil
}

func (s *authorService) Get(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) Create(ctx context.Context, in model.AuthorInput) (*model.Author, error) {
	a := &model.Author{ID: uuid.New(), CreatedAt: s.now()}
	if err := s.apply(a, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *authorService) Update(ctx context.Context, id uuid.UUID, in model.AuthorInput) (*model.Author, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(a, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *authorService) apply(a *model.Author, in model.AuthorInput) error {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return err
	}

	// both already validated as dates
	birth, _ := utils.ParseOptionalDate(in.BirthDate)
	death, _ := utils.ParseOptionalDate(in.DeathDate)

	a.FirstName = in.FirstName
	a.LastName = in.LastName
	a.Bio = in.Bio
	a.BirthDate = birth
	a.DeathDate = death
	a.PhotoURL = in.PhotoURL
	a.Website = in.Website
	a.UpdatedAt = s.now()
	a.SetFullName()
	return nil
}

func (s *authorService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
