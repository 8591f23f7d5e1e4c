package repository

import (
	"context"

	"buxta-backend/internal/domains/book/model"

	"github.com/google/uuid"
)

type Repository interface {
	// Storefront
	ListFeatured(ctx context.Context, limit int) ([]model.Book, error)
	ListActive(ctx context.Context, filter model.ShopFilter) ([]model.Book, int, error)
	GetActiveBySlug(ctx context.Context, slug string) (*model.Book, error)
	ListRelated(ctx context.Context, book *model.Book, limit int) ([]model.Book, error)
	ListApprovedReviews(ctx context.Context, bookID uuid.UUID) ([]model.BookReview, error)

	// Admin
	AdminList(ctx context.Context, filter model.AdminListFilter) ([]model.Book, int, error)
	AdminStats(ctx context.Context) (*model.AdminStats, error)
	ListForExport(ctx context.Context) ([]model.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	TitleExists(ctx context.Context, title string, excludeID uuid.UUID) (bool, error)
	ISBN13Exists(ctx context.Context, isbn string, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, b *model.Book, authorIDs, categoryIDs []uuid.UUID) error
	Update(ctx context.Context, b *model.Book, authorIDs, categoryIDs []uuid.UUID) error
	ToggleActive(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ImageRepository interface {
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.BookImage, error)
	GetByID(ctx context.Context, bookID, imageID uuid.UUID) (*model.BookImage, error)
	// Add inserts images in one transaction. images[coverIndex] becomes primary when
	// coverIndex >= 0, otherwise the first image does if the book has no primary yet.
	Add(ctx context.Context, bookID uuid.UUID, images []model.BookImage, coverIndex int) ([]model.BookImage, error)
	SetPrimary(ctx context.Context, bookID, imageID uuid.UUID) error
	// Delete removes the image and returns it so the caller can clean storage
	Delete(ctx context.Context, bookID, imageID uuid.UUID) (*model.BookImage, error)
	UpdateVariants(ctx context.Context, imageID uuid.UUID, thumbnail, medium, large string) error
}
