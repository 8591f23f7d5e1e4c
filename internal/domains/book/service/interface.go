package service

import (
	"context"
	"io"

	"buxta-backend/internal/domains/book/model"
	categorymodel "buxta-backend/internal/domains/category/model"
	"buxta-backend/internal/shared"

	"github.com/google/uuid"
)

type StorefrontService interface {
	Home(ctx context.Context) (*model.HomePage, error)
	Shop(ctx context.Context, categorySlug, search string, page, limit int) (*model.ShopPage, error)
	BookDetail(ctx context.Context, slug string) (*model.BookDetail, error)
}

type AdminService interface {
	List(ctx context.Context, filter model.AdminListFilter) ([]model.Book, int, *model.AdminStats, error)
	Get(ctx context.Context, id uuid.UUID) (*model.BookDetail, error)
	Create(ctx context.Context, in model.BookInput) (*model.Book, error)
	Update(ctx context.Context, id uuid.UUID, in model.BookInput) (*model.Book, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Export(ctx context.Context, w io.Writer) error
}

type ImageService interface {
	List(ctx context.Context, bookID uuid.UUID) ([]model.BookImage, error)
	Upload(ctx context.Context, bookID uuid.UUID, files []model.UploadFile) ([]model.BookImage, error)
	SetPrimary(ctx context.Context, bookID, imageID uuid.UUID) error
	Delete(ctx context.Context, bookID, imageID uuid.UUID) error

	// worker side
	ProcessVariants(ctx context.Context, p shared.ProcessBookImagePayload) error
	DeleteObjects(ctx context.Context, p shared.DeleteStorageObjectsPayload) error
}

// CategoryLookup is the slice of the category service the shop page needs
type CategoryLookup interface {
	GetActiveBySlug(ctx context.Context, slug string) (*categorymodel.Category, error)
	ActiveRoots(ctx context.Context) ([]categorymodel.Category, error)
}

// ObjectStorage is implemented by storage.MinIOStorage
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// ImageProcessor is implemented by storage.ImageProcessor
type ImageProcessor interface {
	ValidateImage(data []byte) (string, error)
	ProcessImage(data []byte) (map[string][]byte, error)
}
