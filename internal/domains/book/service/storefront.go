package service

import (
	"context"
	"time"

	"buxta-backend/internal/domains/book/model"
	"buxta-backend/internal/domains/book/repository"
	"buxta-backend/internal/shared"
	"buxta-backend/pkg/cache"
	"buxta-backend/pkg/logger"
)

const (
	HomeCacheKey = "storefront:home"
	homeCacheTTL = 5 * time.Minute

	FeaturedLimit = 8
	RelatedLimit  = 4
)

type storefrontService struct {
	repo       repository.Repository
	images     repository.ImageRepository
	categories CategoryLookup
	cache      cache.Cache
}

func NewStorefrontService(
	repo repository.Repository,
	images repository.ImageRepository,
	categories CategoryLookup,
	c cache.Cache,
) StorefrontService {
	return &storefrontService{repo: repo, images: images, categories: categories, cache: c}
}

func (s *storefrontService) Home(ctx context.Context) (*model.HomePage, error) {
	var page model.HomePage
	if found, err := s.cache.Get(ctx, HomeCacheKey, &page); err == nil && found {
		return &page, nil
	} else if err != nil {
		logger.Warn("home cache read failed", map[string]interface{}{"error": err.Error()})
	}

	books, err := s.repo.ListFeatured(ctx, FeaturedLimit)
	if err != nil {
		return nil, err
	}
	page.FeaturedBooks = books

	if err := s.cache.Set(ctx, HomeCacheKey, page, homeCacheTTL); err != nil {
		logger.Warn("home cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return &page, nil
}

func (s *storefrontService) Shop(ctx context.Context, categorySlug, search string, page, limit int) (*model.ShopPage, error) {
	result := &model.ShopPage{Search: search}
	filter := model.ShopFilter{Search: search, Page: page, Limit: limit}

	if categorySlug != "" {
		category, err := s.categories.GetActiveBySlug(ctx, categorySlug)
		if err != nil {
			return nil, err
		}
		result.CurrentCategory = category
		filter.CategoryID = &category.ID
	}

	books, total, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return nil, err
	}
	result.Books = books
	result.Total = total

	if result.Categories, err = s.categories.ActiveRoots(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *storefrontService) BookDetail(ctx context.Context, slug string) (*model.BookDetail, error) {
	book, err := s.repo.GetActiveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	detail := &model.BookDetail{Book: *book}
	if detail.Images, err = s.images.ListByBook(ctx, book.ID); err != nil {
		return nil, err
	}
	if detail.Reviews, err = s.repo.ListApprovedReviews(ctx, book.ID); err != nil {
		return nil, err
	}
	if detail.Related, err = s.repo.ListRelated(ctx, book, RelatedLimit); err != nil {
		return nil, err
	}
	return detail, nil
}

// invalidateStorefront drops cached storefront pages after a catalog write
func invalidateStorefront(ctx context.Context, c cache.Cache) {
	if err := c.DeletePattern(ctx, shared.StorefrontCacheKeys); err != nil {
		logger.Warn("storefront cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
