package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"buxta-backend/internal/domains/book/model"
	"buxta-backend/internal/infrastructure/database/dbtest"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedImages(t *testing.T, repo ImageRepository, bookID uuid.UUID, n int) []model.BookImage {
	t.Helper()

	images := make([]model.BookImage, n)
	for i := range images {
		id := uuid.New()
		images[i] = model.BookImage{
			ID:        id,
			ImageURL:  "http://minio/books/" + id.String() + ".jpg",
			ObjectKey: model.ObjectPrefix(bookID, id) + "/original.jpg",
			CreatedAt: time.Now().UTC(),
		}
	}
	added, err := repo.Add(context.Background(), bookID, images, 0)
	require.NoError(t, err)
	return added
}

func primaries(t *testing.T, repo ImageRepository, bookID uuid.UUID) []uuid.UUID {
	t.Helper()

	list, err := repo.ListByBook(context.Background(), bookID)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, 1)
	for _, img := range list {
		if img.IsPrimary {
			ids = append(ids, img.ID)
		}
	}
	return ids
}

func TestSetPrimary_ConcurrentCallsSerialize(t *testing.T) {
	pool := dbtest.Pool(t)
	repo := NewImageRepository(pool)
	ctx := context.Background()

	bookID := dbtest.SeedBook(t, pool, decimal.NewFromInt(700), 1)
	images := seedImages(t, repo, bookID, 3)
	require.Equal(t, []uuid.UUID{images[0].ID}, primaries(t, repo, bookID))

	candidates := []uuid.UUID{images[1].ID, images[2].ID}
	errs := make([]error, len(candidates))
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, id := range candidates {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			<-start
			errs[i] = repo.SetPrimary(ctx, bookID, id)
		}(i, id)
	}
	close(start)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	current := primaries(t, repo, bookID)
	require.Len(t, current, 1)
	assert.Contains(t, candidates, current[0])
}

func TestSetPrimary_UnknownImage(t *testing.T) {
	pool := dbtest.Pool(t)
	repo := NewImageRepository(pool)

	bookID := dbtest.SeedBook(t, pool, decimal.NewFromInt(700), 1)
	images := seedImages(t, repo, bookID, 1)

	err := repo.SetPrimary(context.Background(), bookID, uuid.New())
	assert.ErrorIs(t, err, model.ErrImageNotFound)
	assert.Equal(t, []uuid.UUID{images[0].ID}, primaries(t, repo, bookID))

	err = repo.SetPrimary(context.Background(), uuid.New(), images[0].ID)
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}
