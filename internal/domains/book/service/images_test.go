package service

import (
	"context"
	"strings"
	"testing"

	"buxta-backend/internal/domains/book/model"
	"buxta-backend/internal/shared"
	"buxta-backend/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func primaries(images []model.BookImage) int {
	n := 0
	for _, img := range images {
		if img.IsPrimary {
			n++
		}
	}
	return n
}

func TestUpload_FirstImageBecomesPrimary(t *testing.T) {
	f := newFixture()
	book := f.books.add(model.Book{Title: "Nervous Conditions"})
	ctx := context.Background()

	saved, err := f.imageSvc().Upload(ctx, book.ID, []model.UploadFile{
		{Filename: "a.png", Data: []byte("png-a")},
		{Filename: "b.jpg", Data: []byte("jpeg-b")},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.True(t, saved[0].IsPrimary)
	assert.False(t, saved[1].IsPrimary)
	assert.True(t, strings.HasSuffix(saved[0].ObjectKey, ".png"))
	assert.True(t, strings.HasSuffix(saved[1].ObjectKey, ".jpg"))
	assert.Equal(t, "Nervous Conditions", saved[0].AltText)
	assert.Len(t, f.storage.objects, 2)

	require.Len(t, f.queue.tasks, 2)
	assert.Equal(t, shared.TypeProcessBookImage, f.queue.tasks[0].taskType)

	// later uploads without a cover keep the existing primary
	_, err = f.imageSvc().Upload(ctx, book.ID, []model.UploadFile{{Filename: "c.png", Data: []byte("png-c")}})
	require.NoError(t, err)
	all, _ := f.images.ListByBook(ctx, book.ID)
	assert.Equal(t, 1, primaries(all))
	assert.Equal(t, saved[0].ID, all[0].ID)
}

func TestUpload_CoverReplacesPrimary(t *testing.T) {
	f := newFixture()
	book := f.books.add(model.Book{Title: "Xala"})
	ctx := context.Background()

	first, err := f.imageSvc().Upload(ctx, book.ID, []model.UploadFile{{Data: []byte("png-1")}})
	require.NoError(t, err)

	cover, err := f.imageSvc().Upload(ctx, book.ID, []model.UploadFile{{Data: []byte("png-2"), IsCover: true}})
	require.NoError(t, err)

	all, _ := f.images.ListByBook(ctx, book.ID)
	assert.Equal(t, 1, primaries(all))
	assert.Equal(t, cover[0].ID, all[0].ID)
	assert.NotEqual(t, first[0].ID, all[0].ID)
}

func TestUpload_RejectsBeforeStoring(t *testing.T) {
	f := newFixture()
	book := f.books.add(model.Book{Title: "Maps"})
	ctx := context.Background()

	_, err := f.imageSvc().Upload(ctx, book.ID, nil)
	assert.ErrorIs(t, err, model.ErrNoImages)

	_, err = f.imageSvc().Upload(ctx, book.ID, []model.UploadFile{
		{Filename: "ok.png", Data: []byte("png")},
		{Filename: "big.png", Data: []byte("huge")},
	})
	require.Error(t, err)
	appErr, ok := apperror.From(err)
	require.True(t, ok)
	assert.Equal(t, "big.png: Image size must be less than 5MB", appErr.Message)

	_, err = f.imageSvc().Upload(ctx, book.ID, []model.UploadFile{{Filename: "x.gif", Data: []byte("gif")}})
	appErr, _ = apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "x.gif: Only JPEG and PNG images are allowed", appErr.Message)

	assert.Empty(t, f.storage.objects)
	assert.Empty(t, f.queue.tasks)

	_, err = f.imageSvc().Upload(ctx, uuid.New(), []model.UploadFile{{Data: []byte("png")}})
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestUpload_StorageFailureCleansUp(t *testing.T) {
	f := newFixture()
	book := f.books.add(model.Book{Title: "Season of Migration"})
	f.storage.failOn = ".jpg"

	_, err := f.imageSvc().Upload(context.Background(), book.ID, []model.UploadFile{
		{Data: []byte("png-1")},
		{Data: []byte("jpeg-2")},
	})
	require.Error(t, err)
	assert.Empty(t, f.storage.objects)
	assert.Empty(t, f.images.images[book.ID])
}

func TestSetPrimary(t *testing.T) {
	f := newFixture()
	book := f.books.add(model.Book{Title: "So Long a Letter"})
	ctx := context.Background()
	saved, err := f.imageSvc().Upload(ctx, book.ID, []model.UploadFile{{Data: []byte("png-1")}, {Data: []byte("png-2")}})
	require.NoError(t, err)

	require.NoError(t, f.imageSvc().SetPrimary(ctx, book.ID, saved[1].ID))
	all, _ := f.images.ListByBook(ctx, book.ID)
	assert.Equal(t, 1, primaries(all))
	assert.Equal(t, saved[1].ID, all[0].ID)

	err = f.imageSvc().SetPrimary(ctx, book.ID, uuid.New())
	assert.ErrorIs(t, err, model.ErrImageNotFound)
}

func TestDeleteImage(t *testing.T) {
	f := newFixture()
	book := f.books.add(model.Book{Title: "Woman at Point Zero"})
	ctx := context.Background()
	saved, err := f.imageSvc().Upload(ctx, book.ID, []model.UploadFile{{Data: []byte("png-1")}})
	require.NoError(t, err)
	f.queue.tasks = nil

	err = f.imageSvc().Delete(ctx, book.ID, saved[0].ID)
	assert.ErrorIs(t, err, model.ErrOnlyImage)
	assert.Empty(t, f.queue.tasks)

	more, err := f.imageSvc().Upload(ctx, book.ID, []model.UploadFile{{Data: []byte("png-2")}})
	require.NoError(t, err)
	f.queue.tasks = nil

	require.NoError(t, f.imageSvc().Delete(ctx, book.ID, saved[0].ID))
	all, _ := f.images.ListByBook(ctx, book.ID)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsPrimary)
	assert.Equal(t, more[0].ID, all[0].ID)

	require.Len(t, f.queue.tasks, 1)
	assert.Equal(t, shared.DeleteStorageObjectsPayload{Prefix: model.ObjectPrefix(book.ID, saved[0].ID)}, f.queue.tasks[0].payload)
}

func TestProcessVariantsAndDeleteObjects(t *testing.T) {
	f := newFixture()
	book := f.books.add(model.Book{Title: "Kintu"})
	ctx := context.Background()
	saved, err := f.imageSvc().Upload(ctx, book.ID, []model.UploadFile{{Data: []byte("png-1")}})
	require.NoError(t, err)
	img := saved[0]

	err = f.imageSvc().ProcessVariants(ctx, shared.ProcessBookImagePayload{
		BookID: book.ID.String(), ImageID: img.ID.String(), ObjectKey: img.ObjectKey,
	})
	require.NoError(t, err)

	base := model.ObjectPrefix(book.ID, img.ID)
	assert.Contains(t, f.storage.objects, base+"_thumbnail.jpg")
	stored, _ := f.images.GetByID(ctx, book.ID, img.ID)
	assert.Equal(t, "http://minio.local/buxta/"+base+"_large.jpg", stored.LargeURL)

	require.NoError(t, f.imageSvc().DeleteObjects(ctx, shared.DeleteStorageObjectsPayload{Prefix: base}))
	assert.Empty(t, f.storage.objects)
}
