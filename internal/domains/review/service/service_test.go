package service

import (
	"context"
	"testing"

	customermodel "buxta-backend/internal/domains/customer/model"
	"buxta-backend/internal/domains/review/model"
	"buxta-backend/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	reviews map[uuid.UUID]*model.Review
	books   map[string]uuid.UUID // active slugs
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reviews: map[uuid.UUID]*model.Review{}, books: map[string]uuid.UUID{}}
}

func (f *fakeRepo) Create(_ context.Context, r *model.Review, slug string) error {
	bookID, ok := f.books[slug]
	if !ok {
		return model.ErrBookNotFound
	}
	for _, existing := range f.reviews {
		if existing.BookID == bookID && existing.CustomerID == r.CustomerID {
			return model.ErrAlreadyReviewed
		}
	}
	r.BookID = bookID
	cp := *r
	f.reviews[r.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	if r, ok := f.reviews[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, model.ErrReviewNotFound
}

func (f *fakeRepo) List(context.Context, model.ListFilter) ([]model.Review, int, error) {
	out := make([]model.Review, 0, len(f.reviews))
	for _, r := range f.reviews {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Stats(context.Context) (*model.Stats, error) {
	var s model.Stats
	sum := 0
	for _, r := range f.reviews {
		s.Total++
		if r.IsApproved {
			s.Approved++
			sum += r.Rating
		} else {
			s.Pending++
		}
		if r.IsVerifiedPurchase {
			s.Verified++
		}
	}
	if s.Approved > 0 {
		s.AverageRating = float64(sum) / float64(s.Approved)
	}
	return &s, nil
}

func (f *fakeRepo) SetApproved(_ context.Context, ids []uuid.UUID, approved bool) (int, error) {
	n := 0
	for _, id := range ids {
		if r, ok := f.reviews[id]; ok {
			r.IsApproved = approved
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) ToggleVerified(_ context.Context, id uuid.UUID) (bool, error) {
	r, ok := f.reviews[id]
	if !ok {
		return false, model.ErrReviewNotFound
	}
	r.IsVerifiedPurchase = !r.IsVerifiedPurchase
	return r.IsVerifiedPurchase, nil
}

func (f *fakeRepo) Delete(_ context.Context, ids []uuid.UUID) (int, error) {
	n := 0
	for _, id := range ids {
		if _, ok := f.reviews[id]; ok {
			delete(f.reviews, id)
			n++
		}
	}
	return n, nil
}

type fakeCustomers struct {
	byUser map[uuid.UUID]uuid.UUID
}

func (f *fakeCustomers) GetOrCreateByUser(_ context.Context, userID uuid.UUID) (*customermodel.Customer, error) {
	if f.byUser == nil {
		f.byUser = map[uuid.UUID]uuid.UUID{}
	}
	if _, ok := f.byUser[userID]; !ok {
		f.byUser[userID] = uuid.New()
	}
	return &customermodel.Customer{ID: f.byUser[userID], UserID: userID}, nil
}

func newService(repo *fakeRepo) ServiceInterface {
	return NewReviewService(repo, &fakeCustomers{}, cache.NewMemoryCache())
}

func TestCreateReview(t *testing.T) {
	repo := newFakeRepo()
	repo.books["the-famished-road"] = uuid.New()
	svc := newService(repo)
	ctx := context.Background()
	userID := uuid.New()

	r, err := svc.Create(ctx, userID, "the-famished-road", model.ReviewInput{Rating: 5, Title: " Magical ", Content: "Loved it"})
	require.NoError(t, err)
	assert.False(t, r.IsApproved)
	assert.Equal(t, "Magical", r.Title)

	_, err = svc.Create(ctx, userID, "the-famished-road", model.ReviewInput{Rating: 4, Content: "Again"})
	assert.ErrorIs(t, err, model.ErrAlreadyReviewed)

	_, err = svc.Create(ctx, userID, "missing", model.ReviewInput{Rating: 4, Content: "x"})
	assert.ErrorIs(t, err, model.ErrBookNotFound)

	_, err = svc.Create(ctx, uuid.New(), "the-famished-road", model.ReviewInput{Rating: 6, Content: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rating must be between 1 and 5")
}

func seed(repo *fakeRepo, n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
		repo.reviews[ids[i]] = &model.Review{ID: ids[i], Rating: i%5 + 1}
	}
	return ids
}

func TestAct(t *testing.T) {
	repo := newFakeRepo()
	ids := seed(repo, 2)
	svc := newService(repo)
	ctx := context.Background()

	res, err := svc.Act(ctx, ids[0], model.ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, "Review approved successfully!", res.Message)
	assert.True(t, repo.reviews[ids[0]].IsApproved)

	res, err = svc.Act(ctx, ids[0], model.ActionReject)
	require.NoError(t, err)
	assert.Equal(t, "Review rejected successfully!", res.Message)
	assert.False(t, repo.reviews[ids[0]].IsApproved)

	res, err = svc.Act(ctx, ids[0], model.ActionToggleVerified)
	require.NoError(t, err)
	require.NotNil(t, res.IsVerified)
	assert.True(t, *res.IsVerified)
	assert.Equal(t, "Review marked as verified purchase", res.Message)

	res, err = svc.Act(ctx, ids[1], model.ActionDelete)
	require.NoError(t, err)
	assert.Equal(t, "Review deleted successfully!", res.Message)
	assert.NotContains(t, repo.reviews, ids[1])

	_, err = svc.Act(ctx, ids[1], model.ActionApprove)
	assert.ErrorIs(t, err, model.ErrReviewNotFound)

	_, err = svc.Act(ctx, ids[0], "feature")
	assert.ErrorIs(t, err, model.ErrInvalidAction)
}

func TestBulkAct(t *testing.T) {
	repo := newFakeRepo()
	ids := seed(repo, 3)
	svc := newService(repo)
	ctx := context.Background()

	_, err := svc.BulkAct(ctx, model.ActionApprove, nil)
	assert.ErrorIs(t, err, model.ErrNoReviewsChosen)

	msg, err := svc.BulkAct(ctx, model.ActionApprove, ids)
	require.NoError(t, err)
	assert.Equal(t, "3 reviews approved successfully!", msg)

	_, _, stats, err := svc.List(ctx, model.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Approved)
	assert.Equal(t, 0, stats.Pending)

	msg, err = svc.BulkAct(ctx, model.ActionDelete, ids[:2])
	require.NoError(t, err)
	assert.Equal(t, "2 reviews deleted successfully!", msg)

	_, err = svc.BulkAct(ctx, model.ActionToggleVerified, ids)
	assert.ErrorIs(t, err, model.ErrInvalidAction)
}
