package review

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/book-rental-backend/internal/rental"
)

type fakeRepo struct {
	byRental map[string]*Review
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byRental: make(map[string]*Review)}
}

func (f *fakeRepo) Create(ctx context.Context, rv *Review) error {
	if _, exists := f.byRental[rv.RentalID]; exists {
		return ErrAlreadyReviewed
	}
	rv.ID = uuid.NewString()
	clone := *rv
	f.byRental[rv.RentalID] = &clone
	return nil
}

func (f *fakeRepo) ListByBook(ctx context.Context, bookID string) ([]*Review, error) {
	var out []*Review
	for _, rv := range f.byRental {
		if rv.BookID == bookID {
			clone := *rv
			out = append(out, &clone)
		}
	}
	return out, nil
}

// fakeRentalService answers GetByID only.
type fakeRentalService struct {
	rental.Service
	rentals map[string]*rental.Rental
}

func newFakeRentalService(rentals ...*rental.Rental) *fakeRentalService {
	m := make(map[string]*rental.Rental, len(rentals))
	for _, rt := range rentals {
		m[rt.ID] = rt
	}
	return &fakeRentalService{rentals: m}
}

func (f *fakeRentalService) GetByID(ctx context.Context, id string) (*rental.Rental, error) {
	rt, ok := f.rentals[id]
	if !ok {
		return nil, rental.ErrNotFound
	}
	return rt, nil
}

func completedRental(renterID string) *rental.Rental {
	return &rental.Rental{
		ID:       uuid.NewString(),
		BookID:   uuid.NewString(),
		RenterID: renterID,
		Status:   rental.StatusCompleted,
	}
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()
	renterID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		rt := completedRental(renterID)
		svc := NewService(newFakeRepo(), newFakeRentalService(rt))

		comment := "Great book, great owner"
		rv, err := svc.Create(ctx, CreateRequest{
			RentalID: rt.ID,
			Rating:   5,
			Comment:  &comment,
		}, renterID)
		require.NoError(t, err)
		assert.Equal(t, rt.BookID, rv.BookID)
		assert.Equal(t, renterID, rv.AuthorID)
		assert.Equal(t, 5, rv.Rating)
	})

	t.Run("rating out of range", func(t *testing.T) {
		rt := completedRental(renterID)
		svc := NewService(newFakeRepo(), newFakeRentalService(rt))

		for _, rating := range []int{0, -1, 6} {
			_, err := svc.Create(ctx, CreateRequest{RentalID: rt.ID, Rating: rating}, renterID)
			assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
		}
	})

	t.Run("only the renter may review", func(t *testing.T) {
		rt := completedRental(renterID)
		svc := NewService(newFakeRepo(), newFakeRentalService(rt))

		_, err := svc.Create(ctx, CreateRequest{RentalID: rt.ID, Rating: 4}, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotRenter)
	})

	t.Run("rental must be completed", func(t *testing.T) {
		for _, status := range []rental.Status{
			rental.StatusPending, rental.StatusApproved, rental.StatusActive, rental.StatusRejected,
		} {
			rt := completedRental(renterID)
			rt.Status = status
			svc := NewService(newFakeRepo(), newFakeRentalService(rt))

			_, err := svc.Create(ctx, CreateRequest{RentalID: rt.ID, Rating: 4}, renterID)
			assert.ErrorIs(t, err, ErrRentalNotDone, "status %s", status)
		}
	})

	t.Run("one review per rental", func(t *testing.T) {
		rt := completedRental(renterID)
		svc := NewService(newFakeRepo(), newFakeRentalService(rt))

		_, err := svc.Create(ctx, CreateRequest{RentalID: rt.ID, Rating: 4}, renterID)
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{RentalID: rt.ID, Rating: 2}, renterID)
		assert.ErrorIs(t, err, ErrAlreadyReviewed)
	})

	t.Run("unknown rental", func(t *testing.T) {
		svc := NewService(newFakeRepo(), newFakeRentalService())
		_, err := svc.Create(ctx, CreateRequest{RentalID: uuid.NewString(), Rating: 4}, renterID)
		assert.ErrorIs(t, err, rental.ErrNotFound)
	})
}

func TestListByBook(t *testing.T) {
	ctx := context.Background()
	renterID := uuid.NewString()
	rt := completedRental(renterID)

	repo := newFakeRepo()
	svc := NewService(repo, newFakeRentalService(rt))

	_, err := svc.Create(ctx, CreateRequest{RentalID: rt.ID, Rating: 3}, renterID)
	require.NoError(t, err)

	reviews, err := svc.ListByBook(ctx, rt.BookID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 3, reviews[0].Rating)

	reviews, err = svc.ListByBook(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
