package book

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/book-rental-backend/internal/user"
)

type fakeRepo struct {
	mu    sync.Mutex
	books map[string]*Book
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{books: make(map[string]*Book)}
}

func (f *fakeRepo) Create(ctx context.Context, b *Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b.ID = uuid.NewString()
	clone := *b
	f.books[b.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.books[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (f *fakeRepo) ListPublic(ctx context.Context, filter Filter) ([]*Book, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*Book
	for _, b := range f.books {
		if b.Status == StatusAvailable {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListByOwner(ctx context.Context, ownerID string) ([]*Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*Book
	for _, b := range f.books {
		if b.OwnerID == ownerID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListNewest(ctx context.Context, limit int) ([]*Book, error) {
	books, _, err := f.ListPublic(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	if len(books) > limit {
		books = books[:limit]
	}
	return books, nil
}

func (f *fakeRepo) ListTopRated(ctx context.Context, limit int) ([]*Book, error) {
	return f.ListNewest(ctx, limit)
}

func (f *fakeRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, b := range f.books {
		if b.OwnerID == ownerID && b.Status != StatusArchived {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) Update(ctx context.Context, b *Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.books[b.ID]; !ok {
		return ErrNotFound
	}
	clone := *b
	f.books[b.ID] = &clone
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.books[id]; !ok {
		return ErrNotFound
	}
	delete(f.books, id)
	return nil
}

// fakeUserService answers GetByID only.
type fakeUserService struct {
	user.Service
	users map[string]*user.User
}

func newFakeUserService(users ...*user.User) *fakeUserService {
	m := make(map[string]*user.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserService{users: m}
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func testUser(premium bool) *user.User {
	return &user.User{
		ID:        uuid.NewString(),
		Email:     uuid.NewString() + "@example.com",
		IsPremium: premium,
		IsActive:  true,
	}
}

func validCreateRequest() CreateRequest {
	return CreateRequest{
		Title:      "Clean Architecture",
		Author:     "Robert C. Martin",
		DailyPrice: 150,
		Deposit:    500,
	}
}

func TestCreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		owner := testUser(false)
		svc := NewService(newFakeRepo(), newFakeUserService(owner))

		b, err := svc.Create(ctx, validCreateRequest(), owner.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, StatusAvailable, b.Status)
		assert.NotNil(t, b.Images)
	})

	t.Run("title required", func(t *testing.T) {
		owner := testUser(false)
		svc := NewService(newFakeRepo(), newFakeUserService(owner))

		req := validCreateRequest()
		req.Title = "   "
		_, err := svc.Create(ctx, req, owner.ID)
		assert.ErrorIs(t, err, ErrTitleRequired)
	})

	t.Run("author required", func(t *testing.T) {
		owner := testUser(false)
		svc := NewService(newFakeRepo(), newFakeUserService(owner))

		req := validCreateRequest()
		req.Author = ""
		_, err := svc.Create(ctx, req, owner.ID)
		assert.ErrorIs(t, err, ErrAuthorRequired)
	})

	t.Run("negative price", func(t *testing.T) {
		owner := testUser(false)
		svc := NewService(newFakeRepo(), newFakeUserService(owner))

		req := validCreateRequest()
		req.DailyPrice = -1
		_, err := svc.Create(ctx, req, owner.ID)
		assert.ErrorIs(t, err, ErrNegativePrice)
	})
}

func TestFreeListingLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("free user capped", func(t *testing.T) {
		owner := testUser(false)
		svc := NewService(newFakeRepo(), newFakeUserService(owner))

		for i := 0; i < FreeListingLimit; i++ {
			_, err := svc.Create(ctx, validCreateRequest(), owner.ID)
			require.NoError(t, err)
		}

		_, err := svc.Create(ctx, validCreateRequest(), owner.ID)
		assert.ErrorIs(t, err, ErrListingLimit)
	})

	t.Run("premium user unrestricted", func(t *testing.T) {
		owner := testUser(true)
		svc := NewService(newFakeRepo(), newFakeUserService(owner))

		for i := 0; i < FreeListingLimit+3; i++ {
			_, err := svc.Create(ctx, validCreateRequest(), owner.ID)
			require.NoError(t, err)
		}
	})

	t.Run("archived listings do not count", func(t *testing.T) {
		owner := testUser(false)
		repo := newFakeRepo()
		svc := NewService(repo, newFakeUserService(owner))

		var first *Book
		for i := 0; i < FreeListingLimit; i++ {
			b, err := svc.Create(ctx, validCreateRequest(), owner.ID)
			require.NoError(t, err)
			if first == nil {
				first = b
			}
		}

		archived := string(StatusArchived)
		_, err := svc.Update(ctx, first.ID, UpdateRequest{Status: &archived}, owner.ID)
		require.NoError(t, err)

		_, err = svc.Create(ctx, validCreateRequest(), owner.ID)
		assert.NoError(t, err)
	})
}

func TestUpdateBook(t *testing.T) {
	ctx := context.Background()
	owner := testUser(false)
	other := testUser(false)

	setup := func(t *testing.T) (Service, *Book) {
		svc := NewService(newFakeRepo(), newFakeUserService(owner, other))
		b, err := svc.Create(ctx, validCreateRequest(), owner.ID)
		require.NoError(t, err)
		return svc, b
	}

	t.Run("owner updates fields", func(t *testing.T) {
		svc, b := setup(t)

		newTitle := "Refactoring"
		newPrice := 220
		updated, err := svc.Update(ctx, b.ID, UpdateRequest{
			Title:      &newTitle,
			DailyPrice: &newPrice,
		}, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, "Refactoring", updated.Title)
		assert.Equal(t, 220, updated.DailyPrice)
		assert.Equal(t, b.Author, updated.Author, "untouched fields survive")
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		svc, b := setup(t)

		newTitle := "Hijacked"
		_, err := svc.Update(ctx, b.ID, UpdateRequest{Title: &newTitle}, other.ID)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, b := setup(t)

		bogus := "LOST"
		_, err := svc.Update(ctx, b.ID, UpdateRequest{Status: &bogus}, owner.ID)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()
	owner := testUser(false)
	other := testUser(false)

	svc := NewService(newFakeRepo(), newFakeUserService(owner, other))
	b, err := svc.Create(ctx, validCreateRequest(), owner.ID)
	require.NoError(t, err)

	err = svc.Delete(ctx, b.ID, other.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = svc.Delete(ctx, b.ID, owner.ID)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
