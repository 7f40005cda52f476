package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/book-rental-backend/internal/auth"
)

type fakeRepo struct {
	byID    map[string]*User
	byEmail map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeRepo) Create(ctx context.Context, u *User) error {
	if _, exists := f.byEmail[u.Email]; exists {
		return ErrEmailAlreadyUsed
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	clone := *u
	f.byID[u.ID] = &clone
	f.byEmail[u.Email] = &clone
	return nil
}

func (f *fakeRepo) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = &t
	return nil
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, u *User) error {
	stored, ok := f.byID[u.ID]
	if !ok {
		return ErrNotFound
	}
	clone := *u
	clone.Email = stored.Email
	f.byID[u.ID] = &clone
	f.byEmail[clone.Email] = &clone
	return nil
}

func newTestService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	// Minimal bcrypt cost keeps the suite fast.
	return NewService(repo, auth.NewBcryptPasswordHasherWithCost(4)), repo
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes email", func(t *testing.T) {
		svc, _ := newTestService()

		u, err := svc.Register(ctx, "  Reader@Example.COM ", "sup3rsecret", "Reader One")
		require.NoError(t, err)
		assert.Equal(t, "reader@example.com", u.Email)
		assert.True(t, u.IsActive)
		require.NotNil(t, u.DisplayName)
		assert.Equal(t, "Reader One", *u.DisplayName)
		assert.NotEqual(t, "sup3rsecret", u.PasswordHash)
	})

	t.Run("email required", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Register(ctx, "   ", "sup3rsecret", "")
		assert.ErrorIs(t, err, ErrEmailRequired)
	})

	t.Run("short password", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Register(ctx, "reader@example.com", "short", "")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Register(ctx, "reader@example.com", "sup3rsecret", "")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "READER@example.com", "sup3rsecret", "")
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, svc Service) *User {
		u, err := svc.Register(ctx, "reader@example.com", "sup3rsecret", "")
		require.NoError(t, err)
		return u
	}

	t.Run("success records last login", func(t *testing.T) {
		svc, repo := newTestService()
		registered := register(t, svc)

		u, err := svc.Login(ctx, "reader@example.com", "sup3rsecret")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)

		stored, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := newTestService()
		register(t, svc)

		_, err := svc.Login(ctx, "reader@example.com", "wrongpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Login(ctx, "nobody@example.com", "sup3rsecret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		svc, repo := newTestService()
		registered := register(t, svc)

		repo.byID[registered.ID].IsActive = false
		repo.byEmail[registered.Email].IsActive = false

		_, err := svc.Login(ctx, "reader@example.com", "sup3rsecret")
		assert.ErrorIs(t, err, ErrInactiveUser)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	registered, err := svc.Register(ctx, "reader@example.com", "sup3rsecret", "Old Name")
	require.NoError(t, err)

	newName := "New Name"
	avatar := "/v1/files/" + uuid.NewString()
	updated, err := svc.UpdateProfile(ctx, registered.ID, UpdateProfileRequest{
		DisplayName: &newName,
		AvatarURL:   &avatar,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.DisplayName)
	assert.Equal(t, "New Name", *updated.DisplayName)
	require.NotNil(t, updated.AvatarURL)
	assert.Equal(t, avatar, *updated.AvatarURL)

	blank := "  "
	updated, err = svc.UpdateProfile(ctx, registered.ID, UpdateProfileRequest{DisplayName: &blank})
	require.NoError(t, err)
	assert.Nil(t, updated.DisplayName, "blank display name clears the field")
}
