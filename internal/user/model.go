package user

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/book-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrInactiveUser       = apperror.New(http.StatusForbidden, "user is inactive")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password must be at least 8 characters")
)

// User represents a registered account. Every user can both list books
// and rent books from others.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	AvatarURL    *string
	IsPremium    bool
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
