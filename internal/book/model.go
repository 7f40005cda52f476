package book

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/book-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "book not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "only the book owner may do this")
	ErrTitleRequired    = apperror.New(http.StatusBadRequest, "title is required")
	ErrAuthorRequired   = apperror.New(http.StatusBadRequest, "author is required")
	ErrNegativePrice    = apperror.New(http.StatusBadRequest, "daily price must not be negative")
	ErrListingLimit     = apperror.New(http.StatusForbidden, "free listing limit reached (max 5), upgrade to premium")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid book status")
)

// Status is the listing state of a book. It is informational only:
// rental conflict checks recompute occupancy from overlapping rentals
// instead of trusting this field.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusRented      Status = "RENTED"
	StatusUnavailable Status = "UNAVAILABLE"
	StatusArchived    Status = "ARCHIVED"
)

// FreeListingLimit is the maximum number of books a non-premium user may list.
const FreeListingLimit = 5

// Book is a listing offered for rent by its owner.
type Book struct {
	ID          string
	OwnerID     string
	Title       string
	Author      string
	ISBN        *string
	Description *string
	Genre       *string
	Images      []string
	PublishYear *int
	Language    *string
	DailyPrice  int
	Deposit     int
	Status      Status
	Latitude    *float64
	Longitude   *float64
	CreatedAt   time.Time

	// Joined owner fields for read models.
	OwnerEmail     string
	OwnerAvatarURL *string

	// AvgRating is filled by rating-aware read models, nil elsewhere.
	AvgRating *float64
}

// Filter defines parameters for the public catalog listing.
type Filter struct {
	Search   string // matches title or author, case-insensitive
	Genre    string
	MinPrice *int
	MaxPrice *int
	Page     int
	PageSize int
}
