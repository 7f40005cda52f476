package review

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/book-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "review not found")
	ErrNotRenter       = apperror.New(http.StatusForbidden, "only the renter may review this rental")
	ErrRentalNotDone   = apperror.New(http.StatusBadRequest, "rental must be completed before reviewing")
	ErrAlreadyReviewed = apperror.New(http.StatusBadRequest, "this rental has already been reviewed")
	ErrInvalidRating   = apperror.New(http.StatusBadRequest, "rating must be between 1 and 5")
)

// Review is a renter's rating of a completed rental.
type Review struct {
	ID        string
	RentalID  string
	BookID    string
	AuthorID  string
	Rating    int
	Comment   *string
	CreatedAt time.Time

	// Joined author fields for read models.
	AuthorEmail     string
	AuthorAvatarURL *string
}
