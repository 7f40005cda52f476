package rental

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/book-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "rental not found")
	ErrInvalidDateRange = apperror.New(http.StatusBadRequest, "end date must be after start date")
	ErrStartDatePast    = apperror.New(http.StatusBadRequest, "start date cannot be in the past")
	ErrOwnBook          = apperror.New(http.StatusBadRequest, "cannot rent your own book")
	ErrDateConflict     = apperror.New(http.StatusBadRequest, "book is already reserved for the selected dates")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "only the book owner may do this")
	ErrNotPending       = apperror.New(http.StatusBadRequest, "rental is no longer pending")
	ErrNotApproved      = apperror.New(http.StatusBadRequest, "only an approved rental can be picked up")
	ErrNotActive        = apperror.New(http.StatusBadRequest, "only an active rental can be returned")
	ErrWrongSecret      = apperror.New(http.StatusBadRequest, "wrong pickup code")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "status must be APPROVED or REJECTED")
	ErrInvalidAction    = apperror.New(http.StatusBadRequest, "action must be PICKUP or RETURN")
	ErrInvalidListType  = apperror.New(http.StatusBadRequest, "type must be \"incoming\" or \"outgoing\"")
)

// Status is the lifecycle state of a rental.
//
// Allowed transitions:
//
//	PENDING  -> APPROVED | REJECTED   (owner decision)
//	APPROVED -> ACTIVE                (pickup verification)
//	ACTIVE   -> COMPLETED             (return verification or owner confirmation)
//
// REJECTED and COMPLETED are terminal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

// Action is the verification step performed during the QR handshake.
type Action string

const (
	ActionPickup Action = "PICKUP"
	ActionReturn Action = "RETURN"
)

// Rental is a time-bounded booking of a book by a renter from its owner.
type Rental struct {
	ID           string
	BookID       string
	RenterID     string
	StartDate    time.Time
	EndDate      time.Time
	TotalPrice   int
	Status       Status
	PickupSecret string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields for read models and authorization checks.
	BookTitle       string
	BookDailyPrice  int
	BookImages      []string
	BookOwnerID     string
	RenterEmail     string
	RenterAvatarURL *string
}

// DateRange is an inclusive occupied interval of a book's calendar.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two inclusive date ranges intersect.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}
