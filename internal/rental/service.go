package rental

import (
	"context"
	"crypto/subtle"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/book-rental-backend/internal/book"
	"github.com/nekogravitycat/book-rental-backend/internal/notify"
)

type CreateRequest struct {
	BookID    string
	StartDate time.Time
	EndDate   time.Time
}

type VerifyRequest struct {
	RentalID string
	Secret   string
	Action   Action
}

// ListType selects which side of a user's rentals to list.
type ListType string

const (
	ListIncoming ListType = "incoming" // rentals of books the user owns
	ListOutgoing ListType = "outgoing" // rentals where the user is the renter
)

type Service interface {
	// Create validates the request, checks the book's calendar for conflicts
	// and persists a PENDING rental. The book owner is notified.
	Create(ctx context.Context, req CreateRequest, renterID string) (*Rental, error)

	// GetByID returns a rental with its joined book and renter fields.
	GetByID(ctx context.Context, id string) (*Rental, error)

	// ListMy lists the caller's rentals, incoming or outgoing.
	ListMy(ctx context.Context, userID string, typ ListType) ([]*Rental, error)

	// UpdateStatus applies the owner's decision on a PENDING rental.
	UpdateStatus(ctx context.Context, id string, status Status, actorID string) (*Rental, error)

	// Verify performs the QR-code handshake: the owner scans the renter's
	// code to start (PICKUP) or end (RETURN) the rental.
	Verify(ctx context.Context, req VerifyRequest, actorID string) (*Rental, error)

	// ConfirmReturn completes an ACTIVE rental without a QR code.
	// This is the canonical return path.
	ConfirmReturn(ctx context.Context, id string, actorID string) (*Rental, error)

	// Availability returns the occupied date ranges of a book's calendar.
	Availability(ctx context.Context, bookID string) ([]DateRange, error)
}

type service struct {
	repo        Repository
	bookService book.Service
	notifier    notify.Notifier
}

func NewService(repo Repository, bookService book.Service, notifier notify.Notifier) Service {
	return &service{
		repo:        repo,
		bookService: bookService,
		notifier:    notifier,
	}
}

// TotalPrice computes the rental price: whole-day count (partial days round
// up) times the book's daily price. A rental from day N to day N+1 costs
// exactly one day's price.
func TotalPrice(start, end time.Time, dailyPrice int) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	return days * dailyPrice
}

// today returns midnight UTC of the current day, the reference point for
// "start date not in the past".
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *service) Create(ctx context.Context, req CreateRequest, renterID string) (*Rental, error) {
	// Validation order matters: date sanity first, then book existence,
	// then ownership, then the calendar conflict check.
	if req.StartDate.Before(today()) {
		return nil, ErrStartDatePast
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	b, err := s.bookService.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	if b.OwnerID == renterID {
		return nil, ErrOwnBook
	}

	rt := &Rental{
		BookID:       req.BookID,
		RenterID:     renterID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		TotalPrice:   TotalPrice(req.StartDate, req.EndDate, b.DailyPrice),
		Status:       StatusPending,
		PickupSecret: uuid.NewString(),
	}

	// The repository performs the overlap check and the insert atomically.
	if err := s.repo.Create(ctx, rt); err != nil {
		return nil, err
	}

	rt.BookTitle = b.Title
	rt.BookDailyPrice = b.DailyPrice
	rt.BookImages = b.Images
	rt.BookOwnerID = b.OwnerID

	s.notifier.Notify(notify.Message{
		UserID: b.OwnerID,
		Title:  "New rental request",
		Body:   fmt.Sprintf("You have a new rental request for %q", b.Title),
		Kind:   notify.KindInfo,
		Link:   "/profile?tab=incoming",
	})

	return rt, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Rental, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListMy(ctx context.Context, userID string, typ ListType) ([]*Rental, error) {
	switch typ {
	case ListIncoming:
		return s.repo.ListByOwner(ctx, userID)
	case ListOutgoing:
		return s.repo.ListByRenter(ctx, userID)
	default:
		return nil, ErrInvalidListType
	}
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status, actorID string) (*Rental, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, ErrInvalidStatus
	}

	rt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rt.BookOwnerID != actorID {
		return nil, ErrPermissionDenied
	}

	if rt.Status != StatusPending {
		return nil, ErrNotPending
	}

	// Conditional update: a concurrent decision loses the race and reports
	// "no longer pending" instead of silently overwriting.
	updated, err := s.repo.CompareAndSetStatus(ctx, id, StatusPending, status)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotPending
	}
	rt.Status = status

	if status == StatusApproved {
		s.notifier.Notify(notify.Message{
			UserID: rt.RenterID,
			Title:  "Request approved",
			Body:   fmt.Sprintf("Your rental request for %q was approved", rt.BookTitle),
			Kind:   notify.KindSuccess,
			Link:   "/profile?tab=outgoing",
		})
	} else {
		s.notifier.Notify(notify.Message{
			UserID: rt.RenterID,
			Title:  "Request rejected",
			Body:   fmt.Sprintf("Your rental request for %q was rejected", rt.BookTitle),
			Kind:   notify.KindWarning,
			Link:   "/profile?tab=outgoing",
		})
	}

	return rt, nil
}

func (s *service) Verify(ctx context.Context, req VerifyRequest, actorID string) (*Rental, error) {
	rt, err := s.repo.GetByID(ctx, req.RentalID)
	if err != nil {
		return nil, err
	}

	if rt.BookOwnerID != actorID {
		return nil, ErrPermissionDenied
	}

	switch req.Action {
	case ActionPickup:
		if rt.Status != StatusApproved {
			return nil, ErrNotApproved
		}
		if subtle.ConstantTimeCompare([]byte(rt.PickupSecret), []byte(req.Secret)) != 1 {
			return nil, ErrWrongSecret
		}

		updated, err := s.repo.CompareAndSetStatus(ctx, req.RentalID, StatusApproved, StatusActive)
		if err != nil {
			return nil, err
		}
		if !updated {
			return nil, ErrNotApproved
		}
		rt.Status = StatusActive

		s.notifier.Notify(notify.Message{
			UserID: rt.RenterID,
			Title:  "Rental started",
			Body:   fmt.Sprintf("Your rental of %q has started. Happy reading!", rt.BookTitle),
			Kind:   notify.KindSuccess,
			Link:   "/profile?tab=outgoing",
		})
		return rt, nil

	case ActionReturn:
		// The return branch does not re-check the secret: the owner holding
		// the book in hand is the proof. ConfirmReturn is the canonical
		// return path; this branch is kept for client compatibility.
		return s.complete(ctx, rt)

	default:
		return nil, ErrInvalidAction
	}
}

func (s *service) ConfirmReturn(ctx context.Context, id string, actorID string) (*Rental, error) {
	rt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rt.BookOwnerID != actorID {
		return nil, ErrPermissionDenied
	}

	return s.complete(ctx, rt)
}

// complete transitions an ACTIVE rental to COMPLETED and notifies the renter.
func (s *service) complete(ctx context.Context, rt *Rental) (*Rental, error) {
	if rt.Status != StatusActive {
		return nil, ErrNotActive
	}

	updated, err := s.repo.CompareAndSetStatus(ctx, rt.ID, StatusActive, StatusCompleted)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotActive
	}
	rt.Status = StatusCompleted

	s.notifier.Notify(notify.Message{
		UserID: rt.RenterID,
		Title:  "Rental completed",
		Body:   fmt.Sprintf("Your rental of %q is completed", rt.BookTitle),
		Kind:   notify.KindSuccess,
		Link:   "/profile?tab=outgoing",
	})

	return rt, nil
}

func (s *service) Availability(ctx context.Context, bookID string) ([]DateRange, error) {
	// Make sure the book exists so a miss is a 404, not an empty calendar.
	if _, err := s.bookService.GetByID(ctx, bookID); err != nil {
		return nil, err
	}
	return s.repo.BusyRanges(ctx, bookID)
}
