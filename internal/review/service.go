package review

import (
	"context"

	"github.com/nekogravitycat/book-rental-backend/internal/rental"
)

type CreateRequest struct {
	RentalID string
	Rating   int
	Comment  *string
}

type Service interface {
	// Create stores a review for a completed rental. Only the renter may
	// review, and only once per rental.
	Create(ctx context.Context, req CreateRequest, authorID string) (*Review, error)
	ListByBook(ctx context.Context, bookID string) ([]*Review, error)
}

type service struct {
	repo          Repository
	rentalService rental.Service
}

func NewService(repo Repository, rentalService rental.Service) Service {
	return &service{
		repo:          repo,
		rentalService: rentalService,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest, authorID string) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	rt, err := s.rentalService.GetByID(ctx, req.RentalID)
	if err != nil {
		return nil, err
	}

	if rt.RenterID != authorID {
		return nil, ErrNotRenter
	}

	if rt.Status != rental.StatusCompleted {
		return nil, ErrRentalNotDone
	}

	rv := &Review{
		RentalID: req.RentalID,
		BookID:   rt.BookID,
		AuthorID: authorID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}

	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *service) ListByBook(ctx context.Context, bookID string) ([]*Review, error) {
	return s.repo.ListByBook(ctx, bookID)
}
