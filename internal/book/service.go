package book

import (
	"context"
	"strings"

	"github.com/nekogravitycat/book-rental-backend/internal/user"
)

type CreateRequest struct {
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
	Latitude    *float64
	Longitude   *float64
}

type UpdateRequest struct {
	Title       *string
	Author      *string
	ISBN        *string
	Description *string
	Genre       *string
	Images      []string
	PublishYear *int
	Language    *string
	DailyPrice  *int
	Deposit     *int
	Status      *string
	Latitude    *float64
	Longitude   *float64
}

// Featured groups the catalog highlights shown on the landing page.
type Featured struct {
	TopRated    []*Book
	NewArrivals []*Book
}

type Service interface {
	Create(ctx context.Context, req CreateRequest, ownerID string) (*Book, error)
	GetByID(ctx context.Context, id string) (*Book, error)
	ListPublic(ctx context.Context, filter Filter) ([]*Book, int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Book, error)
	GetFeatured(ctx context.Context) (*Featured, error)
	Update(ctx context.Context, id string, req UpdateRequest, actorID string) (*Book, error)
	Delete(ctx context.Context, id string, actorID string) error
}

type service struct {
	repo        Repository
	userService user.Service
}

func NewService(repo Repository, userService user.Service) Service {
	return &service{
		repo:        repo,
		userService: userService,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest, ownerID string) (*Book, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Author) == "" {
		return nil, ErrAuthorRequired
	}
	if req.DailyPrice < 0 || req.Deposit < 0 {
		return nil, ErrNegativePrice
	}

	owner, err := s.userService.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// Free accounts are capped; premium accounts list without limit.
	if !owner.IsPremium {
		count, err := s.repo.CountByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if count >= FreeListingLimit {
			return nil, ErrListingLimit
		}
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}

	b := &Book{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(req.Title),
		Author:      strings.TrimSpace(req.Author),
		ISBN:        req.ISBN,
		Description: req.Description,
		Genre:       req.Genre,
		Images:      images,
		PublishYear: req.PublishYear,
		Language:    req.Language,
		DailyPrice:  req.DailyPrice,
		Deposit:     req.Deposit,
		Status:      StatusAvailable,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListPublic(ctx context.Context, filter Filter) ([]*Book, int, error) {
	return s.repo.ListPublic(ctx, filter)
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]*Book, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) GetFeatured(ctx context.Context) (*Featured, error) {
	topRated, err := s.repo.ListTopRated(ctx, 4)
	if err != nil {
		return nil, err
	}

	newest, err := s.repo.ListNewest(ctx, 4)
	if err != nil {
		return nil, err
	}

	return &Featured{TopRated: topRated, NewArrivals: newest}, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, actorID string) (*Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if b.OwnerID != actorID {
		return nil, ErrPermissionDenied
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		b.Title = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		if strings.TrimSpace(*req.Author) == "" {
			return nil, ErrAuthorRequired
		}
		b.Author = strings.TrimSpace(*req.Author)
	}
	if req.ISBN != nil {
		b.ISBN = req.ISBN
	}
	if req.Description != nil {
		b.Description = req.Description
	}
	if req.Genre != nil {
		b.Genre = req.Genre
	}
	if req.Images != nil {
		b.Images = req.Images
	}
	if req.PublishYear != nil {
		b.PublishYear = req.PublishYear
	}
	if req.Language != nil {
		b.Language = req.Language
	}
	if req.DailyPrice != nil {
		if *req.DailyPrice < 0 {
			return nil, ErrNegativePrice
		}
		b.DailyPrice = *req.DailyPrice
	}
	if req.Deposit != nil {
		if *req.Deposit < 0 {
			return nil, ErrNegativePrice
		}
		b.Deposit = *req.Deposit
	}
	if req.Status != nil {
		st := Status(*req.Status)
		switch st {
		case StatusAvailable, StatusRented, StatusUnavailable, StatusArchived:
			b.Status = st
		default:
			return nil, ErrInvalidStatus
		}
	}
	if req.Latitude != nil {
		b.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		b.Longitude = req.Longitude
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id string, actorID string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if b.OwnerID != actorID {
		return ErrPermissionDenied
	}

	return s.repo.Delete(ctx, id)
}
