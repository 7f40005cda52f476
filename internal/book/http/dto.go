package http

import (
	"time"

	"github.com/nekogravitycat/book-rental-backend/internal/book"
)

type BookResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ISBN        *string   `json:"isbn,omitempty"`
	Description *string   `json:"description,omitempty"`
	Genre       *string   `json:"genre,omitempty"`
	Images      []string  `json:"images"`
	PublishYear *int      `json:"publish_year,omitempty"`
	Language    *string   `json:"language,omitempty"`
	DailyPrice  int       `json:"daily_price"`
	Deposit     int       `json:"deposit"`
	Status      string    `json:"status"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	AvgRating   *float64  `json:"avg_rating,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Owner OwnerResponse `json:"owner"`
}

// OwnerResponse is the public slice of the owner shown on a listing.
type OwnerResponse struct {
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func NewResponse(b *book.Book) BookResponse {
	images := b.Images
	if images == nil {
		images = []string{}
	}
	return BookResponse{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Description: b.Description,
		Genre:       b.Genre,
		Images:      images,
		PublishYear: b.PublishYear,
		Language:    b.Language,
		DailyPrice:  b.DailyPrice,
		Deposit:     b.Deposit,
		Status:      string(b.Status),
		Latitude:    b.Latitude,
		Longitude:   b.Longitude,
		AvgRating:   b.AvgRating,
		CreatedAt:   b.CreatedAt,
		Owner: OwnerResponse{
			Email:     b.OwnerEmail,
			AvatarURL: b.OwnerAvatarURL,
		},
	}
}

func NewResponseList(books []*book.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, NewResponse(b))
	}
	return out
}

type CreateRequest struct {
	Title       string   `json:"title" binding:"required"`
	Author      string   `json:"author" binding:"required"`
	ISBN        *string  `json:"isbn"`
	Description *string  `json:"description"`
	Genre       *string  `json:"genre"`
	Images      []string `json:"images"`
	PublishYear *int     `json:"publish_year"`
	Language    *string  `json:"language"`
	DailyPrice  int      `json:"daily_price" binding:"min=0"`
	Deposit     int      `json:"deposit" binding:"min=0"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,longitude"`
}

type UpdateRequest struct {
	Title       *string  `json:"title"`
	Author      *string  `json:"author"`
	ISBN        *string  `json:"isbn"`
	Description *string  `json:"description"`
	Genre       *string  `json:"genre"`
	Images      []string `json:"images"`
	PublishYear *int     `json:"publish_year"`
	Language    *string  `json:"language"`
	DailyPrice  *int     `json:"daily_price" binding:"omitempty,min=0"`
	Deposit     *int     `json:"deposit" binding:"omitempty,min=0"`
	Status      *string  `json:"status"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,longitude"`
}

type ListBooksRequest struct {
	Search   string `form:"search"`
	Genre    string `form:"genre"`
	MinPrice *int   `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice *int   `form:"max_price" binding:"omitempty,min=0"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=12" binding:"omitempty,min=1,max=100"`
}

type FeaturedResponse struct {
	TopRated    []BookResponse `json:"top_rated"`
	NewArrivals []BookResponse `json:"new_arrivals"`
}
