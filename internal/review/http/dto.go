package http

import (
	"time"

	"github.com/nekogravitycat/book-rental-backend/internal/review"
)

type ReviewResponse struct {
	ID        string    `json:"id"`
	RentalID  string    `json:"rental_id"`
	BookID    string    `json:"book_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Author AuthorResponse `json:"author"`
}

type AuthorResponse struct {
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func NewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		RentalID:  r.RentalID,
		BookID:    r.BookID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		Author: AuthorResponse{
			Email:     r.AuthorEmail,
			AvatarURL: r.AuthorAvatarURL,
		},
	}
}

func NewResponseList(reviews []*review.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewResponse(r))
	}
	return out
}

type CreateRequest struct {
	RentalID string  `json:"rental_id" binding:"required,uuid"`
	Rating   int     `json:"rating" binding:"required,min=1,max=5"`
	Comment  *string `json:"comment"`
}
