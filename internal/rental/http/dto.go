package http

import (
	"time"

	"github.com/nekogravitycat/book-rental-backend/internal/rental"
)

// dateLayout is the wire format for rental dates. Times are not part of the
// booking granularity.
const dateLayout = "2006-01-02"

type RentalResponse struct {
	ID         string    `json:"id"`
	BookID     string    `json:"book_id"`
	RenterID   string    `json:"renter_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	TotalPrice int       `json:"total_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Book   RentalBookResponse   `json:"book"`
	Renter RentalRenterResponse `json:"renter"`
}

type RentalBookResponse struct {
	Title      string   `json:"title"`
	DailyPrice int      `json:"daily_price"`
	Images     []string `json:"images"`
	OwnerID    string   `json:"owner_id"`
}

type RentalRenterResponse struct {
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// RentalWithSecretResponse additionally carries the pickup secret. It is
// only returned to the renter, who presents it as a QR code at pickup.
type RentalWithSecretResponse struct {
	RentalResponse
	PickupSecret string `json:"pickup_secret"`
}

func NewResponse(rt *rental.Rental) RentalResponse {
	images := rt.BookImages
	if images == nil {
		images = []string{}
	}
	return RentalResponse{
		ID:         rt.ID,
		BookID:     rt.BookID,
		RenterID:   rt.RenterID,
		StartDate:  rt.StartDate.Format(dateLayout),
		EndDate:    rt.EndDate.Format(dateLayout),
		TotalPrice: rt.TotalPrice,
		Status:     string(rt.Status),
		CreatedAt:  rt.CreatedAt,
		UpdatedAt:  rt.UpdatedAt,
		Book: RentalBookResponse{
			Title:      rt.BookTitle,
			DailyPrice: rt.BookDailyPrice,
			Images:     images,
			OwnerID:    rt.BookOwnerID,
		},
		Renter: RentalRenterResponse{
			Email:     rt.RenterEmail,
			AvatarURL: rt.RenterAvatarURL,
		},
	}
}

func NewResponseWithSecret(rt *rental.Rental) RentalWithSecretResponse {
	return RentalWithSecretResponse{
		RentalResponse: NewResponse(rt),
		PickupSecret:   rt.PickupSecret,
	}
}

func NewResponseList(rentals []*rental.Rental) []RentalResponse {
	out := make([]RentalResponse, 0, len(rentals))
	for _, rt := range rentals {
		out = append(out, NewResponse(rt))
	}
	return out
}

type CreateRequest struct {
	BookID    string `json:"book_id" binding:"required,uuid"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

type ListMyRequest struct {
	Type string `form:"type" binding:"required,oneof=incoming outgoing"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}

type VerifyRequest struct {
	RentalID string `json:"rental_id" binding:"required,uuid"`
	Secret   string `json:"secret"`
	Action   string `json:"action" binding:"required,oneof=PICKUP RETURN"`
}

type AvailabilityResponse struct {
	BusyRanges []BusyRangeResponse `json:"busy_ranges"`
}

type BusyRangeResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func NewAvailabilityResponse(ranges []rental.DateRange) AvailabilityResponse {
	out := make([]BusyRangeResponse, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, BusyRangeResponse{
			StartDate: r.Start.Format(dateLayout),
			EndDate:   r.End.Format(dateLayout),
		})
	}
	return AvailabilityResponse{BusyRanges: out}
}
