package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/book-rental-backend/internal/auth"
	"github.com/nekogravitycat/book-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/book-rental-backend/internal/pkg/response"
	"github.com/nekogravitycat/book-rental-backend/internal/rental"
)

type Handler struct {
	service rental.Service
}

func NewHandler(service rental.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	startDate, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	endDate, err := time.ParseInLocation(dateLayout, req.EndDate, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	userID := auth.GetUserID(c)

	rt, err := h.service.Create(c.Request.Context(), rental.CreateRequest{
		BookID:    req.BookID,
		StartDate: startDate,
		EndDate:   endDate,
	}, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	// The renter gets the pickup secret back so the client can render it
	// as a QR code.
	c.JSON(http.StatusCreated, NewResponseWithSecret(rt))
}

func (h *Handler) ListMy(c *gin.Context) {
	var req ListMyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, rental.ErrInvalidListType)
		return
	}

	userID := auth.GetUserID(c)

	rentals, err := h.service.ListMy(c.Request.Context(), userID, rental.ListType(req.Type))
	if err != nil {
		response.Error(c, err)
		return
	}

	// Outgoing rentals belong to the renter, so the secret is included.
	if rental.ListType(req.Type) == rental.ListOutgoing {
		items := make([]RentalWithSecretResponse, 0, len(rentals))
		for _, rt := range rentals {
			items = append(items, NewResponseWithSecret(rt))
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": NewResponseList(rentals)})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var uriReq request.ByIDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rental id"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, rental.ErrInvalidStatus)
		return
	}

	userID := auth.GetUserID(c)

	rt, err := h.service.UpdateStatus(c.Request.Context(), uriReq.ID, rental.Status(req.Status), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(rt))
}

func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, rental.ErrInvalidAction)
		return
	}

	userID := auth.GetUserID(c)

	rt, err := h.service.Verify(c.Request.Context(), rental.VerifyRequest{
		RentalID: req.RentalID,
		Secret:   req.Secret,
		Action:   rental.Action(req.Action),
	}, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(rt))
}

func (h *Handler) ConfirmReturn(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rental id"})
		return
	}

	userID := auth.GetUserID(c)

	rt, err := h.service.ConfirmReturn(c.Request.Context(), req.ID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(rt))
}

func (h *Handler) Availability(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	ranges, err := h.service.Availability(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(ranges))
}
