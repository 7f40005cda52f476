package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/book-rental-backend/internal/auth"
	"github.com/nekogravitycat/book-rental-backend/internal/book"
	"github.com/nekogravitycat/book-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/book-rental-backend/internal/pkg/response"
)

type Handler struct {
	service book.Service
}

func NewHandler(service book.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := book.Filter{
		Search:   req.Search,
		Genre:    req.Genre,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	books, total, err := h.service.ListPublic(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewResponseList(books), req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(b))
}

func (h *Handler) GetFeatured(c *gin.Context) {
	featured, err := h.service.GetFeatured(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, FeaturedResponse{
		TopRated:    NewResponseList(featured.TopRated),
		NewArrivals: NewResponseList(featured.NewArrivals),
	})
}

func (h *Handler) ListMine(c *gin.Context) {
	userID := auth.GetUserID(c)

	books, err := h.service.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": NewResponseList(books)})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	b, err := h.service.Create(c.Request.Context(), book.CreateRequest{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Description: req.Description,
		Genre:       req.Genre,
		Images:      req.Images,
		PublishYear: req.PublishYear,
		Language:    req.Language,
		DailyPrice:  req.DailyPrice,
		Deposit:     req.Deposit,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(b))
}

func (h *Handler) Update(c *gin.Context) {
	var uriReq request.ByIDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	b, err := h.service.Update(c.Request.Context(), uriReq.ID, book.UpdateRequest{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Description: req.Description,
		Genre:       req.Genre,
		Images:      req.Images,
		PublishYear: req.PublishYear,
		Language:    req.Language,
		DailyPrice:  req.DailyPrice,
		Deposit:     req.Deposit,
		Status:      req.Status,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	userID := auth.GetUserID(c)

	if err := h.service.Delete(c.Request.Context(), req.ID, userID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
