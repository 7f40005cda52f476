package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/book-rental-backend/internal/auth"
	"github.com/nekogravitycat/book-rental-backend/internal/file"
	"github.com/nekogravitycat/book-rental-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/book-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/book-rental-backend/internal/pkg/response"
)

type Handler struct {
	service file.Service
}

func NewHandler(service file.Service) *Handler {
	return &Handler{service: service}
}

// Upload accepts a multipart image upload and returns its public URLs.
func (h *Handler) Upload(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		response.Error(c, apperror.New(http.StatusUnauthorized, "unauthorized"))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "missing file field"))
		return
	}

	f, err := h.service.Upload(c.Request.Context(), userID, header)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := UploadResponse{
		FileID: f.ID,
		URL:    file.URL(f.ID),
	}
	if f.ThumbnailPath != nil {
		thumbURL := file.ThumbnailURL(f.ID)
		resp.ThumbnailURL = &thumbURL
	}

	c.JSON(http.StatusCreated, resp)
}

// Get streams the stored file content.
func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "invalid file id"))
		return
	}

	f, content, err := h.service.Open(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer content.Close()

	c.DataFromReader(http.StatusOK, f.Size, f.ContentType, content, nil)
}

// GetThumbnail streams the JPEG thumbnail of a file.
func (h *Handler) GetThumbnail(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "invalid file id"))
		return
	}

	_, content, err := h.service.OpenThumbnail(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer content.Close()

	c.DataFromReader(http.StatusOK, -1, "image/jpeg", content, nil)
}
