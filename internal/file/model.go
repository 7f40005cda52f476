package file

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/book-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "file not found")
	ErrNoThumbnail = apperror.New(http.StatusNotFound, "thumbnail not available for this file")
	ErrNotImage    = apperror.New(http.StatusBadRequest, "only image uploads are accepted")
	ErrTooLarge    = apperror.New(http.StatusBadRequest, "file exceeds the upload size limit")
)

// MaxUploadSize bounds uploaded book images (8 MiB).
const MaxUploadSize = 8 << 20

// File is an uploaded book image stored on disk with its metadata in the db.
type File struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Filename      string    `json:"filename"`
	StoragePath   string    `json:"-"` // Internal path
	ThumbnailPath *string   `json:"-"` // Internal path
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"created_at"`
}

// URL returns the public URL for accessing a file by its ID.
// Book listings store these URLs in their images array.
func URL(id string) string {
	return "/v1/files/" + id
}

// ThumbnailURL returns the public URL for accessing a file's thumbnail.
func ThumbnailURL(id string) string {
	return "/v1/files/" + id + "/thumbnail"
}
