package notification

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/book-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "notification not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "notification belongs to another user")
	ErrTitleRequired    = apperror.New(http.StatusBadRequest, "title is required")
	ErrMessageRequired  = apperror.New(http.StatusBadRequest, "message is required")
)

// Type categorizes a notification for display purposes.
type Type string

const (
	TypeInfo    Type = "INFO"
	TypeSuccess Type = "SUCCESS"
	TypeWarning Type = "WARNING"
)

// Notification is a message shown to a user about a lifecycle event.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      Type
	Link      *string
	IsRead    bool
	CreatedAt time.Time
}
