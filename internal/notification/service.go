package notification

import (
	"context"
	"strings"
)

type CreateRequest struct {
	UserID  string
	Title   string
	Message string
	Type    Type
	Link    *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Notification, error)
	ListByUser(ctx context.Context, userID string) ([]*Notification, error)
	MarkRead(ctx context.Context, id string, userID string) (*Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Notification, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrMessageRequired
	}

	typ := req.Type
	if typ == "" {
		typ = TypeInfo
	}

	n := &Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    typ,
		Link:    req.Link,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, id string, userID string) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if n.UserID != userID {
		return nil, ErrPermissionDenied
	}

	if !n.IsRead {
		if err := s.repo.MarkRead(ctx, id); err != nil {
			return nil, err
		}
		n.IsRead = true
	}
	return n, nil
}

func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
