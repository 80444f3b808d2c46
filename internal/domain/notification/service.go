package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Response represents a notification in API output
type Response struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	RefID     string    `json:"ref_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(n *Notification) Response {
	resp := Response{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Body:      n.Body,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.RefID.Valid {
		resp.RefID = n.RefID.UUID.String()
	}
	return resp
}

// Service handles notification business logic
type Service struct {
	repo Repository
	hub  *Hub
}

// NewService creates notification service
func NewService(repo Repository, hub *Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

// Notify stores a notification and pushes it to the user's live streams.
// Persistence failure is returned; push failures are best-effort.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, typ Type, title, body string, refID uuid.UUID) error {
	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if refID != uuid.Nil {
		n.RefID = uuid.NullUUID{UUID: refID, Valid: true}
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.hub != nil {
		s.hub.Push(userID, toResponse(n))
	}

	log.Debug().
		Str("user_id", userID.String()).
		Str("type", string(typ)).
		Msg("Notification sent")

	return nil
}

// List returns a user's notifications, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, limit int) ([]Response, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	results := make([]Response, 0, len(notifications))
	for _, n := range notifications {
		results = append(results, toResponse(n))
	}
	return results, total, nil
}

// MarkRead marks one notification read; only the owner can
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	updated, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks all of the user's notifications read
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// UnreadCount returns the user's unread count
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
