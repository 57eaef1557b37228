package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/api/models"
)

// ListLimit is the number of notifications returned by List.
const ListLimit = 20

// ServiceConfig holds configuration for the notification service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Service provides notification operations.
type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a new notification service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{repo: cfg.Repository, logger: cfg.Logger, now: cfg.Now}
}

// List returns the user's latest notifications.
func (s *Service) List(ctx context.Context, userID string) (*models.NotificationList, error) {
	items, err := s.repo.ListByUser(ctx, userID, ListLimit)
	if err != nil {
		return nil, err
	}

	out := make([]models.Notification, 0, len(items))
	for _, n := range items {
		out = append(out, toAPINotification(n))
	}
	return &models.NotificationList{Items: out}, nil
}

// UnreadCount returns the number of unread notifications.
func (s *Service) UnreadCount(ctx context.Context, userID string) (*models.UnreadCount, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.UnreadCount{Count: count}, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return ErrNotificationNotFound
	}
	return s.repo.MarkRead(ctx, id)
}

// MarkAllRead marks all of the user's notifications as read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// Notify stores a new unread notification.
func (s *Service) Notify(ctx context.Context, userID, tripID, message string) error {
	n := &Notification{
		ID:        "ntf_" + uuid.New().String()[:22],
		UserID:    userID,
		TripID:    tripID,
		Message:   message,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.logger.Debug().
		Str("notification_id", n.ID).
		Str("trip_id", tripID).
		Msg("notification created")
	return nil
}

// DeleteByTrip removes the notifications of a trip.
func (s *Service) DeleteByTrip(ctx context.Context, tripID string) error {
	return s.repo.DeleteByTrip(ctx, tripID)
}

func toAPINotification(n *Notification) models.Notification {
	return models.Notification{
		ID:        n.ID,
		TripID:    n.TripID,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: models.Timestamp(n.CreatedAt),
	}
}
