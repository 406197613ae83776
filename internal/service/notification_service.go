package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/config"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/repository"
)

// NotificationService stores notifications and pushes them to live subscribers.
type NotificationService struct {
	store     NotificationStore
	publisher Publisher
	log       zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store NotificationStore, publisher Publisher, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		store:     store,
		publisher: publisher,
		log:       log.With().Str("component", "notification_service").Logger(),
	}
}

// CreateNotification persists the notification, then publishes it on the
// user's channel. A failed publish is logged; the stored row is what counts.
func (s *NotificationService) CreateNotification(ctx context.Context, userID int, title, message string, typ model.NotificationType, link, relatedID string) (*model.Notification, error) {
	n := &model.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
		Link:    link,
	}
	if relatedID != "" {
		n.RelatedID = &relatedID
	}
	if err := s.store.Create(ctx, n); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(n)
	if err == nil {
		err = s.publisher.Publish(ctx, config.CacheKey.UserNotificationChannel(userID), payload).Err()
	}
	if err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).Int64("notification_id", n.ID).Msg("Failed to publish notification")
	}
	return n, nil
}

// List returns a page of the user's notifications and the total count.
func (s *NotificationService) List(ctx context.Context, userID int, unreadOnly bool, page, perPage int) ([]model.Notification, int, error) {
	list, total, err := s.store.ListByUser(ctx, userID, unreadOnly, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	if list == nil {
		list = []model.Notification{}
	}
	return list, total, nil
}

// MarkRead flags one notification as read. Notifications of other users are reported as ErrNotFound.
func (s *NotificationService) MarkRead(ctx context.Context, userID int, id int64) error {
	if err := s.store.MarkRead(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// MarkAllRead flags every unread notification of the user.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}
