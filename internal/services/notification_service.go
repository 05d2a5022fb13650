package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/jewa/internal/models"
)

// NotificationService lists what the gate has told the resident.
type NotificationService struct {
	client *JewaClient
	log    *zap.Logger
}

func NewNotificationService(client *JewaClient, log *zap.Logger) *NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationService{client: client, log: log}
}

// List returns the resident's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, sess models.Session) ([]models.Notification, error) {
	if !sess.Valid() {
		return []models.Notification{}, ErrInvalidSession
	}
	items, err := s.client.GetAllNotifications(ctx, sess.ResidentID)
	if err != nil {
		return []models.Notification{}, err
	}
	sortNewestFirst(items, func(n models.Notification) models.Timestamp { return n.CreatedAt })
	return items, nil
}

// CountPending counts notifications still waiting for an answer.
func CountPending(items []models.Notification) int {
	n := 0
	for _, item := range items {
		if !item.Responded() {
			n++
		}
	}
	return n
}
