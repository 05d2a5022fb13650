package models

import "strings"

const (
	NotificationPending   = "Pending"
	NotificationResponded = "Responded"
)

// Notification is an item from /allnotifications.
type Notification struct {
	ID               ID        `json:"id"`
	Message          string    `json:"notification_message"`
	Image            string    `json:"notification_image,omitempty"`
	Status           string    `json:"notification_status"`
	TypeOfDelivery   string    `json:"type_of_delivery,omitempty"`
	NotificationType string    `json:"notification_type,omitempty"`
	CreatedAt        Timestamp `json:"created_at"`
}

// Responded reports whether the resident already answered the notification.
func (n Notification) Responded() bool {
	return strings.EqualFold(strings.TrimSpace(n.Status), NotificationResponded)
}
