package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/jewa/internal/models"
	"github.com/example/jewa/internal/services"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	items, err := h.notifications.List(c.UserContext(), sess)
	if err != nil {
		return respondList(c, []models.Notification{}, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
		"pending": services.CountPending(items),
	})
}
