package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/jewa/internal/models"
	"github.com/example/jewa/internal/services"
)

// AlertHandler manages security alerts.
type AlertHandler struct {
	alerts *services.AlertService
}

// NewAlertHandler constructs an AlertHandler.
func NewAlertHandler(alerts *services.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// List returns the resident's alerts.
func (h *AlertHandler) List(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	alerts, err := h.alerts.List(c.UserContext(), sess)
	if err != nil {
		return respondList(c, []models.Alert{}, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": alerts})
}

// Raise sends a new alert to the estate's security.
func (h *AlertHandler) Raise(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	var req services.AlertInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.alerts.Raise(c.UserContext(), sess, req); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "alert raised"})
}

// Update changes an alert's status or text.
func (h *AlertHandler) Update(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	alertID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req services.AlertUpdateInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	alerts, err := h.alerts.Update(c.UserContext(), sess, alertID, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": alerts})
}
