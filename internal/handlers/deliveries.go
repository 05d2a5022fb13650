package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/jewa/internal/services"
)

// DeliveryHandler serves the delivery board and delivery decisions.
type DeliveryHandler struct {
	presenter  *services.Presenter
	deliveries *services.DeliveryService
}

// NewDeliveryHandler constructs a DeliveryHandler.
func NewDeliveryHandler(presenter *services.Presenter, deliveries *services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{presenter: presenter, deliveries: deliveries}
}

// List returns the resident's deliveries grouped into buckets.
func (h *DeliveryHandler) List(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	board, err := h.presenter.Deliveries(c.UserContext(), sess)
	if err != nil {
		return respondList(c, board, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": board})
}

type decisionRequest struct {
	Decision string `json:"decision"`
}

// Decide approves, denies or leaves at the gate the delivery behind a notification.
func (h *DeliveryHandler) Decide(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	notifID, err := pathID(c, "notifId")
	if err != nil {
		return err
	}

	var req decisionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	decision, err := services.ParseDecision(req.Decision)
	if err != nil {
		return err
	}

	result, err := h.deliveries.Decide(c.UserContext(), sess, notifID, decision)
	if err != nil {
		return err
	}
	return c.JSON(withRefreshWarning(fiber.Map{"success": true, "data": result}, result.RefreshErr))
}
