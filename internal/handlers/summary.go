package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/jewa/internal/services"
)

type SummaryHandler struct {
	summary *services.SummaryService
}

func NewSummaryHandler(summary *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{summary: summary}
}

// Get returns visitor and delivery bucket counts and pending notifications.
func (h *SummaryHandler) Get(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	summary, err := h.summary.Summary(c.UserContext(), sess)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": summary})
}
