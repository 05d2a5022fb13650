package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/jewa/internal/services"
	"github.com/example/jewa/internal/utils"
)

// ActivityHandler lists what the gateway did on the resident's behalf.
type ActivityHandler struct {
	activity *services.ActivityService
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(activity *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// List returns a page of activity, newest first.
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	records, total, err := h.activity.List(c.UserContext(), sess.ResidentID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
