package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/jewa/internal/services"
)

// HelpHandler manages the resident's domestic help.
type HelpHandler struct {
	help *services.HelpService
}

// NewHelpHandler constructs a HelpHandler.
func NewHelpHandler(help *services.HelpService) *HelpHandler {
	return &HelpHandler{help: help}
}

func (h *HelpHandler) List(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	helps, err := h.help.List(c.UserContext(), sess)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": helps})
}

// Register adds a help and returns their passcode. It is not shown again.
func (h *HelpHandler) Register(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	var req services.HelpInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	issued, err := h.help.Register(c.UserContext(), sess, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": issued})
}

type checkInRequest struct {
	Passcode string `json:"passcode"`
}

func (h *HelpHandler) CheckIn(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	id, err := helpID(c)
	if err != nil {
		return err
	}

	var req checkInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Passcode == "" {
		return services.ValidationErrors{{Field: "passcode", Message: "is required"}}
	}

	help, err := h.help.CheckIn(c.UserContext(), sess, id, req.Passcode)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": help})
}

func (h *HelpHandler) CheckOut(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	id, err := helpID(c)
	if err != nil {
		return err
	}

	help, err := h.help.CheckOut(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": help})
}

// ReissuePasscode replaces a help's passcode.
func (h *HelpHandler) ReissuePasscode(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	id, err := helpID(c)
	if err != nil {
		return err
	}

	issued, err := h.help.ReissuePasscode(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": issued})
}

func helpID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}
