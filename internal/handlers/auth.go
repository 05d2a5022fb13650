package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/jewa/internal/services"
)

// AuthHandler signs residents in.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login forwards the credentials to the community service and returns a session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.Credentials
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.auth.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": result})
}
