package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/example/jewa/internal/models"
	"github.com/example/jewa/internal/services"
)

// VisitorHandler serves the visitor board, pre-authorisation and revocation.
type VisitorHandler struct {
	presenter     *services.Presenter
	preauth       *services.PreauthService
	revocation    *services.RevocationService
	confirmations *services.ConfirmationStore
}

// NewVisitorHandler constructs a VisitorHandler.
func NewVisitorHandler(presenter *services.Presenter, preauth *services.PreauthService, revocation *services.RevocationService, confirmations *services.ConfirmationStore) *VisitorHandler {
	return &VisitorHandler{
		presenter:     presenter,
		preauth:       preauth,
		revocation:    revocation,
		confirmations: confirmations,
	}
}

// List returns the resident's visitors grouped into pending, active and resolved.
func (h *VisitorHandler) List(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	board, err := h.presenter.Visitors(c.UserContext(), sess)
	if err != nil {
		return respondList(c, board, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": board})
}

// Create pre-authorises a visitor. On failure the submitted form is sent back.
func (h *VisitorHandler) Create(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	var req services.PreAuthorization
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	sub, err := h.preauth.Submit(c.UserContext(), sess, req)
	if err != nil {
		status, body := errorResponse(err)
		body["form"] = req
		return c.Status(status).JSON(body)
	}

	return c.Status(fiber.StatusCreated).JSON(withRefreshWarning(fiber.Map{"success": true, "data": sub}, sub.RefreshErr))
}

type revokeRequest struct {
	ConfirmationToken string `json:"confirmation_token"`
	Confirm           *bool  `json:"confirm"`
}

// Revoke invalidates a visitor's OTP in two steps. The first call answers 202
// with a confirmation token; the second carries the token and the answer.
func (h *VisitorHandler) Revoke(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	visitorID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req revokeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	if req.ConfirmationToken == "" {
		visitor, changes, err := h.revocation.Prepare(c.UserContext(), sess, visitorID)
		if err != nil {
			return err
		}
		if !changes {
			return c.JSON(fiber.Map{
				"success": true,
				"data":    services.RevocationResult{Visitor: visitor, Changed: false},
			})
		}
		return h.askConfirmation(c, sess, visitor)
	}

	answer := req.Confirm != nil && *req.Confirm
	result, err := h.revocation.Revoke(c.UserContext(), sess, visitorID,
		h.confirmations.Confirmer(req.ConfirmationToken, sess.ResidentID, answer))
	switch {
	case errors.Is(err, services.ErrConfirmationDeclined):
		return c.JSON(fiber.Map{"success": true, "message": "revocation cancelled", "data": fiber.Map{"changed": false}})
	case errors.Is(err, services.ErrConfirmationRequired):
		visitor, lookupErr := h.revocation.Lookup(c.UserContext(), sess, visitorID)
		if lookupErr != nil {
			return lookupErr
		}
		return h.askConfirmation(c, sess, visitor)
	case err != nil:
		return err
	}

	return c.JSON(withRefreshWarning(fiber.Map{"success": true, "data": result}, result.RefreshErr))
}

func (h *VisitorHandler) askConfirmation(c *fiber.Ctx, sess models.Session, visitor models.VisitorEntry) error {
	token, err := h.confirmations.Issue(sess.ResidentID, visitor.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success":               true,
		"confirmation_required": true,
		"confirmation_token":    token,
		"expires_in":            int(h.confirmations.TTL().Seconds()),
		"message":               fmt.Sprintf("Revoke OTP for %s?", visitor.Name),
	})
}
