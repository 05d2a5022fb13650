package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/jewa/internal/approval"
	"github.com/example/jewa/internal/middleware"
	"github.com/example/jewa/internal/models"
	"github.com/example/jewa/internal/services"
)

const (
	msgUnreachable = "unable to reach the community service"
	msgRejected    = "the community service rejected the request"
	msgCancelled   = "request cancelled"

	// statusClientClosedRequest is nginx's code for a client that went away.
	statusClientClosedRequest = 499
)

// errorResponse maps an error onto a status code and JSON body.
func errorResponse(err error) (int, fiber.Map) {
	var (
		fiberErr     *fiber.Error
		validation   services.ValidationErrors
		transportErr *services.TransportError
		backendErr   *services.BackendError
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiber.Map{"success": false, "error": fiberErr.Message}
	case errors.As(err, &validation):
		return fiber.StatusUnprocessableEntity, fiber.Map{
			"success": false,
			"error":   "validation failed",
			"fields":  validation.Fields(),
		}
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, fiber.Map{"success": false, "error": msgCancelled}
	case errors.As(err, &transportErr), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusBadGateway, fiber.Map{"success": false, "error": msgUnreachable}
	case errors.As(err, &backendErr):
		msg := backendErr.Message
		if msg == "" {
			msg = msgRejected
		}
		return fiber.StatusBadGateway, fiber.Map{"success": false, "error": msg}
	case errors.Is(err, services.ErrMalformedResponse):
		return fiber.StatusBadGateway, fiber.Map{"success": false, "error": msgRejected}
	case errors.Is(err, approval.ErrInvalidTransition), errors.Is(err, services.ErrAlreadyResponded):
		return fiber.StatusConflict, fiber.Map{"success": false, "error": err.Error()}
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, fiber.Map{"success": false, "error": err.Error()}
	case errors.Is(err, services.ErrPendingApproval):
		return fiber.StatusForbidden, fiber.Map{"success": false, "error": err.Error()}
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidPasscode),
		errors.Is(err, services.ErrInvalidSession):
		return fiber.StatusUnauthorized, fiber.Map{"success": false, "error": err.Error()}
	default:
		return fiber.StatusInternalServerError, fiber.Map{"success": false, "error": "internal server error"}
	}
}

// ErrorHandler renders every error returned by a handler as JSON.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := errorResponse(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err),
			)
		}
		return c.Status(status).JSON(body)
	}
}

// respondList answers a list request. A malformed upstream body still gets
// a 200 with the empty fallback and a warning; other failures keep their
// status but carry the fallback too.
func respondList(c *fiber.Ctx, fallback any, err error) error {
	if errors.Is(err, services.ErrMalformedResponse) {
		return c.JSON(fiber.Map{"success": true, "data": fallback, "warning": msgRejected})
	}
	status, body := errorResponse(err)
	body["data"] = fallback
	return c.Status(status).JSON(body)
}

// withRefreshWarning adds a warning when the list could not be re-fetched
// after a successful change.
func withRefreshWarning(body fiber.Map, refreshErr error) fiber.Map {
	if refreshErr != nil {
		body["warning"] = "saved, but the list could not be refreshed"
	}
	return body
}

func currentSession(c *fiber.Ctx) (models.Session, error) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		return models.Session{}, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return sess, nil
}

func pathID(c *fiber.Ctx, name string) (models.ID, error) {
	id, err := models.ParseID(c.Params(name))
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
