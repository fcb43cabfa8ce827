package handlers

import (
	"errors"
	"fmt"

	"pethaul/internal/middleware"
	"pethaul/internal/models"
	"pethaul/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// base carries what every handler needs to answer errors consistently.
type base struct {
	log        logrus.FieldLogger
	validate   *validator.Validate
	production bool
}

func newBase(log logrus.FieldLogger, production bool) base {
	return base{log: log, validate: validator.New(), production: production}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidRequest), errors.Is(err, services.ErrInsufficientStock):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes the JSON error body for err. Internal errors are logged and only
// described to the client outside production.
func (b base) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status != fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	b.log.WithError(err).WithFields(logrus.Fields{"method": c.Method(), "path": c.Path()}).Error("request failed")
	body := fiber.Map{
		"success": false,
		"message": "Internal server error",
	}
	if !b.production {
		body["error"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

func (b base) badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// parse decodes the body into req and validates it. When it reports false the
// 400 response has already been written.
func (b base) parse(c *fiber.Ctx, req interface{}) bool {
	if err := c.BodyParser(req); err != nil {
		b.log.WithError(err).Debug("error parsing request body")
		_ = b.badRequest(c, "Invalid request body")
		return false
	}
	if err := b.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			_ = b.badRequest(c, "Validation failed")
			return false
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  errorMessages,
		})
		return false
	}
	return true
}

func principal(c *fiber.Ctx) models.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}
