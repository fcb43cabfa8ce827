package handlers

import (
	"net/url"

	"pethaul/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// TokenHandler issues client tokens bound to the calling origin.
type TokenHandler struct {
	base
	tokens *services.TokenService
}

func NewTokenHandler(tokens *services.TokenService, log logrus.FieldLogger, production bool) *TokenHandler {
	return &TokenHandler{base: newBase(log, production), tokens: tokens}
}

func (h *TokenHandler) RegisterRoutes(router fiber.Router, requireAuth, requireAdmin fiber.Handler) {
	tokenRoutes := router.Group("/token", requireAuth)
	tokenRoutes.Get("/get", h.HandleIssue)
	tokenRoutes.Get("/read", requireAdmin, h.HandleRead)
	tokenRoutes.Get("/refresh", h.HandleRefresh)
	tokenRoutes.Get("/checkTokenStatus", h.HandleStatus)
}

// originHost returns the host of the Origin header, falling back to the
// request host.
func originHost(c *fiber.Ctx) string {
	if origin := c.Get(fiber.HeaderOrigin); origin != "" {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return c.Hostname()
}

func (h *TokenHandler) HandleIssue(c *fiber.Ctx) error {
	token, err := h.tokens.Issue(c.UserContext(), principal(c), originHost(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Token issued",
		"token":   token,
	})
}

func (h *TokenHandler) HandleRead(c *fiber.Ctx) error {
	token, err := h.tokens.Read(c.UserContext(), principal(c), originHost(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}

func (h *TokenHandler) HandleRefresh(c *fiber.Ctx) error {
	token, err := h.tokens.Refresh(c.UserContext(), principal(c), originHost(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Token refreshed",
		"token":   token,
	})
}

// HandleStatus answers 200 for any valid bearer token; AuthRequired already
// rejected the rest.
func (h *TokenHandler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Token is valid",
	})
}
