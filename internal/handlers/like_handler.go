package handlers

import (
	"pethaul/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LikeHandler handles the liked items of the caller.
type LikeHandler struct {
	base
	likes *services.LikeService
}

func NewLikeHandler(likes *services.LikeService, log logrus.FieldLogger, production bool) *LikeHandler {
	return &LikeHandler{base: newBase(log, production), likes: likes}
}

func (h *LikeHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	likeRoutes := router.Group("/like", requireAuth)
	likeRoutes.Get("/me", h.HandleMine)
	likeRoutes.Post("/:itemId", h.HandleToggle)
}

func (h *LikeHandler) HandleMine(c *fiber.Ctx) error {
	items, err := h.likes.Items(c.UserContext(), principal(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"items":   items,
	})
}

// HandleToggle answers 201 when the item became liked and 200 when the like
// was removed.
func (h *LikeHandler) HandleToggle(c *fiber.Ctx) error {
	itemID := c.Params("itemId")
	liked, err := h.likes.Toggle(c.UserContext(), principal(c), itemID)
	if err != nil {
		return h.fail(c, err)
	}
	status := fiber.StatusOK
	if liked {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"liked":   liked,
		"itemId":  itemID,
	})
}
