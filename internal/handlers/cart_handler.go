package handlers

import (
	"pethaul/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CartHandler struct {
	base
	carts *services.CartService
}

func NewCartHandler(carts *services.CartService, log logrus.FieldLogger, production bool) *CartHandler {
	return &CartHandler{base: newBase(log, production), carts: carts}
}

func (h *CartHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	cartRoutes := router.Group("/cart", requireAuth)
	cartRoutes.Get("/", h.HandleList)
	cartRoutes.Post("/add", h.HandleAdd)
	cartRoutes.Put("/update/:itemId", h.HandleUpdate)
	cartRoutes.Delete("/delete/:itemId", h.HandleRemove)
}

type AddToCartRequest struct {
	ItemID string `json:"itemId" validate:"required"`
	Count  int    `json:"count" validate:"gt=0"`
}

type UpdateCartRequest struct {
	Count int `json:"count" validate:"gt=0"`
}

func (h *CartHandler) HandleList(c *fiber.Ctx) error {
	lines, err := h.carts.Items(c.UserContext(), principal(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"cartItems": lines,
	})
}

func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req AddToCartRequest
	if !h.parse(c, &req) {
		return nil
	}
	if err := h.carts.Add(c.UserContext(), principal(c), req.ItemID, req.Count); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Item added to cart",
	})
}

func (h *CartHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateCartRequest
	if !h.parse(c, &req) {
		return nil
	}
	if err := h.carts.Update(c.UserContext(), principal(c), c.Params("itemId"), req.Count); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cart updated",
	})
}

func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	if err := h.carts.Remove(c.UserContext(), principal(c), c.Params("itemId")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Item removed from cart",
	})
}
