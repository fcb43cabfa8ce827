package handlers

import (
	"errors"

	"pethaul/internal/models"
	"pethaul/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	base
	orders  *services.OrderService
	reports *services.ReportService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *services.OrderService, reports *services.ReportService, log logrus.FieldLogger, production bool) *OrderHandler {
	return &OrderHandler{
		base:    newBase(log, production),
		orders:  orders,
		reports: reports,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. Every route
// requires authentication; the admin report and status change require the
// ADMIN role.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, requireAuth, requireAdmin fiber.Handler) {
	orderRoutes := router.Group("/order", requireAuth)
	// Registered before "/:id" so "all" is never taken for an order id.
	orderRoutes.Get("/all/admin", requireAdmin, h.HandleAdminOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Patch("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Patch("/:id", requireAdmin, h.HandleSetStatus)
}

// failOrder answers lookups of a single order. Missing orders and orders of
// other users get the same body.
func (h *OrderHandler) failOrder(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Order not found",
		})
	}
	return h.fail(c, err)
}

// OrderLineRequest is one line of a create order request.
type OrderLineRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Price    int64  `json:"price" validate:"gte=0"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// CreateOrderRequest represents the request body for placing an order.
type CreateOrderRequest struct {
	Items []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// HandleCreateOrder places an order for the caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if !h.parse(c, &req) {
		return nil
	}

	lines := make([]services.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, services.OrderLine{ItemID: it.ItemID, UnitPrice: it.Price, Quantity: it.Quantity})
	}

	order, err := h.orders.CreateOrder(c.UserContext(), principal(c), lines)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order placed",
		"orderId": order.ID,
	})
}

// HandleListOrders lists the caller's orders, newest first. Pagination is
// applied only when a limit is given.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 0)
	if page < 1 || limit < 0 {
		return h.badRequest(c, "page and limit must be positive integers")
	}

	orders, total, err := h.orders.ListOrders(c.UserContext(), principal(c), page, limit)
	if err != nil {
		return h.fail(c, err)
	}

	body := fiber.Map{
		"success": true,
		"orders":  orders,
	}
	if limit > 0 {
		body["pagination"] = models.NewPagination(total, page, limit)
	}
	return c.JSON(body)
}

// HandleGetOrder returns one of the caller's orders. Orders of other users
// are reported as not found.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.orders.GetOrder(c.UserContext(), principal(c), c.Params("id"))
	if err != nil {
		return h.failOrder(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// HandleCancelOrder cancels one of the caller's orders and restocks its items.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.orders.CancelOrder(c.UserContext(), principal(c), orderID); err != nil {
		return h.failOrder(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order cancelled",
		"orderId": orderID,
	})
}

// HandleSetStatus changes the status of any order. It never restocks.
func (h *OrderHandler) HandleSetStatus(c *fiber.Ctx) error {
	order, err := h.orders.SetStatus(c.UserContext(), c.Params("id"), c.Query("status"))
	if err != nil {
		return h.failOrder(c, err)
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Order status updated",
		"orderId":     order.ID,
		"orderStatus": order.OrderStatus,
	})
}

// HandleAdminOrders returns the grouped order report for administrators.
func (h *OrderHandler) HandleAdminOrders(c *fiber.Ctx) error {
	report, err := h.reports.AdminReport(c.UserContext(), c.Query("sort", services.SortOrderDate))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"orders":  report.Orders,
		"items":   report.Items,
	})
}
