package handlers

import (
	"strings"

	"pethaul/internal/models"
	"pethaul/internal/repositories"
	"pethaul/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ItemHandler handles HTTP requests for the catalog.
type ItemHandler struct {
	base
	items   *services.ItemService
	reports *services.ReportService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(items *services.ItemService, reports *services.ReportService, log logrus.FieldLogger, production bool) *ItemHandler {
	return &ItemHandler{
		base:    newBase(log, production),
		items:   items,
		reports: reports,
	}
}

// RegisterRoutes registers the item routes. Reads are public, writes are
// reserved to administrators.
func (h *ItemHandler) RegisterRoutes(router fiber.Router, requireAuth, requireAdmin fiber.Handler) {
	itemRoutes := router.Group("/item")
	itemRoutes.Get("/all/main", h.HandleMainReport)
	itemRoutes.Get("/", h.HandleListItems)
	itemRoutes.Get("/:id", h.HandleGetItem)
	itemRoutes.Post("/", requireAuth, requireAdmin, h.HandleCreateItem)
	itemRoutes.Put("/:id", requireAuth, requireAdmin, h.HandleUpdateItem)
	itemRoutes.Delete("/:id", requireAuth, requireAdmin, h.HandleDeleteItem)
}

// queryList collects every value of a repeated or comma separated query
// parameter. The key[] form is accepted as well.
func queryList(c *fiber.Ctx, key string) []string {
	var out []string
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		if name := string(k); name != key && name != key+"[]" {
			return
		}
		for _, part := range strings.Split(string(v), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	})
	return out
}

// HandleListItems returns one page of items matching searchTerm and, when
// given, any of the sellCategory values.
func (h *ItemHandler) HandleListItems(c *fiber.Ctx) error {
	filter := repositories.ItemFilter{
		SearchTerm: c.Query("searchTerm"),
		Categories: queryList(c, "sellCategory"),
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 10),
	}
	items, pagination, err := h.items.ListItems(c.UserContext(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"items":      items,
		"pagination": pagination,
	})
}

// HandleGetItem retrieves a single item with its images.
func (h *ItemHandler) HandleGetItem(c *fiber.Ctx) error {
	item, err := h.items.GetItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"item":    item,
	})
}

// HandleCreateItem creates a new item.
func (h *ItemHandler) HandleCreateItem(c *fiber.Ctx) error {
	var item models.Item
	if !h.parse(c, &item) {
		return nil
	}
	item.ID = ""
	if err := h.items.CreateItem(c.UserContext(), &item); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Item created",
		"item":    item,
	})
}

// HandleUpdateItem replaces the fields of an existing item. Images are only
// replaced when the request carries an images array.
func (h *ItemHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var item models.Item
	if !h.parse(c, &item) {
		return nil
	}
	item.ID = c.Params("id")
	if err := h.items.UpdateItem(c.UserContext(), &item); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Item updated",
	})
}

// HandleDeleteItem removes an item from the catalog. Past orders keep their
// reference to it.
func (h *ItemHandler) HandleDeleteItem(c *fiber.Ctx) error {
	if err := h.items.DeleteItem(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Item deleted",
	})
}

// HandleMainReport returns the storefront aggregation. Without a limit every
// row of each group is returned.
func (h *ItemHandler) HandleMainReport(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return h.badRequest(c, "limit must not be negative")
	}
	report, err := h.reports.MainReport(c.UserContext(), limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"topSales": report.TopSales,
		"topToday": report.TopToday,
		"topMonth": report.TopMonth,
		"newItems": report.NewItems,
	})
}
