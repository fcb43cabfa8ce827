package handlers

import (
	"time"

	"pethaul/internal/models"
	"pethaul/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ReviewHandler handles item reviews. Listing a user's reviews is public.
type ReviewHandler struct {
	base
	reviews *services.ReviewService
}

func NewReviewHandler(reviews *services.ReviewService, log logrus.FieldLogger, production bool) *ReviewHandler {
	return &ReviewHandler{base: newBase(log, production), reviews: reviews}
}

func (h *ReviewHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	reviewRoutes := router.Group("/review")
	reviewRoutes.Get("/user/:userId", h.HandleListByUser)
	reviewRoutes.Post("/", requireAuth, h.HandleCreate)
	reviewRoutes.Put("/:id", requireAuth, h.HandleUpdate)
}

// ReviewRequest is the body of a review update. A zero reviewDate means now.
type ReviewRequest struct {
	ReviewDate    time.Time      `json:"reviewDate"`
	ReviewContent string         `json:"reviewContent" validate:"required,max=2000"`
	Rating        int            `json:"rating" validate:"required,min=1,max=5"`
	Images        []ImageRequest `json:"images" validate:"omitempty,dive"`
}

// CreateReviewRequest adds the reviewed item to ReviewRequest.
type CreateReviewRequest struct {
	ItemID string `json:"itemId" validate:"required"`
	ReviewRequest
}

func (r ReviewRequest) review() *models.Review {
	review := &models.Review{
		ReviewDate: r.ReviewDate,
		Content:    r.ReviewContent,
		Rating:     r.Rating,
	}
	if r.Images != nil {
		review.Images = make([]models.ReviewImage, 0, len(r.Images))
		for _, im := range r.Images {
			review.Images = append(review.Images, models.ReviewImage{OriImgName: im.OriImgName, ImgURL: im.ImgURL})
		}
	}
	return review
}

func (h *ReviewHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateReviewRequest
	if !h.parse(c, &req) {
		return nil
	}
	review := req.review()
	review.ItemID = req.ItemID
	if err := h.reviews.Create(c.UserContext(), principal(c), review); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Review posted",
		"review":  review,
	})
}

func (h *ReviewHandler) HandleUpdate(c *fiber.Ctx) error {
	var req ReviewRequest
	if !h.parse(c, &req) {
		return nil
	}
	if err := h.reviews.Update(c.UserContext(), principal(c), c.Params("id"), req.review()); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Review updated",
	})
}

func (h *ReviewHandler) HandleListByUser(c *fiber.Ctx) error {
	reviews, err := h.reviews.ListByUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"reviews": reviews,
	})
}
