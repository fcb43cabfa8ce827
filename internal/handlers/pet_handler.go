package handlers

import (
	"pethaul/internal/models"
	"pethaul/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// PetHandler handles the pet profiles of the caller.
type PetHandler struct {
	base
	pets *services.PetService
}

func NewPetHandler(pets *services.PetService, log logrus.FieldLogger, production bool) *PetHandler {
	return &PetHandler{base: newBase(log, production), pets: pets}
}

func (h *PetHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	petRoutes := router.Group("/pet", requireAuth)
	petRoutes.Get("/", h.HandleList)
	petRoutes.Post("/", h.HandleCreate)
	petRoutes.Put("/edit/:id", h.HandleUpdate)
	petRoutes.Delete("/:id", h.HandleDelete)
}

// ImageRequest references an image that is already stored.
type ImageRequest struct {
	OriImgName string `json:"oriImgName" validate:"max=255"`
	ImgURL     string `json:"imgUrl" validate:"required,max=500"`
}

// PetRequest is the body of a pet create or update. Omitting images keeps the
// current ones on update.
type PetRequest struct {
	PetName string         `json:"petName" validate:"required,max=50"`
	PetType string         `json:"petType" validate:"required,max=50"`
	Breed   string         `json:"breed" validate:"required,max=100"`
	Gender  string         `json:"gender" validate:"required,oneof=F M"`
	Age     int            `json:"age" validate:"gte=0"`
	Images  []ImageRequest `json:"images" validate:"omitempty,dive"`
}

func (r PetRequest) pet() *models.Pet {
	pet := &models.Pet{
		Name:    r.PetName,
		PetType: r.PetType,
		Breed:   r.Breed,
		Gender:  r.Gender,
		Age:     r.Age,
	}
	if r.Images != nil {
		pet.Images = make([]models.PetImage, 0, len(r.Images))
		for _, im := range r.Images {
			pet.Images = append(pet.Images, models.PetImage{OriImgName: im.OriImgName, ImgURL: im.ImgURL})
		}
	}
	return pet
}

func (h *PetHandler) HandleList(c *fiber.Ctx) error {
	pets, err := h.pets.List(c.UserContext(), principal(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"pets":    pets,
	})
}

func (h *PetHandler) HandleCreate(c *fiber.Ctx) error {
	var req PetRequest
	if !h.parse(c, &req) {
		return nil
	}
	pet := req.pet()
	if err := h.pets.Create(c.UserContext(), principal(c), pet); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Pet registered",
		"pet":     pet,
	})
}

func (h *PetHandler) HandleUpdate(c *fiber.Ctx) error {
	var req PetRequest
	if !h.parse(c, &req) {
		return nil
	}
	if err := h.pets.Update(c.UserContext(), principal(c), c.Params("id"), req.pet()); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Pet updated",
	})
}

func (h *PetHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.pets.Delete(c.UserContext(), principal(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Pet deleted",
	})
}
