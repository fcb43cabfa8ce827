package handlers

import (
	"pethaul/internal/models"
	"pethaul/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	base
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log logrus.FieldLogger, production bool) *AuthHandler {
	return &AuthHandler{
		base:        newBase(log, production),
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/join", h.HandleJoin)
	authRoutes.Post("/check-username", h.HandleCheckUsername)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/status", requireAuth, h.HandleStatus)
}

// JoinRequest represents the request body for registration.
type JoinRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

// HandleJoin handles new user registration.
func (h *AuthHandler) HandleJoin(c *fiber.Ctx) error {
	var req JoinRequest
	if !h.parse(c, &req) {
		return nil
	}

	user := models.User{Email: req.Email, Name: req.Name, Password: req.Password}
	if err := h.authService.RegisterUser(c.UserContext(), &user); err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}

// CheckUsernameRequest carries the login name to check. Accounts log in
// with their email address.
type CheckUsernameRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleCheckUsername answers 409 when the email is already registered.
func (h *AuthHandler) HandleCheckUsername(c *fiber.Ctx) error {
	var req CheckUsernameRequest
	if !h.parse(c, &req) {
		return nil
	}

	available, err := h.authService.EmailAvailable(c.UserContext(), req.Email)
	if err != nil {
		return h.fail(c, err)
	}
	if !available {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Email is already in use",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email is available",
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if !h.parse(c, &req) {
		return nil
	}

	token, user, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		h.log.WithField("email", req.Email).Info("login failed")
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// HandleStatus returns the authenticated user.
func (h *AuthHandler) HandleStatus(c *fiber.Ctx) error {
	user, err := h.authService.CurrentUser(c.UserContext(), principal(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"authenticated": true,
		"user":          user,
	})
}
