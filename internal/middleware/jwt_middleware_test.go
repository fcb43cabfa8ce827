package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pethaul/internal/middleware"
	"pethaul/internal/models"
	"pethaul/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	auth := services.NewAuthService(nil, "test_jwt_secret", time.Hour, "pethaul-test", log)
	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(auth, log), func(c *fiber.Ctx) error {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(p.UserID)
	})
	app.Get("/admin", middleware.AuthRequired(auth, log), middleware.AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app, auth
}

func get(t *testing.T, app *fiber.App, path, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestAuthRequired(t *testing.T) {
	app, auth := setup(t)
	token, err := auth.SignToken(&models.User{ID: "user-1", Role: models.RoleUser}, time.Hour, nil)
	require.NoError(t, err)

	status, body := get(t, app, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user-1", body)

	status, _ = get(t, app, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = get(t, app, "/me", "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "Authorization header format must be 'Bearer <token>'", payload["message"])

	status, _ = get(t, app, "/me", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAdminOnly(t *testing.T) {
	app, auth := setup(t)
	userToken, _ := auth.SignToken(&models.User{ID: "user-1", Role: models.RoleUser}, time.Hour, nil)
	adminToken, _ := auth.SignToken(&models.User{ID: "admin-1", Role: models.RoleAdmin}, time.Hour, nil)

	status, _ := get(t, app, "/admin", "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := get(t, app, "/admin", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)
}
