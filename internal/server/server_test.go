package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pethaul/internal/config"
	"pethaul/internal/database"
	"pethaul/internal/models"
	"pethaul/internal/server"
	"pethaul/internal/services"
	"pethaul/pkg/rediscache"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of the RabbitMQ client
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

func TestOrderEventsArePublished(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	db := database.OpenTest(t)
	mockMQ := new(MockEventPublisher)

	cfg := &config.Config{
		AppEnv:         config.EnvProduction,
		JWTSecret:      "test_jwt_secret",
		JWTTTL:         time.Hour,
		ClientTokenTTL: time.Hour,
		TokenIssuer:    "pethaul-test",
		ReportCacheTTL: time.Minute,
	}
	app := server.New(server.Options{Config: cfg, DB: db, Events: mockMQ, Log: log})

	user := &models.User{Email: "buyer@example.com", Name: "Buyer", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	item := &models.Item{Name: "Kennel", Price: 9000, StockNumber: 3}
	require.NoError(t, db.Create(item).Error)

	auth := services.NewAuthService(nil, cfg.JWTSecret, time.Hour, cfg.TokenIssuer, log)
	token, err := auth.SignToken(user, time.Hour, nil)
	require.NoError(t, err)

	var published services.OrderEvent
	mockMQ.On("Publish", services.EventOrderCreated, mock.Anything).
		Run(func(args mock.Arguments) {
			assert.NoError(t, json.Unmarshal(args.Get(1).([]byte), &published))
		}).
		Return(nil).Once()
	mockMQ.On("Publish", services.EventOrderCancelled, mock.Anything).Return(nil).Once()

	body, _ := json.Marshal(map[string]interface{}{
		"items": []map[string]interface{}{{"itemId": item.ID, "price": 9000, "quantity": 1}},
	})
	req := httptest.NewRequest(http.MethodPost, "/order", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	assert.Equal(t, created["orderId"], published.OrderID)
	assert.Equal(t, user.ID, published.UserID)
	assert.Equal(t, "ORDER", published.Status)
	assert.NotEmpty(t, published.EventID)

	req = httptest.NewRequest(http.MethodPatch, "/order/"+published.OrderID+"/cancel", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	mockMQ.AssertExpectations(t)
}

func TestHealthReportsDatabaseOutage(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	db := database.OpenTest(t)
	app := server.New(server.Options{
		Config: &config.Config{AppEnv: config.EnvDevelopment, JWTSecret: "s", JWTTTL: time.Hour, ClientTokenTTL: time.Hour},
		DB:     db,
		Log:    log,
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealthReportsCache(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	mr := miniredis.RunT(t)
	cache, err := rediscache.New(context.Background(), mr.Addr())
	require.NoError(t, err)
	defer cache.Close()

	app := server.New(server.Options{
		Config: &config.Config{AppEnv: config.EnvDevelopment, JWTSecret: "s", JWTTTL: time.Hour, ClientTokenTTL: time.Hour},
		DB:     database.OpenTest(t),
		Cache:  cache,
		Log:    log,
	})

	health := func() map[string]interface{} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body
	}

	assert.Equal(t, "up", health()["cache"])
	mr.SetError("LOADING redis is loading the dataset")
	assert.Equal(t, "down", health()["cache"])
}
