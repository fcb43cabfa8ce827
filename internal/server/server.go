package server

import (
	"context"
	"errors"
	"time"

	"pethaul/internal/config"
	"pethaul/internal/handlers"
	"pethaul/internal/middleware"
	"pethaul/internal/repositories"
	"pethaul/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Options carries the dependencies of the HTTP application. Events and Cache
// may be nil.
type Options struct {
	Config *config.Config
	DB     *gorm.DB
	Events services.EventPublisher
	Cache  services.ReportCache
	Log    logrus.FieldLogger
}

// New builds the Fiber application with every route registered.
func New(opts Options) *fiber.App {
	cfg := opts.Config
	log := opts.Log
	production := cfg.IsProduction()

	app := fiber.New(fiber.Config{
		AppName:      "pethaul",
		ErrorHandler: errorHandler(log, production),
	})

	app.Use(recover.New())
	if !production {
		app.Use(logger.New())
	}
	if cfg.FrontendURL != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.FrontendURL,
			AllowCredentials: true,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		}))
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(opts.DB)
	itemRepo := repositories.NewGORMItemRepository(opts.DB)
	orderRepo := repositories.NewGORMOrderRepository(opts.DB)
	ledger := repositories.NewGORMInventoryLedger(opts.DB)
	reportRepo := repositories.NewGORMReportRepository(opts.DB)
	cartRepo := repositories.NewGORMCartRepository(opts.DB)
	likeRepo := repositories.NewGORMLikeRepository(opts.DB)
	domainRepo := repositories.NewGORMDomainRepository(opts.DB)
	petRepo := repositories.NewGORMPetRepository(opts.DB)
	reviewRepo := repositories.NewGORMReviewRepository(opts.DB)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, cfg.TokenIssuer, log)
	tokenService := services.NewTokenService(authService, userRepo, domainRepo, cfg.ClientTokenTTL)
	itemService := services.NewItemService(itemRepo)
	orderService := services.NewOrderService(opts.DB, orderRepo, ledger, opts.Events, log)
	reportService := services.NewReportService(reportRepo, orderRepo, opts.Cache, cfg.ReportCacheTTL, log)
	cartService := services.NewCartService(cartRepo, itemRepo)
	likeService := services.NewLikeService(likeRepo, itemRepo)
	petService := services.NewPetService(petRepo)
	reviewService := services.NewReviewService(reviewRepo, itemRepo)

	requireAuth := middleware.AuthRequired(authService, log)
	requireAdmin := middleware.AdminOnly()

	// --- Routes ---
	handlers.NewAuthHandler(authService, log, production).RegisterRoutes(app, requireAuth)
	handlers.NewItemHandler(itemService, reportService, log, production).RegisterRoutes(app, requireAuth, requireAdmin)
	handlers.NewOrderHandler(orderService, reportService, log, production).RegisterRoutes(app, requireAuth, requireAdmin)
	handlers.NewCartHandler(cartService, log, production).RegisterRoutes(app, requireAuth)
	handlers.NewLikeHandler(likeService, log, production).RegisterRoutes(app, requireAuth)
	handlers.NewTokenHandler(tokenService, log, production).RegisterRoutes(app, requireAuth, requireAdmin)
	handlers.NewPetHandler(petService, log, production).RegisterRoutes(app, requireAuth)
	handlers.NewReviewHandler(reviewService, log, production).RegisterRoutes(app, requireAuth)

	app.Get("/health", healthHandler(opts.DB, opts.Cache))

	return app
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler fails only when the database is unreachable. The report cache
// is optional and only reported.
func healthHandler(db *gorm.DB, cache services.ReportCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := "healthy"
		code := fiber.StatusOK
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			status = "unhealthy"
			code = fiber.StatusServiceUnavailable
		}

		body := fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		}
		if p, ok := cache.(pinger); ok {
			body["cache"] = "up"
			if err := p.Ping(c.UserContext()); err != nil {
				body["cache"] = "down"
			}
		}
		return c.Status(code).JSON(body)
	}
}

// errorHandler answers unknown routes, body limit violations and recovered
// panics with the same JSON shape as the handlers.
func errorHandler(log logrus.FieldLogger, production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		body := fiber.Map{
			"success": false,
			"message": message,
		}
		if code == fiber.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Path()).Error("unhandled error")
			if !production {
				body["error"] = err.Error()
			}
		}
		return c.Status(code).JSON(body)
	}
}
