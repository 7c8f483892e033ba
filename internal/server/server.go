// Package server assembles the Fiber application.
package server

import (
	"context"
	"fmt"
	"time"

	"catalog/internal/config"
	"catalog/internal/docs"
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Deps are the collaborators injected into the application.
type Deps struct {
	Config     *config.Config
	Repository repositories.ProductRepository
	Publisher  services.EventPublisher // optional
	Logger     *zap.Logger
	// Ping checks the backing store for /health; nil reports "n/a".
	Ping func(ctx context.Context) error
}

// NewApp builds the Fiber app with middleware, product routes, docs and health check.
func NewApp(deps Deps) (*fiber.App, error) {
	cfg := deps.Config

	spec, err := docs.Load(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load API docs: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "catalog",
		ErrorHandler: middleware.ErrorHandler(deps.Logger),
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(middleware.NewRequestID())
	if cfg.Env != "test" {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	if cfg.FrontendURL != "" {
		// Without the middleware no CORS headers are sent and browsers block other origins.
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.FrontendURL,
		}))
	}

	// --- Product routes ---
	productService := services.NewProductService(deps.Repository, deps.Publisher, deps.Logger)
	productHandler := handlers.NewProductHandler(productService, deps.Logger)
	productHandler.RegisterRoutes(app.Group(cfg.BasePath))

	// --- Docs ---
	spec.RegisterRoutes(app.Group("/docs"))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		database := "n/a"
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			database = "up"
			if err := deps.Ping(ctx); err != nil {
				database = "down"
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"database": database,
			"time":     time.Now().Format(time.RFC3339),
		})
	})

	return app, nil
}
