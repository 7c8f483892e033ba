package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/server"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg.Logger())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Store ---
	productStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer productStore.close()

	// --- RabbitMQ ---
	publisher, closePublisher := newPublisher(cfg, logger)
	defer closePublisher()

	// --- Fiber App ---
	app, err := server.NewApp(server.Deps{
		Config:     cfg,
		Repository: productStore.repo,
		Publisher:  publisher,
		Logger:     logger,
		Ping:       productStore.ping,
	})
	if err != nil {
		logger.Fatal("Failed to build app", zap.Error(err))
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port), zap.String("base_path", cfg.BasePath))
		if err := app.Listen(cfg.Port); err != nil {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Error during Fiber shutdown", zap.Error(err))
	}

	logger.Info("Server gracefully stopped")
}

// store bundles the product repository with the lifecycle hooks of its backend.
type store struct {
	repo  repositories.ProductRepository
	ping  func(ctx context.Context) error // nil for the memory driver
	close func()
}

// openStore builds the repository selected by DATABASE_DRIVER. A failed startup
// connection is logged by database.Connect and does not stop the process.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*store, error) {
	if cfg.DatabaseDriver == config.DriverMemory {
		logger.Warn("Using in-memory product store; data is lost on restart")
		return &store{
			repo:  repositories.NewMemoryProductRepository(),
			close: func() {},
		}, nil
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	_ = database.Connect(ctx, db, logger)

	return &store{
		repo: repositories.NewGORMProductRepository(db),
		ping: func(ctx context.Context) error { return database.Ping(ctx, db) },
		close: func() {
			if err := database.Close(db); err != nil {
				logger.Error("Error closing database", zap.Error(err))
			}
		},
	}, nil
}

// newPublisher connects to RabbitMQ when RABBITMQ_URL is set and starts a
// consumer that logs product events. Without a broker the service runs with
// no publisher.
func newPublisher(cfg *config.Config, logger *zap.Logger) (services.EventPublisher, func()) {
	if cfg.RabbitMQURL == "" {
		return nil, func() {}
	}

	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, product events disabled", zap.Error(err))
		return nil, func() {}
	}

	err = mqClient.ConsumeProductEvents(func(event models.ProductEvent) error {
		logger.Info("Received product event",
			zap.String("type", event.Type),
			zap.Uint("product_id", event.ProductID),
			zap.Time("occurred_at", event.OccurredAt),
		)
		return nil
	})
	if err != nil {
		logger.Warn("Failed to start RabbitMQ consumer", zap.Error(err))
	}

	return mqClient, func() {
		if err := mqClient.Close(); err != nil {
			logger.Error("Error closing RabbitMQ client", zap.Error(err))
		}
	}
}
