package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/almajid/internal/config"
	"github.com/example/almajid/internal/database"
	"github.com/example/almajid/internal/handlers"
	"github.com/example/almajid/internal/logger"
	"github.com/example/almajid/internal/metrics"
	"github.com/example/almajid/internal/middleware"
	"github.com/example/almajid/internal/repository/postgres"
	"github.com/example/almajid/internal/routes"
	"github.com/example/almajid/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{
		Level:      cfg.LogLevel,
		Production: cfg.IsProduction(),
		File:       cfg.LogFile,
	})
	defer log.Sync()

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBLogLevel, log)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}

	provider, err := newStorage(cfg)
	if err != nil {
		log.Fatal("storage unavailable", zap.Error(err))
	}

	m := metrics.New()

	app := fiber.New(fiber.Config{
		AppName:      "Al-Majid Batik Backend",
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    storage.MaxImageSize + 1<<20,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(m.Middleware())

	routes.Register(app, routes.Dependencies{
		Config:  cfg,
		Repos:   postgres.NewRepositories(db, log),
		Storage: provider,
		Metrics: m,
		Log:     log,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	log.Info("starting server", zap.String("port", cfg.AppPort), zap.String("environment", cfg.Environment))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal("fiber.Listen error", zap.Error(err))
	}
}

// newStorage picks Cloudinary when configured and the local upload
// directory otherwise.
func newStorage(cfg *config.Config) (storage.Provider, error) {
	if cfg.CloudinaryURL != "" {
		return storage.NewCloudinary(cfg.CloudinaryURL)
	}
	return storage.NewDisk(cfg.UploadDir, cfg.PublicBaseURL+"/uploads")
}
