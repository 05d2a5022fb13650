package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/jewa/internal/config"
	"github.com/example/jewa/internal/database"
	"github.com/example/jewa/internal/handlers"
	applog "github.com/example/jewa/internal/logger"
	"github.com/example/jewa/internal/routes"
)

func main() {
	cfg := config.Load()

	zl, err := applog.New(applog.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("database unavailable", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      "Jewa Resident Gateway",
		ErrorHandler: handlers.ErrorHandler(zl),
	})

	app.Use(recover.New())
	app.Use(logger.New())

	if err := routes.Register(app, db, cfg, routes.Options{Logger: zl}); err != nil {
		zl.Fatal("failed to register routes", zap.Error(err))
	}

	zl.Info("starting server", zap.String("port", cfg.AppPort), zap.String("upstream", cfg.JewaBaseURL))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		zl.Fatal("fiber.Listen error", zap.Error(err))
	}
}
