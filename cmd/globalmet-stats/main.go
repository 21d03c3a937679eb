package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/meteosonora/globalmet-stats/internal/api/http"
	"github.com/meteosonora/globalmet-stats/internal/config"
	"github.com/meteosonora/globalmet-stats/internal/globalmet"
	"github.com/meteosonora/globalmet-stats/internal/logging"
	"github.com/meteosonora/globalmet-stats/internal/weather"
)

func main() {
	log := logging.New()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.WithError(err).Fatalf("failed to load timezone %s", cfg.Timezone)
	}
	clock := weather.SystemClock(loc)

	// Shared HTTP client for outbound GlobalMet calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := globalmet.NewClient(httpClient, cfg.GlobalMetURL, cfg.GlobalMetToken, clock, log)
	service := weather.NewService(client, clock)

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "globalmet-stats",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(httpapi.RequestID())
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "globalmet-stats",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
}
