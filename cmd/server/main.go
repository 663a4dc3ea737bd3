package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"github.com/medtrackhq/medtrack-backend/internal/config"
	"github.com/medtrackhq/medtrack-backend/internal/database"
	"github.com/medtrackhq/medtrack-backend/internal/handlers"
	"github.com/medtrackhq/medtrack-backend/internal/logging"
	"github.com/medtrackhq/medtrack-backend/internal/middleware"
	"github.com/medtrackhq/medtrack-backend/internal/routes"
	"github.com/medtrackhq/medtrack-backend/internal/seed"
	"github.com/medtrackhq/medtrack-backend/internal/services"
)

func main() {
	envLoaded := godotenv.Load() == nil

	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdoutHandler := logging.Setup(os.Stdout, logging.ParseLevel(cfg.LogLevel))

	if envLoaded {
		slog.Info("loaded environment from .env")
	}

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdoutHandler, dbLogHandler)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	// Builtin catalog seed. A failed import must never keep the server from
	// serving the data that is already there.
	if err := seed.NewImporter(db, cfg).Run(); err != nil {
		slog.Error("seed import failed, continuing with existing catalog", "error", err)
	}

	// Services
	authService := services.NewAuthService(db, cfg)
	indicatorService := services.NewIndicatorService(db)
	recordService := services.NewRecordService(db)
	detailService := services.NewDetailService(db)
	categoryService := services.NewCategoryService(db)
	userIndicatorService := services.NewUserIndicatorService(db)
	admissionService := services.NewAdmissionService(db)
	medicationService := services.NewMedicationService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(authService)
	healthHandler := handlers.NewHealthHandler(db)
	indicatorHandler := handlers.NewIndicatorHandler(indicatorService, detailService)
	recordHandler := handlers.NewRecordHandler(recordService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	userIndicatorHandler := handlers.NewUserIndicatorHandler(userIndicatorService)
	admissionHandler := handlers.NewAdmissionHandler(admissionService)
	medicationHandler := handlers.NewMedicationHandler(medicationService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, db,
		authHandler, accountHandler, healthHandler,
		indicatorHandler, recordHandler, categoryHandler,
		userIndicatorHandler, admissionHandler, medicationHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
