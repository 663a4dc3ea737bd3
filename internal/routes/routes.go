package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/medtrackhq/medtrack-backend/internal/config"
	"github.com/medtrackhq/medtrack-backend/internal/handlers"
	"github.com/medtrackhq/medtrack-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	accountHandler *handlers.AccountHandler,
	healthHandler *handlers.HealthHandler,
	indicatorHandler *handlers.IndicatorHandler,
	recordHandler *handlers.RecordHandler,
	categoryHandler *handlers.CategoryHandler,
	userIndicatorHandler *handlers.UserIndicatorHandler,
	admissionHandler *handlers.AdmissionHandler,
	medicationHandler *handlers.MedicationHandler,
) {
	api := app.Group("/api/v1")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, stricter rate limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	jwt := middleware.JWTProtected(cfg)
	staff := middleware.StaffRequired(db)

	api.Post("/auth/logout", jwt, authHandler.Logout)

	// Account
	api.Get("/user/profile", jwt, accountHandler.Me)
	api.Patch("/user/profile", jwt, accountHandler.Update)
	api.Post("/user/password", jwt, accountHandler.ChangePassword)

	// Indicator catalog + records
	api.Get("/indicators", jwt, indicatorHandler.List)
	api.Post("/indicators", jwt, indicatorHandler.Create)
	api.Get("/indicators/:id", jwt, indicatorHandler.Get)
	api.Patch("/indicators/:id", jwt, indicatorHandler.Update)
	api.Delete("/indicators/:id", jwt, indicatorHandler.Delete)
	api.Get("/indicators/:id/detail", jwt, indicatorHandler.GetDetail)
	api.Put("/indicators/:id/detail", jwt, staff, indicatorHandler.PutDetail)
	api.Get("/indicators/:id/records", jwt, recordHandler.List)
	api.Post("/indicators/:id/records", jwt, recordHandler.Create)
	api.Patch("/records/:recordId", jwt, recordHandler.Update)
	api.Delete("/records/:recordId", jwt, recordHandler.Delete)

	// Categories
	api.Get("/categories", jwt, categoryHandler.List)
	api.Get("/categories/:id", jwt, categoryHandler.Get)
	api.Get("/categories/:id/indicators", jwt, categoryHandler.Indicators)

	// Favorites / thresholds
	api.Get("/user/indicators", jwt, userIndicatorHandler.List)
	api.Put("/user/indicators", jwt, userIndicatorHandler.Upsert)
	api.Delete("/user/indicators/:indicatorId", jwt, userIndicatorHandler.Delete)

	// Admissions
	api.Get("/admissions", jwt, admissionHandler.List)
	api.Post("/admissions", jwt, admissionHandler.Create)
	api.Get("/admissions/:id", jwt, admissionHandler.Get)
	api.Delete("/admissions/:id", jwt, admissionHandler.Delete)
	api.Get("/admissions/:id/files", jwt, admissionHandler.Files)
	api.Post("/admissions/:id/files", jwt, admissionHandler.AddFile)

	// Medications
	api.Get("/medications", jwt, medicationHandler.List)
	api.Post("/medications", jwt, medicationHandler.Create)
	api.Patch("/medications/:id", jwt, medicationHandler.Update)
	api.Delete("/medications/:id", jwt, medicationHandler.Delete)
}
