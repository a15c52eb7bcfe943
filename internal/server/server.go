package server

import (
	"time"

	"fitness/internal/handlers"
	"fitness/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New creates a Fiber app with request logging, /health and /metrics.
func New(name string) *fiber.App {
	// Immutable keeps header and param strings valid after the handler returns.
	app := fiber.New(fiber.Config{
		AppName:   name,
		Immutable: true,
	})

	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"service": name,
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app
}

// NewUserApp builds the user service: directory endpoints and identity-provider registration.
func NewUserApp(userService *services.UserService, provisioner handlers.IdentityProvisioner) *fiber.App {
	app := New("user-service")
	api := app.Group("/api")
	handlers.NewUserHandler(userService).RegisterRoutes(api)
	handlers.NewKeycloakHandler(provisioner).RegisterRoutes(api)
	return app
}

// NewActivityApp builds the activity service.
func NewActivityApp(activityService *services.ActivityService) *fiber.App {
	app := New("activity-service")
	handlers.NewActivityHandler(activityService).RegisterRoutes(app.Group("/api"))
	return app
}

// NewAIApp builds the recommendation read API of the AI service.
func NewAIApp(recService *services.RecommendationService) *fiber.App {
	app := New("ai-service")
	handlers.NewRecommendationHandler(recService).RegisterRoutes(app.Group("/api"))
	return app
}
