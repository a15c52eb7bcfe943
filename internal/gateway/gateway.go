package gateway

import (
	"fmt"
	"log"
	"strings"

	"fitness/internal/middleware"
	"fitness/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
)

// Config holds the backend base URLs and the identity settings of the gateway.
type Config struct {
	UserServiceURL     string
	ActivityServiceURL string
	AIServiceURL       string

	// JWTSecret turns on signature verification of bearer tokens when set.
	JWTSecret               string
	SyncPlaceholderPassword string
}

// New builds the gateway: every /api request passes the identity sync and is
// then proxied to the backend owning its path prefix.
func New(cfg Config, directory middleware.UserDirectory) *fiber.App {
	app := server.New("gateway")

	api := app.Group("/api")
	if cfg.JWTSecret != "" {
		api.Use(middleware.AuthRequired(cfg.JWTSecret))
	}
	api.Use(middleware.IdentitySync(directory, cfg.SyncPlaceholderPassword))

	routes := map[string]string{
		"/users":           cfg.UserServiceURL,
		"/keycloak":        cfg.UserServiceURL,
		"/activities":      cfg.ActivityServiceURL,
		"/recommendations": cfg.AIServiceURL,
	}
	for prefix, backend := range routes {
		handler := forward(backend)
		api.All(prefix, handler)
		api.All(prefix+"/*", handler)
	}

	return app
}

// forward proxies the request, headers included, to the same path on baseURL.
func forward(baseURL string) fiber.Handler {
	baseURL = strings.TrimRight(baseURL, "/")
	return func(c *fiber.Ctx) error {
		target := baseURL + c.OriginalURL()
		if err := proxy.Do(c, target); err != nil {
			log.Printf("Error proxying %s %s to %s: %v", c.Method(), c.OriginalURL(), baseURL, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message": fmt.Sprintf("upstream %s unavailable", baseURL),
			})
		}
		c.Response().Header.Del(fiber.HeaderServer)
		return nil
	}
}
