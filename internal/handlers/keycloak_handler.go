package handlers

import (
	"context"
	"log"

	"fitness/internal/clients"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// IdentityProvisioner creates accounts in the external identity provider.
type IdentityProvisioner interface {
	CreateUser(ctx context.Context, user clients.KeycloakUser) (string, error)
}

// KeycloakHandler exposes identity-provider registration.
type KeycloakHandler struct {
	provisioner IdentityProvisioner
	validate    *validator.Validate
}

// NewKeycloakHandler creates a new KeycloakHandler.
func NewKeycloakHandler(provisioner IdentityProvisioner) *KeycloakHandler {
	return &KeycloakHandler{
		provisioner: provisioner,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the identity-provider routes with the Fiber app.
func (h *KeycloakHandler) RegisterRoutes(router fiber.Router) {
	router.Group("/keycloak").Post("/register", h.HandleRegister)
}

// HandleRegister creates the account in the identity provider.
func (h *KeycloakHandler) HandleRegister(c *fiber.Ctx) error {
	var req clients.KeycloakUser
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	externalID, err := h.provisioner.CreateUser(c.UserContext(), req)
	if err != nil {
		log.Printf("Error registering %s in Keycloak: %v", req.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error: " + err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message":    "User registered in Keycloak",
		"externalId": externalID,
	})
}
