package handlers

import (
	"log"

	"fitness/internal/models"
	"fitness/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for the user directory.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/register", h.HandleRegister)
	userRoutes.Get("/:id", h.HandleGetProfile)
	userRoutes.Get("/:id/validate", h.HandleValidate)
}

// HandleRegister creates a user, or returns the existing user with the same email.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	user, err := h.service.Register(req)
	if err != nil {
		log.Printf("Error registering user %s: %v", req.Email, err)
		return errorResponse(c, "Could not register user", err)
	}
	return c.JSON(user)
}

// HandleGetProfile returns a user profile by local ID.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	userID := c.Params("id")
	user, err := h.service.GetProfile(userID)
	if err != nil {
		log.Printf("Error getting user %s: %v", userID, err)
		return errorResponse(c, "Could not retrieve user", err)
	}
	return c.JSON(user)
}

// HandleValidate answers with a bare JSON boolean telling whether a user is
// linked to the given identity-provider subject.
func (h *UserHandler) HandleValidate(c *fiber.Ctx) error {
	exists, err := h.service.Exists(c.Params("id"))
	if err != nil {
		log.Printf("Error validating user %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not validate user", err)
	}
	return c.JSON(exists)
}
