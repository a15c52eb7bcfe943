package handlers

import (
	"log"

	"fitness/internal/models"
	"fitness/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserIDHeader carries the caller's identity-provider subject, injected by the gateway.
const UserIDHeader = "X-User-ID"

// ActivityHandler handles HTTP requests for activities.
type ActivityHandler struct {
	service  *services.ActivityService
	validate *validator.Validate
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the activity routes with the Fiber app.
func (h *ActivityHandler) RegisterRoutes(router fiber.Router) {
	activityRoutes := router.Group("/activities")
	activityRoutes.Post("/", h.HandleTrackActivity)
	activityRoutes.Get("/", h.HandleGetUserActivities)
	activityRoutes.Get("/:id", h.HandleGetActivity)
	activityRoutes.Delete("/:id", h.HandleDeleteActivity)
}

// requestUserID prefers the userId query parameter over the gateway header.
func requestUserID(c *fiber.Ctx) string {
	if userID := c.Query("userId"); userID != "" {
		return userID
	}
	return c.Get(UserIDHeader)
}

// HandleTrackActivity records a new activity.
func (h *ActivityHandler) HandleTrackActivity(c *fiber.Ctx) error {
	var req models.ActivityRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing activity request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.UserID == "" {
		req.UserID = c.Get(UserIDHeader)
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	activity, err := h.service.TrackActivity(c.UserContext(), req)
	if err != nil {
		log.Printf("Error tracking activity for user %s: %v", req.UserID, err)
		return errorResponse(c, "Could not track activity", err)
	}
	return c.Status(fiber.StatusCreated).JSON(activity)
}

// HandleGetUserActivities lists the activities of a user.
func (h *ActivityHandler) HandleGetUserActivities(c *fiber.Ctx) error {
	userID := requestUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "userId is required",
		})
	}

	activities, err := h.service.GetUserActivities(userID)
	if err != nil {
		log.Printf("Error listing activities for user %s: %v", userID, err)
		return errorResponse(c, "Could not retrieve activities", err)
	}
	return c.JSON(activities)
}

// HandleGetActivity returns a single activity.
func (h *ActivityHandler) HandleGetActivity(c *fiber.Ctx) error {
	activityID := c.Params("id")
	activity, err := h.service.GetActivityByID(activityID)
	if err != nil {
		log.Printf("Error getting activity %s: %v", activityID, err)
		return errorResponse(c, "Could not retrieve activity", err)
	}
	return c.JSON(activity)
}

// HandleDeleteActivity deletes an activity owned by the requesting user.
func (h *ActivityHandler) HandleDeleteActivity(c *fiber.Ctx) error {
	activityID := c.Params("id")
	userID := requestUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "userId is required",
		})
	}

	if err := h.service.DeleteActivity(activityID, userID); err != nil {
		log.Printf("Error deleting activity %s for user %s: %v", activityID, userID, err)
		return errorResponse(c, "Could not delete activity", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
