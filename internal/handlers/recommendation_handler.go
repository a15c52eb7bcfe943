package handlers

import (
	"log"

	"fitness/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RecommendationHandler serves stored recommendations.
type RecommendationHandler struct {
	service *services.RecommendationService
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(service *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// RegisterRoutes registers the recommendation routes with the Fiber app.
func (h *RecommendationHandler) RegisterRoutes(router fiber.Router) {
	recRoutes := router.Group("/recommendations")
	recRoutes.Get("/user/:userId", h.HandleGetUserRecommendations)
	recRoutes.Get("/activity/:activityId", h.HandleGetActivityRecommendation)
}

func (h *RecommendationHandler) HandleGetUserRecommendations(c *fiber.Ctx) error {
	userID := c.Params("userId")
	recs, err := h.service.GetUserRecommendations(userID)
	if err != nil {
		log.Printf("Error listing recommendations for user %s: %v", userID, err)
		return errorResponse(c, "Could not retrieve recommendations", err)
	}
	return c.JSON(recs)
}

func (h *RecommendationHandler) HandleGetActivityRecommendation(c *fiber.Ctx) error {
	activityID := c.Params("activityId")
	rec, err := h.service.GetActivityRecommendation(activityID)
	if err != nil {
		log.Printf("Error getting recommendation for activity %s: %v", activityID, err)
		return errorResponse(c, "Could not retrieve recommendation", err)
	}
	return c.JSON(rec)
}
