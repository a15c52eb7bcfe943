package worker

import (
	"context"
	"encoding/json"
	"log"

	"fitness/internal/models"
)

// ActivityProcessor turns a consumed activity into a persisted recommendation.
type ActivityProcessor interface {
	ProcessActivity(ctx context.Context, activity models.Activity) (*models.Recommendation, error)
}

// RecommendationWorker handles activity-created messages.
type RecommendationWorker struct {
	processor ActivityProcessor
}

// NewRecommendationWorker creates a new RecommendationWorker.
func NewRecommendationWorker(processor ActivityProcessor) *RecommendationWorker {
	return &RecommendationWorker{processor: processor}
}

// Handle decodes one message body and processes it. Undecodable bodies are
// dropped so they are acknowledged rather than redelivered; an error is only
// returned when the recommendation could not be stored.
func (w *RecommendationWorker) Handle(ctx context.Context, body []byte) error {
	var activity models.Activity
	if err := json.Unmarshal(body, &activity); err != nil {
		log.Printf("Dropping undecodable activity message: %v", err)
		return nil
	}

	log.Printf("Received activity %s for processing", activity.ID)
	_, err := w.processor.ProcessActivity(ctx, activity)
	return err
}
