package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"fitness/internal/models"
	"fitness/internal/observability"
	"fitness/internal/repositories"
)

// AIClient sends a prompt to a generative-AI endpoint and returns the raw response body.
type AIClient interface {
	GetAnswer(ctx context.Context, prompt string) (string, error)
}

// Placeholder texts used when the model omits a section or its output cannot be read.
const (
	NoImprovementsText = "No specific improvements is provided"
	NoSuggestionsText  = "No specific suggestion is provided"
	NoSafetyText       = "Follow General Safety"

	FallbackRecommendationText = "Could not process AI response."
	FallbackImprovementsText   = "No improvements available"
	FallbackSuggestionsText    = "No suggestions available"
	FallbackSafetyText         = "Follow general safety guidelines"
)

// RecommendationService turns activities into AI recommendations.
type RecommendationService struct {
	recRepo repositories.RecommendationRepository
	ai      AIClient
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(recRepo repositories.RecommendationRepository, ai AIClient) *RecommendationService {
	return &RecommendationService{
		recRepo: recRepo,
		ai:      ai,
	}
}

// ProcessActivity generates a recommendation for the activity and persists it.
// Upstream and parse failures still persist a fallback recommendation; only a
// storage failure is returned.
func (s *RecommendationService) ProcessActivity(ctx context.Context, activity models.Activity) (*models.Recommendation, error) {
	rec, genErr := s.generate(ctx, activity)
	outcome := "parsed"
	if genErr != nil {
		log.Printf("Using fallback recommendation for activity %s: %v", activity.ID, genErr)
		outcome = "fallback"
	}

	if err := s.recRepo.Create(rec); err != nil {
		return nil, fmt.Errorf("failed to save recommendation for activity %s: %w", activity.ID, err)
	}
	observability.RecordRecommendation(outcome)
	log.Printf("Saved %s recommendation %s for activity %s", outcome, rec.ID, activity.ID)
	return rec, nil
}

// GenerateRecommendation asks the model about the activity and shapes its answer
// into a Recommendation. It always returns a record: any failure yields the
// fallback recommendation.
func (s *RecommendationService) GenerateRecommendation(ctx context.Context, activity models.Activity) *models.Recommendation {
	rec, _ := s.generate(ctx, activity)
	return rec
}

// GetUserRecommendations returns every recommendation of a user.
func (s *RecommendationService) GetUserRecommendations(userID string) ([]models.Recommendation, error) {
	return s.recRepo.ListByUserID(userID)
}

// GetActivityRecommendation returns the latest recommendation for an activity.
func (s *RecommendationService) GetActivityRecommendation(activityID string) (*models.Recommendation, error) {
	rec, err := s.recRepo.GetByActivityID(activityID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: activity %s", ErrRecommendationNotFound, activityID)
		}
		return nil, err
	}
	return rec, nil
}

func (s *RecommendationService) generate(ctx context.Context, activity models.Activity) (*models.Recommendation, error) {
	answer, err := s.ai.GetAnswer(ctx, BuildPrompt(activity))
	if err != nil {
		return fallbackRecommendation(activity), err
	}

	rec, err := ParseAIResponse(activity, answer)
	if err != nil {
		return fallbackRecommendation(activity), err
	}
	return rec, nil
}

type aiEnvelope struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ParseAIResponse reads the model's answer out of the response envelope
// (candidates[0].content.parts[0].text), strips the code fence around it and
// decodes the embedded analysis JSON. Values of an unexpected type are read as
// text rather than rejected; only a broken envelope or a non-JSON answer is an
// error.
func ParseAIResponse(activity models.Activity, raw string) (*models.Recommendation, error) {
	var envelope aiEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("malformed AI response envelope: %w", err)
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("AI response envelope has no candidate text")
	}

	content := stripCodeFence(envelope.Candidates[0].Content.Parts[0].Text)

	var answer interface{}
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return nil, fmt.Errorf("AI answer is not valid JSON: %w", err)
	}
	root, _ := answer.(map[string]interface{})
	analysis, _ := root["analysis"].(map[string]interface{})

	var text strings.Builder
	addSection(&text, "Overall", analysis, "overall")
	addSection(&text, "Pace", analysis, "pace")
	addSection(&text, "HeartRate", analysis, "heartRate")
	addSection(&text, "CaloriesBurned", analysis, "caloriesBurned")

	improvements := pairs(root["improvements"], "area", "recommendation")
	suggestions := pairs(root["suggestions"], "workout", "description")

	var safety []string
	if items, ok := root["safety"].([]interface{}); ok {
		for _, item := range items {
			safety = append(safety, asText(item))
		}
	}

	return &models.Recommendation{
		ActivityID:     activity.ID,
		UserID:         activity.UserID,
		ActivityType:   activity.Type,
		Recommendation: text.String(),
		Improvements:   orPlaceholder(improvements, NoImprovementsText),
		Suggestions:    orPlaceholder(suggestions, NoSuggestionsText),
		Safety:         orPlaceholder(safety, NoSafetyText),
		CreatedAt:      time.Now(),
	}, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// addSection appends "<prefix>: <value>" when the key is present, whatever its type.
func addSection(b *strings.Builder, prefix string, analysis map[string]interface{}, key string) {
	value, ok := analysis[key]
	if !ok {
		return
	}
	fmt.Fprintf(b, "%s: %s\n\n", prefix, asText(value))
}

// pairs renders each object of a JSON array as "<first>:<second>". Missing
// fields render as empty text.
func pairs(node interface{}, first, second string) []string {
	items, ok := node.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]interface{})
		out = append(out, fmt.Sprintf("%s:%s", fieldText(obj, first), fieldText(obj, second)))
	}
	return out
}

func fieldText(obj map[string]interface{}, key string) string {
	value, ok := obj[key]
	if !ok {
		return ""
	}
	return asText(value)
}

// asText renders a decoded JSON value as text. Scalars keep their JSON
// spelling; objects and arrays have no text form.
func asText(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case map[string]interface{}, []interface{}:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func orPlaceholder(items []string, placeholder string) []string {
	if len(items) == 0 {
		return []string{placeholder}
	}
	return items
}

func fallbackRecommendation(activity models.Activity) *models.Recommendation {
	return &models.Recommendation{
		ActivityID:     activity.ID,
		UserID:         activity.UserID,
		ActivityType:   activity.Type,
		Recommendation: FallbackRecommendationText,
		Improvements:   []string{FallbackImprovementsText},
		Suggestions:    []string{FallbackSuggestionsText},
		Safety:         []string{FallbackSafetyText},
		CreatedAt:      time.Now(),
	}
}

// BuildPrompt renders the natural-language prompt sent to the model.
func BuildPrompt(activity models.Activity) string {
	activityType := string(activity.Type)
	if activityType == "" {
		activityType = "Unknown"
	}

	return fmt.Sprintf(`Analyze this fitness activity and provide detailed recommendations in the following EXACT JSON format:
{
  "analysis": {
    "overall": "Overall analysis here",
    "pace": "Pace analysis here",
    "heartRate": "Heart rate analysis here",
    "caloriesBurned": "Calories analysis here"
  },
  "improvements": [
    {
      "area": "Area name",
      "recommendation": "Detailed recommendation"
    }
  ],
  "suggestions": [
    {
      "workout": "Workout name",
      "description": "Detailed workout description"
    }
  ],
  "safety": [
    "Safety point 1",
    "Safety point 2"
  ]
}

Analyze this activity:
Activity Type: %s
Duration: %d minutes
Calories Burned: %d
Additional Metrics: %s

Provide detailed analysis focusing on performance, improvements, next workout suggestions, and safety guidelines.
Ensure the response follows the EXACT JSON format shown above.
`, activityType, activity.Duration, activity.CaloriesBurned, formatMetrics(activity.AdditionalMetrics))
}

// formatMetrics renders the metrics map as "{key=value, ...}" with sorted keys.
func formatMetrics(metrics map[string]interface{}) string {
	if len(metrics) == 0 {
		return "None"
	}
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, metrics[k]))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
