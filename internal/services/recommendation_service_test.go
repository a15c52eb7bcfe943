package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"fitness/internal/models"
	"fitness/internal/repositories"
	"fitness/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// wrapEnvelope embeds the model answer in the response envelope, inside a json code fence.
func wrapEnvelope(t *testing.T, answer string) string {
	t.Helper()
	envelope := map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"parts": []interface{}{
						map[string]interface{}{"text": "```json\n" + answer + "\n```"},
					},
				},
			},
		},
	}
	body, err := json.Marshal(envelope)
	require.NoError(t, err)
	return string(body)
}

var sampleActivity = models.Activity{
	ID:             "a-1",
	UserID:         "kc-1",
	Type:           models.ActivityRunning,
	Duration:       45,
	CaloriesBurned: 420,
	AdditionalMetrics: map[string]interface{}{
		"pace":     "5:10",
		"avgHeart": 150,
	},
}

func TestGenerateRecommendation_ParsesAnalysis(t *testing.T) {
	ai := new(MockAIClient)
	service := services.NewRecommendationService(repositories.NewMemoryRecommendationRepository(), ai)

	answer := `{"analysis":{"overall":"Good pace"},"improvements":[{"area":"Cadence","recommendation":"Increase by 5%"}],"suggestions":[],"safety":["Stay hydrated"]}`
	ai.On("GetAnswer", mock.Anything, mock.AnythingOfType("string")).Return(wrapEnvelope(t, answer), nil).Once()

	rec := service.GenerateRecommendation(context.Background(), sampleActivity)

	assert.True(t, strings.HasPrefix(rec.Recommendation, "Overall: Good pace\n\n"))
	assert.Equal(t, []string{"Cadence:Increase by 5%"}, rec.Improvements)
	assert.Equal(t, []string{"No specific suggestion is provided"}, rec.Suggestions)
	assert.Equal(t, []string{"Stay hydrated"}, rec.Safety)
	assert.Equal(t, "a-1", rec.ActivityID)
	assert.Equal(t, "kc-1", rec.UserID)
	assert.Equal(t, models.ActivityRunning, rec.ActivityType)
	ai.AssertExpectations(t)
}

func TestGenerateRecommendation_SectionOrder(t *testing.T) {
	ai := new(MockAIClient)
	service := services.NewRecommendationService(repositories.NewMemoryRecommendationRepository(), ai)

	answer := `{"analysis":{"caloriesBurned":"C","heartRate":"H","pace":"P","overall":"O"},"suggestions":[{"workout":"Intervals","description":"6x400m"}]}`
	ai.On("GetAnswer", mock.Anything, mock.Anything).Return(wrapEnvelope(t, answer), nil).Once()

	rec := service.GenerateRecommendation(context.Background(), sampleActivity)

	assert.Equal(t, "Overall: O\n\nPace: P\n\nHeartRate: H\n\nCaloriesBurned: C\n\n", rec.Recommendation)
	assert.Equal(t, []string{"Intervals:6x400m"}, rec.Suggestions)
	assert.Equal(t, []string{services.NoImprovementsText}, rec.Improvements)
	assert.Equal(t, []string{services.NoSafetyText}, rec.Safety)
}

func TestGenerateRecommendation_MissingAnalysisStillHasPlaceholders(t *testing.T) {
	ai := new(MockAIClient)
	service := services.NewRecommendationService(repositories.NewMemoryRecommendationRepository(), ai)

	ai.On("GetAnswer", mock.Anything, mock.Anything).Return(wrapEnvelope(t, `{"improvements":[]}`), nil).Once()

	rec := service.GenerateRecommendation(context.Background(), sampleActivity)

	assert.Empty(t, rec.Recommendation)
	assert.NotEmpty(t, rec.Improvements)
	assert.NotEmpty(t, rec.Suggestions)
	assert.NotEmpty(t, rec.Safety)
}

func TestGenerateRecommendation_ReadsOddlyTypedValuesAsText(t *testing.T) {
	cases := map[string]struct {
		answer       string
		text         string
		improvements []string
		safety       []string
	}{
		"number in safety": {
			answer:       `{"analysis":{"overall":"Good"},"safety":[1,"Stay hydrated"]}`,
			text:         "Overall: Good\n\n",
			improvements: []string{services.NoImprovementsText},
			safety:       []string{"1", "Stay hydrated"},
		},
		"number for a section": {
			answer:       `{"analysis":{"overall":5,"pace":"ok","heartRate":null}}`,
			text:         "Overall: 5\n\nPace: ok\n\nHeartRate: null\n\n",
			improvements: []string{services.NoImprovementsText},
			safety:       []string{services.NoSafetyText},
		},
		"number for an area": {
			answer:       `{"improvements":[{"area":2,"recommendation":"Rest more"},{"recommendation":true}]}`,
			text:         "",
			improvements: []string{"2:Rest more", ":true"},
			safety:       []string{services.NoSafetyText},
		},
		"analysis is not an object": {
			answer:       `{"analysis":"great","safety":["Warm up"]}`,
			text:         "",
			improvements: []string{services.NoImprovementsText},
			safety:       []string{"Warm up"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec, err := services.ParseAIResponse(sampleActivity, wrapEnvelope(t, tc.answer))
			require.NoError(t, err)

			assert.Equal(t, tc.text, rec.Recommendation)
			assert.Equal(t, tc.improvements, rec.Improvements)
			assert.Equal(t, []string{services.NoSuggestionsText}, rec.Suggestions)
			assert.Equal(t, tc.safety, rec.Safety)
		})
	}
}

func TestGenerateRecommendation_FallbackOnBadOutput(t *testing.T) {
	cases := map[string]string{
		"not json":          "the model is feeling chatty",
		"empty candidates":  `{"candidates":[]}`,
		"non-json answer":   `{"candidates":[{"content":{"parts":[{"text":"Sorry, I can't help"}]}}]}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			ai := new(MockAIClient)
			service := services.NewRecommendationService(repositories.NewMemoryRecommendationRepository(), ai)
			ai.On("GetAnswer", mock.Anything, mock.Anything).Return(raw, nil).Once()

			rec := service.GenerateRecommendation(context.Background(), sampleActivity)

			assert.Equal(t, services.FallbackRecommendationText, rec.Recommendation)
			assert.Equal(t, []string{services.FallbackImprovementsText}, rec.Improvements)
			assert.Equal(t, []string{services.FallbackSuggestionsText}, rec.Suggestions)
			assert.Equal(t, []string{services.FallbackSafetyText}, rec.Safety)
			assert.Equal(t, "a-1", rec.ActivityID)
		})
	}
}

func TestProcessActivity_PersistsFallbackOnUpstreamError(t *testing.T) {
	ai := new(MockAIClient)
	repo := repositories.NewMemoryRecommendationRepository()
	service := services.NewRecommendationService(repo, ai)

	ai.On("GetAnswer", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("%w: status 503", services.ErrUpstream)).Once()

	rec, err := service.ProcessActivity(context.Background(), sampleActivity)
	require.NoError(t, err)
	assert.Equal(t, services.FallbackRecommendationText, rec.Recommendation)

	stored, err := service.GetActivityRecommendation("a-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, stored.ID)
}

func TestProcessActivity_RedeliveryCreatesDuplicate(t *testing.T) {
	ai := new(MockAIClient)
	repo := repositories.NewMemoryRecommendationRepository()
	service := services.NewRecommendationService(repo, ai)

	ai.On("GetAnswer", mock.Anything, mock.Anything).Return(wrapEnvelope(t, `{"safety":["Warm up"]}`), nil).Twice()

	_, err := service.ProcessActivity(context.Background(), sampleActivity)
	require.NoError(t, err)
	_, err = service.ProcessActivity(context.Background(), sampleActivity)
	require.NoError(t, err)

	recs, err := service.GetUserRecommendations("kc-1")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestGetActivityRecommendation_NotFound(t *testing.T) {
	service := services.NewRecommendationService(repositories.NewMemoryRecommendationRepository(), new(MockAIClient))

	_, err := service.GetActivityRecommendation("missing")
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func TestBuildPrompt(t *testing.T) {
	prompt := services.BuildPrompt(sampleActivity)

	assert.Contains(t, prompt, "Activity Type: RUNNING")
	assert.Contains(t, prompt, "Duration: 45 minutes")
	assert.Contains(t, prompt, "Calories Burned: 420")
	assert.Contains(t, prompt, "Additional Metrics: {avgHeart=150, pace=5:10}")

	empty := services.BuildPrompt(models.Activity{})
	assert.Contains(t, empty, "Activity Type: Unknown")
	assert.Contains(t, empty, "Additional Metrics: None")
}
