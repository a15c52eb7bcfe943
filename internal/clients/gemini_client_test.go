package clients_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitness/internal/clients"
	"fitness/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_GetAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.RawQuery)

		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		assert.Equal(t, "how was my run?", body.Contents[0].Parts[0].Text)

		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := clients.NewGeminiClient(server.URL+"/generate", "secret", time.Second)

	answer, err := client.GetAnswer(context.Background(), "how was my run?")
	require.NoError(t, err)
	assert.Equal(t, `{"candidates":[]}`, answer)
}

func TestGeminiClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") == "slow-key-123" {
			<-r.Context().Done()
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := clients.NewGeminiClient(server.URL, "limited", time.Second).GetAnswer(context.Background(), "p")
	assert.True(t, errors.Is(err, services.ErrUpstream))
	assert.Contains(t, err.Error(), "status 429")

	_, err = clients.NewGeminiClient(server.URL, "slow-key-123", 50*time.Millisecond).GetAnswer(context.Background(), "p")
	assert.True(t, errors.Is(err, services.ErrUpstream))
	assert.NotContains(t, err.Error(), "slow-key-123", "the API key must not leak into errors")
}
