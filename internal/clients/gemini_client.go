package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fitness/internal/services"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

const apiKeyHeader = "x-goog-api-key"

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

// GeminiClient posts prompts to a generateContent endpoint. The API key travels
// in the x-goog-api-key header so it never shows up in URLs or error messages.
type GeminiClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewGeminiClient creates a GeminiClient whose calls are bounded by timeout.
func NewGeminiClient(apiURL, apiKey string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetAnswer sends the prompt and returns the raw response body.
// Every failure wraps services.ErrUpstream.
func (c *GeminiClient) GetAnswer(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", services.ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", services.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", services.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", services.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", services.ErrUpstream, resp.StatusCode, truncate(body, 256))
	}
	return string(body), nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
