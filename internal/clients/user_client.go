package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"fitness/internal/models"
	"fitness/internal/services"
)

// UserClient calls the user service over HTTP. It backs both the activity
// service's user validation and the gateway's identity sync.
type UserClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewUserClient creates a UserClient whose calls are bounded by timeout.
func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ValidateUser asks the user service whether a user with the given external ID exists.
// Transport errors, timeouts and non-200 answers wrap services.ErrValidationUnavailable.
func (c *UserClient) ValidateUser(ctx context.Context, userID string) (bool, error) {
	log.Printf("Calling user validation API for %s", userID)

	endpoint := fmt.Sprintf("%s/api/users/%s/validate", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("%w: %v", services.ErrValidationUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", services.ErrValidationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: user service answered %d for %s", services.ErrValidationUnavailable, resp.StatusCode, userID)
	}

	var exists bool
	if err := json.NewDecoder(resp.Body).Decode(&exists); err != nil {
		return false, fmt.Errorf("%w: decode validation response: %v", services.ErrValidationUnavailable, err)
	}
	return exists, nil
}

// Register creates (or backfills) a user through the user service.
func (c *UserClient) Register(ctx context.Context, request models.RegisterRequest) (*models.User, error) {
	log.Printf("Calling user registration API for %s", request.Email)

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal register request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/users/register", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build register request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user registration call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("user registration failed with status %d: %s", resp.StatusCode, detail)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode registered user: %w", err)
	}
	return &user, nil
}
