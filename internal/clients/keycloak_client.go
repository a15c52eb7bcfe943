package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// KeycloakConfig holds the admin API settings.
type KeycloakConfig struct {
	ServerURL     string
	Realm         string
	ClientID      string
	AdminUsername string
	AdminPassword string
	Timeout       time.Duration
}

// KeycloakUser is the account created through the admin API.
type KeycloakUser struct {
	Username  string `json:"username" validate:"required,min=3,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"omitempty,max=100"`
	LastName  string `json:"lastName" validate:"omitempty,max=100"`
}

type keycloakCredential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

type keycloakUserRepresentation struct {
	Enabled     bool                 `json:"enabled"`
	Username    string               `json:"username"`
	FirstName   string               `json:"firstName"`
	LastName    string               `json:"lastName"`
	Email       string               `json:"email"`
	Credentials []keycloakCredential `json:"credentials"`
}

// KeycloakClient creates accounts in the identity provider.
type KeycloakClient struct {
	cfg        KeycloakConfig
	httpClient *http.Client
}

// NewKeycloakClient creates a new KeycloakClient.
func NewKeycloakClient(cfg KeycloakConfig) *KeycloakClient {
	return &KeycloakClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// CreateUser creates an enabled account with a permanent password and returns
// the identity-provider ID taken from the Location header (empty if absent).
func (c *KeycloakClient) CreateUser(ctx context.Context, user KeycloakUser) (string, error) {
	token, err := c.adminAccessToken(ctx)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(keycloakUserRepresentation{
		Enabled:   true,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Credentials: []keycloakCredential{
			{Type: "password", Value: user.Password, Temporary: false},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal keycloak user: %w", err)
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users", c.cfg.ServerURL, url.PathEscape(c.cfg.Realm))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build create-user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create-user call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("failed to create user in keycloak: status %d: %s", resp.StatusCode, detail)
	}

	var externalID string
	if location := resp.Header.Get("Location"); location != "" {
		externalID = location[strings.LastIndex(location, "/")+1:]
		log.Printf("Keycloak user ID: %s", externalID)
	}
	log.Printf("User created in Keycloak: %s", user.Username)
	return externalID, nil
}

// adminAccessToken performs a password grant against the master realm.
func (c *KeycloakClient) adminAccessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("username", c.cfg.AdminUsername)
	form.Set("password", c.cfg.AdminPassword)

	endpoint := c.cfg.ServerURL + "/realms/master/protocol/openid-connect/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get access token from keycloak: status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", errors.New("keycloak token response has no access_token")
	}
	return body.AccessToken, nil
}
