package middleware

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"fitness/internal/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	existing   map[string]bool
	checkErr   error
	checked    []string
	registered []models.RegisterRequest
}

func (d *fakeDirectory) ValidateUser(_ context.Context, userID string) (bool, error) {
	d.checked = append(d.checked, userID)
	if d.checkErr != nil {
		return false, d.checkErr
	}
	return d.existing[userID], nil
}

func (d *fakeDirectory) Register(_ context.Context, request models.RegisterRequest) (*models.User, error) {
	d.registered = append(d.registered, request)
	return &models.User{ID: "local-1", Email: request.Email, ExternalID: request.ExternalID}, nil
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// newSyncApp echoes the X-User-ID header the downstream service would receive.
func newSyncApp(directory UserDirectory) *fiber.App {
	app := fiber.New()
	app.Use(IdentitySync(directory, "dummy@123123"))
	app.Get("/echo", func(c *fiber.Ctx) error {
		return c.SendString(c.Get("X-User-ID"))
	})
	return app
}

func forwardedUserID(t *testing.T, app *fiber.App, headers map[string]string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

var aliceClaims = jwt.MapClaims{
	"sub":                "kc-alice",
	"email":              "alice@example.com",
	"preferred_username": "alice",
	"given_name":         "Alice",
	"family_name":        "Liddell",
}

func TestIdentitySync_RegistersUnknownUser(t *testing.T) {
	directory := &fakeDirectory{}
	app := newSyncApp(directory)

	got := forwardedUserID(t, app, map[string]string{
		"Authorization": "Bearer " + signedToken(t, "any-key", aliceClaims),
	})

	assert.Equal(t, "kc-alice", got)
	assert.Equal(t, []string{"kc-alice"}, directory.checked)
	require.Len(t, directory.registered, 1)
	assert.Equal(t, models.RegisterRequest{
		Email:      "alice@example.com",
		Password:   "dummy@123123",
		Username:   "alice",
		ExternalID: "kc-alice",
		FirstName:  "Alice",
		LastName:   "Liddell",
	}, directory.registered[0])
}

func TestIdentitySync_ExistingUserIsNotRegistered(t *testing.T) {
	directory := &fakeDirectory{existing: map[string]bool{"kc-alice": true}}
	app := newSyncApp(directory)

	got := forwardedUserID(t, app, map[string]string{
		"Authorization": "Bearer " + signedToken(t, "any-key", aliceClaims),
	})

	assert.Equal(t, "kc-alice", got)
	assert.Empty(t, directory.registered)
}

func TestIdentitySync_HeaderWinsOverSubject(t *testing.T) {
	directory := &fakeDirectory{existing: map[string]bool{"kc-header": true}}
	app := newSyncApp(directory)

	got := forwardedUserID(t, app, map[string]string{
		"Authorization": "Bearer " + signedToken(t, "any-key", aliceClaims),
		"X-User-ID":     "kc-header",
	})

	assert.Equal(t, "kc-header", got)
	assert.Equal(t, []string{"kc-header"}, directory.checked)
}

func TestIdentitySync_UnknownHeaderUserRegistersTokenSubject(t *testing.T) {
	directory := &fakeDirectory{}
	app := newSyncApp(directory)

	got := forwardedUserID(t, app, map[string]string{
		"Authorization": "Bearer " + signedToken(t, "any-key", aliceClaims),
		"X-User-ID":     "kc-header",
	})

	assert.Equal(t, "kc-header", got)
	assert.Equal(t, []string{"kc-header"}, directory.checked)
	require.Len(t, directory.registered, 1)
	assert.Equal(t, "kc-alice", directory.registered[0].ExternalID)
	assert.Equal(t, "alice@example.com", directory.registered[0].Email)
}

func TestIdentitySync_NoIdentityForwardsUnchanged(t *testing.T) {
	directory := &fakeDirectory{}
	app := newSyncApp(directory)

	assert.Equal(t, "", forwardedUserID(t, app, nil))
	assert.Empty(t, directory.checked)
}

func TestIdentitySync_HeaderWithoutTokenSkipsSync(t *testing.T) {
	directory := &fakeDirectory{}
	app := newSyncApp(directory)

	got := forwardedUserID(t, app, map[string]string{"X-User-ID": "kc-bob"})

	assert.Equal(t, "kc-bob", got)
	assert.Empty(t, directory.checked)
}

func TestIdentitySync_MalformedTokenIsNotFatal(t *testing.T) {
	directory := &fakeDirectory{}
	app := newSyncApp(directory)

	got := forwardedUserID(t, app, map[string]string{"Authorization": "Bearer not-a-jwt"})

	assert.Equal(t, "", got)
	assert.Empty(t, directory.checked)
	assert.Empty(t, directory.registered)
}

func TestIdentitySync_DirectoryFailureStillForwards(t *testing.T) {
	directory := &fakeDirectory{checkErr: errors.New("user service down")}
	app := newSyncApp(directory)

	got := forwardedUserID(t, app, map[string]string{
		"Authorization": "Bearer " + signedToken(t, "any-key", aliceClaims),
	})

	assert.Equal(t, "kc-alice", got)
	assert.Empty(t, directory.registered)
}

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	app.Use(AuthRequired("gateway-secret"))
	app.Get("/echo", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("subject").(string))
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signedToken(t, "other-secret", aliceClaims), wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + signedToken(t, "gateway-secret", aliceClaims), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/echo", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "kc-alice", string(body))
			}
		})
	}
}
