package middleware

import (
	"context"
	"fmt"
	"log"

	"fitness/internal/handlers"
	"fitness/internal/models"
	"fitness/internal/observability"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
)

// UserDirectory is the part of the user service the gateway talks to.
type UserDirectory interface {
	ValidateUser(ctx context.Context, userID string) (bool, error)
	Register(ctx context.Context, request models.RegisterRequest) (*models.User, error)
}

type identityClaims struct {
	Subject   string
	Email     string
	Username  string
	FirstName string
	LastName  string
}

// IdentitySync links the identity-provider account behind a bearer token to a
// local user and forwards the resolved id in the X-User-ID header.
//
// The token is decoded without checking its signature; AuthRequired does that
// when a secret is configured. An X-User-ID header sent by the client wins over
// the token subject for the existence check and the forwarded header; a new
// user is always registered from the token claims, subject included.
// Unreadable tokens and directory failures never fail the request: it is
// forwarded and the failure logged.
func IdentitySync(directory UserDirectory, placeholderPassword string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get(handlers.UserIDHeader)
		tokenString := bearerToken(c.Get(fiber.HeaderAuthorization))

		var claims *identityClaims
		if tokenString != "" {
			parsed, err := parseIdentityClaims(tokenString)
			if err != nil {
				log.Printf("Could not read bearer token, forwarding without identity: %v", err)
				observability.RecordIdentitySync("error")
				return c.Next()
			}
			claims = parsed
			if userID == "" {
				userID = claims.Subject
			}
		}

		if userID == "" {
			observability.RecordIdentitySync("anonymous")
			return c.Next()
		}

		if claims != nil {
			syncUser(c.UserContext(), directory, userID, claims, placeholderPassword)
		}

		c.Request().Header.Set(handlers.UserIDHeader, userID)
		return c.Next()
	}
}

func syncUser(ctx context.Context, directory UserDirectory, userID string, claims *identityClaims, placeholderPassword string) {
	exists, err := directory.ValidateUser(ctx, userID)
	if err != nil {
		log.Printf("Identity sync: could not check user %s: %v", userID, err)
		observability.RecordIdentitySync("error")
		return
	}
	if exists {
		log.Printf("Identity sync: user %s already exists, skipping sync", userID)
		observability.RecordIdentitySync("existing")
		return
	}

	user, err := directory.Register(ctx, models.RegisterRequest{
		Email:      claims.Email,
		Password:   placeholderPassword,
		Username:   claims.Username,
		ExternalID: claims.Subject,
		FirstName:  claims.FirstName,
		LastName:   claims.LastName,
	})
	if err != nil {
		log.Printf("Identity sync: could not register user %s: %v", userID, err)
		observability.RecordIdentitySync("error")
		return
	}
	log.Printf("Identity sync: registered user %s for external id %s", user.ID, claims.Subject)
	observability.RecordIdentitySync("registered")
}

func parseIdentityClaims(tokenString string) (*identityClaims, error) {
	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", token.Claims)
	}

	return &identityClaims{
		Subject:   stringClaim(claims, "sub"),
		Email:     stringClaim(claims, "email"),
		Username:  stringClaim(claims, "preferred_username"),
		FirstName: stringClaim(claims, "given_name"),
		LastName:  stringClaim(claims, "family_name"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	value, _ := claims[name].(string)
	return value
}
