package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/ThiccTapeman/statistic.alexanderhellsten.se/pkg/util"
)

// ClientIDLocal is the fiber Locals key holding the authenticated client id.
const ClientIDLocal = "auth_client_id"

const (
	tokenQueryParam  = "token"
	bearerScheme     = "Bearer"
	authorizationHdr = "Authorization"
)

type clientIDContextKey struct{}

// TokenValidator resolves a presented token to its owning client.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (string, error)
}

// AuthMiddleware validates bearer tokens and binds the owning client id.
type AuthMiddleware struct {
	validator TokenValidator
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := ExtractToken(c)
	if err != nil {
		return err
	}

	clientID, err := m.validator.Validate(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(ClientIDLocal, clientID)
	c.SetUserContext(WithClientID(c.UserContext(), clientID))
	return c.Next()
}

// ExtractToken reads the bearer token from the Authorization header, falling
// back to the token query parameter when no header is sent. A header that is
// present but not "Bearer <value>" is rejected rather than skipped.
func ExtractToken(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(authorizationHdr))
	if header == "" {
		token := strings.TrimSpace(c.Query(tokenQueryParam))
		if token == "" {
			return "", apperrors.NewMissingToken("missing access token")
		}
		return token, nil
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", apperrors.NewMissingToken("authorization header must use the Bearer scheme")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperrors.NewMissingToken("missing access token")
	}
	return token, nil
}

// ClientIDFromContext retrieves the authenticated client id.
func ClientIDFromContext(c *fiber.Ctx) (string, bool) {
	clientID, ok := c.Locals(ClientIDLocal).(string)
	return clientID, ok && clientID != ""
}

// WithClientID stores the client id on a context.Context for code below the HTTP layer.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDContextKey{}, clientID)
}

// ClientIDFrom returns the client id bound by WithClientID.
func ClientIDFrom(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(clientIDContextKey{}).(string)
	return clientID, ok && clientID != ""
}
