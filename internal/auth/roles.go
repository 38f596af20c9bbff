package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/ThiccTapeman/statistic.alexanderhellsten.se/pkg/util"
)

// AdminKeyHeader carries the operator key for client registration.
const AdminKeyHeader = "X-Admin-Key"

// RequireClient ensures a client id was bound by AuthMiddleware.
func RequireClient() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := ClientIDFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdminKey guards operator endpoints with a shared key.
func RequireAdminKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		presented := c.Get(AdminKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
			return apperrors.NewUnauthorized("invalid admin key")
		}
		return c.Next()
	}
}

// EnsureClientMatch rejects a payload that names a different client than the token.
// An empty claimed id is accepted.
func EnsureClientMatch(c *fiber.Ctx, claimed string) (string, error) {
	clientID, ok := ClientIDFromContext(c)
	if !ok {
		return "", apperrors.NewUnauthorized("authentication required")
	}
	if claimed != "" && claimed != clientID {
		return "", apperrors.NewClientMismatch()
	}
	return clientID, nil
}
