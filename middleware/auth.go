package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"livecaption/api-gateway/utils"
)

// UserIDKey is the fiber.Ctx locals key holding the authenticated user's id.
const UserIDKey = "userID"

// RequireAuth validates the Bearer token and stores the user id in locals.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Missing authorization header")
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == header {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Authorization header must be a Bearer token")
		}

		userID, err := ParseToken(raw, secret)
		if err != nil {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// ParseToken verifies an HS256 token and extracts the user id claim.
func ParseToken(raw, secret string) (uuid.UUID, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	id, ok := claims["id"].(string)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	return uuid.Parse(id)
}
