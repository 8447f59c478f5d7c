// Package middleware provides Fiber middleware shared by the web routes.
package middleware

import (
	"strings"

	"github.com/devdibi/dondoc/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userIDKey = "userID"

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success":      false,
		"errorMessage": msg,
		"httpStatus":   fiber.StatusUnauthorized,
	})
}

// JwtProtected returns middleware that requires a valid bearer token and
// stores the caller's user id in the request locals.
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		tokenString, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || tokenString == "" {
			return unauthorized(c, "missing or malformed token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Secret), nil
		})
		if err != nil || !token.Valid {
			return unauthorized(c, "invalid or expired token")
		}

		sub, err := token.Claims.GetSubject()
		if err != nil {
			return unauthorized(c, "token has no subject")
		}
		userID, err := uuid.Parse(sub)
		if err != nil || userID == uuid.Nil {
			return unauthorized(c, "token subject is not a user id")
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated caller's id set by JwtProtected.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(userIDKey).(uuid.UUID)
	return id, ok
}
