package utils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"storefront/backend/models"
)

// BearerToken returns the token from an "Authorization: Bearer ..." header.
// A bare token without the scheme is accepted too.
func BearerToken(c *fiber.Ctx) string {
	h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

// ParseIdentity verifies an identity provider token and reads its claims.
// The role lives in public_metadata.role; a top level "role" claim is used
// when the metadata is absent.
func ParseIdentity(tokenString, secret string) (*models.Identity, error) {
	if tokenString == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid subject in token")
	}

	id := &models.Identity{Subject: sub, Token: tokenString, Role: models.RoleStudent}
	id.Name, _ = claims["name"].(string)
	id.Email, _ = claims["email"].(string)
	if meta, ok := claims["public_metadata"].(map[string]interface{}); ok {
		if role, ok := meta["role"].(string); ok && role != "" {
			id.Role = role
		}
	} else if role, ok := claims["role"].(string); ok && role != "" {
		id.Role = role
	}
	return id, nil
}
