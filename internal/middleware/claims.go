package middleware

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// IdempotencyHeader carries the client-generated key for POST /orders.
const IdempotencyHeader = "Idempotency-Key"

// Principal extracts the token identity stored by the JWT middleware.
func Principal(c *fiber.Ctx) (services.Principal, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil || !token.Valid {
		return services.Principal{}, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return services.Principal{}, false
	}

	var p services.Principal
	p.ID, _ = claims["sub"].(string)
	p.Email, _ = claims["email"].(string)
	p.Role, _ = claims["role"].(string)
	return p, p.ID != "" || p.Email != ""
}

// Actor is the performedBy value for audit entries: the token's email,
// then the adminEmail sent in the body. Empty means anonymous.
func Actor(c *fiber.Ctx, adminEmail string) string {
	if p, ok := Principal(c); ok && p.Email != "" {
		return p.Email
	}
	return adminEmail
}
