package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/LaGGgggg/SkyLibrary/internal/model"
	"github.com/LaGGgggg/SkyLibrary/internal/service"
)

// Locals keys set by RequireAuth.
const (
	localsUserID = "auth.userId"
	localsRole   = "auth.role"
)

// RequireAuth verifies the bearer token and stores the caller's identity in
// request locals.
func RequireAuth(auth *service.AuthService) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Missing bearer token")
		}

		claims, userID, err := auth.Parse(token)
		if err != nil {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Invalid or expired token")
		}

		c.Locals(localsUserID, userID)
		c.Locals(localsRole, claims.Role)
		return c.Next()
	}
}

// RequireModerator rejects callers below the moderator role. Must run after
// RequireAuth.
func RequireModerator() fiber.Handler {
	return func(c fiber.Ctx) error {
		if Role(c) < model.RoleModerator {
			return ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Moderator role required")
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's ID, or 0 for anonymous requests.
func UserID(c fiber.Ctx) int64 {
	if id, ok := c.Locals(localsUserID).(int64); ok {
		return id
	}
	return 0
}

// Role returns the authenticated user's role, or 0 for anonymous requests.
func Role(c fiber.Ctx) int {
	if role, ok := c.Locals(localsRole).(int); ok {
		return role
	}
	return 0
}
