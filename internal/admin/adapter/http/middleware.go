package http

import (
	"strings"
	"time"

	"agency-cms/internal/admin/domain/repository"
	"agency-cms/internal/admin/usecase"
	"agency-cms/internal/shared/httpx"
	"agency-cms/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

const claimsLocalKey = "admin"

// AuthMiddleware gates admin routes on a valid admin token
type AuthMiddleware struct {
	usecase usecase.AdminUsecaseInterface
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(uc usecase.AdminUsecaseInterface) *AuthMiddleware {
	return &AuthMiddleware{usecase: uc}
}

// RequireAdmin rejects requests without a valid admin token and stores the claims
// in fiber locals and the user context.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return httpx.Fail(c, fiber.StatusUnauthorized, "Authentication required")
		}

		claims, err := m.usecase.ValidateToken(c.UserContext(), token)
		if err != nil {
			return httpx.Fail(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}
		if !claims.IsAdmin() {
			return httpx.Fail(c, fiber.StatusForbidden, "Admin access required")
		}

		c.Locals(claimsLocalKey, claims)
		c.SetUserContext(utils.WithAdmin(c.UserContext(), claims.ID, claims.Email, claims.Name))
		return c.Next()
	}
}

// LoginRateLimiter throttles login attempts per client IP
func (m *AuthMiddleware) LoginRateLimiter(max int, window time.Duration) fiber.Handler {
	return httpx.RateLimiter(max, window, "Too many login attempts. Please try again later.")
}

// extractToken reads the Bearer header, then the token query parameter used by websocket clients
func extractToken(c *fiber.Ctx) string {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}
		return ""
	}
	return c.Query("token")
}

// ClaimsFromCtx returns the claims stored by RequireAdmin
func ClaimsFromCtx(c *fiber.Ctx) (*repository.Claims, bool) {
	claims, ok := c.Locals(claimsLocalKey).(*repository.Claims)
	return claims, ok && claims != nil
}
