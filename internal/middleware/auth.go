package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/auth"
	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/rbac"
	"go.uber.org/zap"
)

const (
	CtxClaims = "claims"
	CtxUID    = "uid"
)

func AuthMiddleware(cfg *config.Config, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader || tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		// Токены внешнего провайдера могут прийти без роли
		if claims.Role != "" && !rbac.IsValidRole(claims.Role) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unknown role"})
		}

		c.Locals(CtxClaims, claims)
		c.Locals(CtxUID, claims.UID)

		return c.Next()
	}
}

func GetClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(CtxClaims).(*auth.Claims)
	return claims
}

func GetUID(c *fiber.Ctx) string {
	uid, _ := c.Locals(CtxUID).(string)
	return uid
}

// AdminMiddleware requires an admin claim or an allow-listed email
func AdminMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !auth.IsAdmin(GetClaims(c), cfg.AdminEmails) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		}
		return c.Next()
	}
}

// RequirePermission checks the caller's role against the rbac table.
func RequirePermission(cfg *config.Config, perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := GetClaims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
		if auth.IsAdmin(claims, cfg.AdminEmails) || rbac.HasPermission(claims.Role, perm) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}
}
