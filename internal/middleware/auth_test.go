package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/auth"
	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/rbac"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	log := zap.NewNop()
	ok := func(c *fiber.Ctx) error { return c.SendString(GetUID(c)) }

	app.Get("/me", AuthMiddleware(cfg, log), ok)
	app.Get("/admin", AuthMiddleware(cfg, log), AdminMiddleware(cfg), ok)
	app.Get("/seller", AuthMiddleware(cfg, log), RequirePermission(cfg, rbac.PermReserveCampaign), ok)
	return app
}

func token(t *testing.T, cfg *config.Config, claims auth.Claims) string {
	t.Helper()
	s, err := auth.GenerateJWT(cfg.JWTSecret, claims, time.Hour)
	require.NoError(t, err)
	return "Bearer " + s
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret", AdminEmails: []string{"ops@example.com"}}
	app := testApp(cfg)

	reviewer := token(t, cfg, auth.Claims{UID: "kim_0101", Role: rbac.RoleReviewer})
	seller := token(t, cfg, auth.Claims{UID: "seller-1", Role: rbac.RoleSeller, Email: "s@example.com"})
	adminClaim := token(t, cfg, auth.Claims{UID: "root", Role: rbac.RoleAdmin, Admin: true})
	allowListed := token(t, cfg, auth.Claims{UID: "ops", Email: "ops@example.com"})
	sellerWithAdminEmail := token(t, cfg, auth.Claims{UID: "seller-2", Role: rbac.RoleSeller, Email: "ops@example.com"})
	noRole := token(t, cfg, auth.Claims{UID: "ext", Admin: true})
	unknownRole := token(t, cfg, auth.Claims{UID: "x", Role: "superuser"})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/me", "", fiber.StatusUnauthorized},
		{"no bearer prefix", "/me", "Token abc", fiber.StatusUnauthorized},
		{"garbage token", "/me", "Bearer abc", fiber.StatusUnauthorized},
		{"valid token", "/me", reviewer, fiber.StatusOK},
		{"token without role", "/me", noRole, fiber.StatusOK},
		{"unknown role", "/me", unknownRole, fiber.StatusUnauthorized},
		{"admin route without claim", "/admin", seller, fiber.StatusForbidden},
		{"admin route missing header", "/admin", "", fiber.StatusUnauthorized},
		{"admin claim", "/admin", adminClaim, fiber.StatusOK},
		{"allow-listed email", "/admin", allowListed, fiber.StatusOK},
		{"seller with allow-listed email", "/admin", sellerWithAdminEmail, fiber.StatusForbidden},
		{"seller perm as reviewer", "/seller", reviewer, fiber.StatusForbidden},
		{"seller perm as seller", "/seller", seller, fiber.StatusOK},
		{"seller perm as admin", "/seller", adminClaim, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuthMiddleware_StoresUID(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret"}
	app := testApp(cfg)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", token(t, cfg, auth.Claims{UID: "kim_0101", Role: rbac.RoleReviewer}))
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, "kim_0101", string(body))
}

func TestRequestIDMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(RequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
