package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/http/dto"
	"github.com/hellopiggy/backend/internal/middleware"
	"github.com/hellopiggy/backend/internal/services"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
	log         *zap.Logger
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg, log: log}
}

func (h *AuthHandler) ReviewerLogin(c *fiber.Ctx) error {
	var req dto.ReviewerLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Phone == "" {
		return fail(c, fiber.StatusBadRequest, "name and phone are required")
	}

	session, err := h.authService.ReviewerLogin(c.UserContext(), req.Name, req.Phone)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(session)
}

func (h *AuthHandler) SellerSignup(c *fiber.Ctx) error {
	var req services.SellerSignup
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.authService.SignupSeller(c.UserContext(), req)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *AuthHandler) SellerLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.authService.SellerLogin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(session)
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.authService.AdminLogin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(session)
}

// Me echoes the caller's identity as the API sees it.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	a := actor(c, h.cfg)
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"uid":   a.ID,
		"role":  a.Role,
		"admin": a.Admin,
		"email": claims.Email,
	}})
}
