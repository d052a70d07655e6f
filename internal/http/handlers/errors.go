package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/auth"
	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/http/dto"
	"github.com/hellopiggy/backend/internal/middleware"
	"github.com/hellopiggy/backend/internal/services"
	"go.uber.org/zap"
)

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
}

// serviceError maps service sentinels to HTTP statuses. Unknown errors are logged and hidden.
func serviceError(c *fiber.Ctx, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return fail(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrConflict):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInsufficientDeposit):
		return fail(c, fiber.StatusPaymentRequired, err.Error())
	}

	reqID := middleware.GetRequestID(c)
	log.Error("request failed",
		zap.String("path", c.Path()),
		zap.String("request_id", reqID),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal", RequestID: reqID})
}

func actor(c *fiber.Ctx, cfg *config.Config) services.Actor {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return services.Actor{}
	}
	return services.Actor{
		ID:    claims.UID,
		Role:  claims.Role,
		Admin: auth.IsAdmin(claims, cfg.AdminEmails),
	}
}

// sellerID is the caller's uid as a seller row id.
func sellerID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(middleware.GetUID(c))
	return id, err == nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func queryInt(c *fiber.Ctx, name string, def int) int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func queryString(c *fiber.Ctx, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}
