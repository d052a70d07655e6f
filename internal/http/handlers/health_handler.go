package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/http/dto"
)

func Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok", TS: time.Now().UnixMilli()})
}
