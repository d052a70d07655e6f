package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/http/dto"
	"github.com/hellopiggy/backend/internal/metrics"
	"github.com/hellopiggy/backend/internal/rankparser"
	"go.uber.org/zap"
)

type RankHandler struct {
	parser *rankparser.Parser
	log    *zap.Logger
}

func NewRankHandler(parser *rankparser.Parser, log *zap.Logger) *RankHandler {
	return &RankHandler{parser: parser, log: log}
}

func (h *RankHandler) Search(c *fiber.Ctx) error {
	var req dto.RankSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Keyword = strings.TrimSpace(req.Keyword)
	if req.Keyword == "" || req.ProductURL == "" {
		return fail(c, fiber.StatusBadRequest, "keyword and product_url are required")
	}

	res, err := h.parser.Search(c.UserContext(), req.Keyword, req.ProductURL)
	if err != nil {
		if errors.Is(err, rankparser.ErrInvalidProductURL) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		metrics.RankSearches.WithLabelValues(rankparser.StatusError).Inc()
		h.log.Warn("rank search failed", zap.String("keyword", req.Keyword), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(rankparser.Result{Status: rankparser.StatusError, Message: err.Error()})
	}

	metrics.RankSearches.WithLabelValues(res.Status).Inc()
	return c.JSON(res)
}
