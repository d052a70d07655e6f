package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/http/dto"
	"github.com/hellopiggy/backend/internal/middleware"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/hellopiggy/backend/internal/services"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
	log           *zap.Logger
}

func NewReviewHandler(reviewService *services.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, log: log}
}

// CreateReview is the public submission endpoint.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	var rv models.Review
	if err := c.BodyParser(&rv); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.reviewService.Create(c.UserContext(), &rv); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.IDResponse{ID: rv.ID.String()})
}

func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	filter := repositories.ReviewFilter{
		Status: queryString(c, "status"),
		Limit:  queryInt(c, "limit", 0),
		Offset: queryInt(c, "offset", 0),
	}

	reviews, err := h.reviewService.List(c.UserContext(), filter)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(reviews)
}

// GetReview accepts either the row id or the secondary uuid_review.
func (h *ReviewHandler) GetReview(c *fiber.Ctx) error {
	rv, err := h.reviewService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(rv)
}

func (h *ReviewHandler) MyReviews(c *fiber.Ctx) error {
	reviews, err := h.reviewService.ListMine(c.UserContext(), middleware.GetUID(c))
	if err != nil {
		return serviceError(c, h.log, err)
	}
	out := make([]fiber.Map, 0, len(reviews))
	for i := range reviews {
		out = append(out, fiber.Map{"review": reviews[i], "display_status": reviews[i].DisplayStatus()})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: out})
}

func (h *ReviewHandler) ConfirmImages(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid review id")
	}
	var req dto.ConfirmImagesRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	rv, err := h.reviewService.ConfirmImages(c.UserContext(), middleware.GetUID(c), id, req.URLs)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: rv})
}

func (h *ReviewHandler) Resubmit(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid review id")
	}
	var rv models.Review
	if err := c.BodyParser(&rv); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	rv.ID = id

	if err := h.reviewService.Resubmit(c.UserContext(), middleware.GetUID(c), &rv); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *ReviewHandler) Verify(c *fiber.Ctx) error {
	var req dto.IDsRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	res, err := h.reviewService.Verify(c.UserContext(), middleware.GetUID(c), req.IDs)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: res})
}

func (h *ReviewHandler) Settle(c *fiber.Ctx) error {
	var req dto.IDsRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	res, err := h.reviewService.Settle(c.UserContext(), middleware.GetUID(c), req.IDs)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: res})
}

func (h *ReviewHandler) Reject(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid review id")
	}
	var req dto.RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.reviewService.Reject(c.UserContext(), middleware.GetUID(c), id, req.Reason); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *ReviewHandler) Settlements(c *fiber.Ctx) error {
	reviews, err := h.reviewService.Settlements(c.UserContext(), c.Query("status"))
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: reviews})
}
