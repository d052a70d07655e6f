package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/events"
	"github.com/hellopiggy/backend/internal/metrics"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewService struct {
	reviewRepo *repositories.ReviewRepo
	auditRepo  *repositories.AuditRepo
	publisher  events.Publisher
	log        *zap.Logger
}

func NewReviewService(
	reviewRepo *repositories.ReviewRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		auditRepo:  auditRepo,
		publisher:  publisher,
		log:        log,
	}
}

// Create stores a review submitted through the public form.
func (s *ReviewService) Create(ctx context.Context, rv *models.Review) error {
	if err := validateReview(rv); err != nil {
		return err
	}
	rv.Status = models.ReviewStatusSubmitted
	rv.RejectionReason = nil

	if err := s.reviewRepo.Create(ctx, rv); err != nil {
		return conflict(err, "review with this uuid_review")
	}
	metrics.ReviewsSubmitted.Inc()

	_ = s.publisher.Publish(ctx, events.ChannelReview, events.Event{
		Type: events.EventReviewSubmitted,
		Payload: map[string]any{
			"review_id":    rv.ID.String(),
			"product_name": rv.ProductName,
		},
	})
	return nil
}

func validateReview(rv *models.Review) error {
	rv.Name = strings.TrimSpace(rv.Name)
	rv.PhoneNumber = strings.TrimSpace(rv.PhoneNumber)
	if rv.Name == "" || rv.PhoneNumber == "" {
		return invalid("name and phone_number are required")
	}
	if rv.UUIDReview != nil && strings.TrimSpace(*rv.UUIDReview) == "" {
		rv.UUIDReview = nil
	}
	return nil
}

// Get resolves a review by row id, falling back to the secondary uuid_review id.
func (s *ReviewService) Get(ctx context.Context, id string) (*models.Review, error) {
	if parsed, err := uuid.Parse(id); err == nil {
		rv, err := s.reviewRepo.GetByID(ctx, parsed)
		if err == nil {
			return rv, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	rv, err := s.reviewRepo.GetByUUIDReview(ctx, id)
	if err != nil {
		return nil, notFound(err, "review")
	}
	return rv, nil
}

func (s *ReviewService) List(ctx context.Context, f repositories.ReviewFilter) ([]models.Review, error) {
	return s.reviewRepo.List(ctx, f)
}

func (s *ReviewService) ListMine(ctx context.Context, uid string) ([]models.Review, error) {
	return s.reviewRepo.List(ctx, repositories.ReviewFilter{MainAccountID: &uid})
}

// ConfirmImages lets a reviewer attach post-publication screenshots to their review.
func (s *ReviewService) ConfirmImages(ctx context.Context, uid string, id uuid.UUID, urls []string) (*models.Review, error) {
	if len(urls) == 0 {
		return nil, invalid("at least one image url is required")
	}
	rv, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "review")
	}
	if rv.MainAccountID == nil || *rv.MainAccountID != uid {
		return nil, ErrForbidden
	}
	if !models.IsValidReviewTransition(rv.Status, models.ReviewStatusReviewCompleted) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rv.Status, models.ReviewStatusReviewCompleted)
	}

	ok, err := s.reviewRepo.ConfirmImages(ctx, id, uid, rv.Status, urls, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}
	s.publishStatus(ctx, rv, models.ReviewStatusReviewCompleted)
	return s.reviewRepo.GetByID(ctx, id)
}

// Resubmit replaces a rejected review's content and puts it back in the queue.
func (s *ReviewService) Resubmit(ctx context.Context, uid string, rv *models.Review) error {
	existing, err := s.reviewRepo.GetByID(ctx, rv.ID)
	if err != nil {
		return notFound(err, "review")
	}
	if existing.MainAccountID == nil || *existing.MainAccountID != uid {
		return ErrForbidden
	}
	if !models.IsValidReviewTransition(existing.Status, models.ReviewStatusSubmitted) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, models.ReviewStatusSubmitted)
	}
	if err := validateReview(rv); err != nil {
		return err
	}
	if rv.ImageURLs == nil {
		rv.ImageURLs = existing.ImageURLs
	}
	rv.MainAccountID = &uid

	ok, err := s.reviewRepo.Resubmit(ctx, rv)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}
	s.publishStatus(ctx, existing, models.ReviewStatusSubmitted)
	return nil
}

// transition validates and performs a status transition with audit logging.
func (s *ReviewService) transition(ctx context.Context, actorID string, id uuid.UUID, to string, reason *string) error {
	rv, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "review")
	}
	if !models.IsValidReviewTransition(rv.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rv.Status, to)
	}

	ok, err := s.reviewRepo.Transition(ctx, id, rv.Status, to, reason, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}

	entityID := id.String()
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "admin",
		Action:     fmt.Sprintf("review_status_%s_to_%s", rv.Status, to),
		EntityType: "review",
		EntityID:   &entityID,
		Meta:       map[string]any{"old_status": rv.Status, "new_status": to, "reason": reason},
	})
	s.publishStatus(ctx, rv, to)
	return nil
}

func (s *ReviewService) publishStatus(ctx context.Context, rv *models.Review, to string) {
	_ = s.publisher.Publish(ctx, events.ChannelReview, events.Event{
		Type: events.EventReviewStatusChanged,
		Payload: map[string]any{
			"review_id":  rv.ID.String(),
			"old_status": rv.Status,
			"new_status": to,
		},
	})
}

// BatchResult reports per-id outcomes of a bulk admin action.
type BatchResult struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed,omitempty"`
}

func (s *ReviewService) batch(ctx context.Context, actorID string, ids []uuid.UUID, to string) (*BatchResult, error) {
	if len(ids) == 0 {
		return nil, invalid("ids are required")
	}
	res := &BatchResult{Updated: []string{}, Failed: map[string]string{}}
	for _, id := range ids {
		if err := s.transition(ctx, actorID, id, to, nil); err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidTransition) {
				res.Failed[id.String()] = err.Error()
				continue
			}
			return nil, err
		}
		res.Updated = append(res.Updated, id.String())
	}
	return res, nil
}

func (s *ReviewService) Verify(ctx context.Context, actorID string, ids []uuid.UUID) (*BatchResult, error) {
	return s.batch(ctx, actorID, ids, models.ReviewStatusVerified)
}

func (s *ReviewService) Settle(ctx context.Context, actorID string, ids []uuid.UUID) (*BatchResult, error) {
	return s.batch(ctx, actorID, ids, models.ReviewStatusSettled)
}

func (s *ReviewService) Reject(ctx context.Context, actorID string, id uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return invalid("reason is required")
	}
	return s.transition(ctx, actorID, id, models.ReviewStatusRejected, &reason)
}

// Settlements lists reviews awaiting or past settlement.
func (s *ReviewService) Settlements(ctx context.Context, status string) ([]models.Review, error) {
	f := repositories.ReviewFilter{}
	switch status {
	case "":
		f.Statuses = []string{models.ReviewStatusVerified, models.ReviewStatusSettled}
	case models.ReviewStatusVerified, models.ReviewStatusSettled:
		f.Status = &status
	default:
		return nil, invalid("status must be verified or settled")
	}
	return s.reviewRepo.List(ctx, f)
}
