package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/metrics"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/pricing"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/jaevor/go-nanoid"
	"go.uber.org/zap"
)

type ProductService struct {
	productRepo *repositories.ProductRepo
	linkRepo    *repositories.LinkRepo
	auditRepo   *repositories.AuditRepo
	cfg         *config.Config
	log         *zap.Logger
	newLinkID   func() string
}

func NewProductService(
	productRepo *repositories.ProductRepo,
	linkRepo *repositories.LinkRepo,
	auditRepo *repositories.AuditRepo,
	cfg *config.Config,
	log *zap.Logger,
) (*ProductService, error) {
	gen, err := nanoid.Standard(21)
	if err != nil {
		return nil, err
	}
	return &ProductService{
		productRepo: productRepo,
		linkRepo:    linkRepo,
		auditRepo:   auditRepo,
		cfg:         cfg,
		log:         log,
		newLinkID:   gen,
	}, nil
}

func validateProduct(p *models.Product) error {
	if p.ProductName == "" {
		return invalid("product_name is required")
	}
	if p.ProgressStatus == "" {
		p.ProgressStatus = models.ProgressBefore
	}
	if !models.IsValidProgressStatus(p.ProgressStatus) {
		return invalid("unknown progress_status %q", p.ProgressStatus)
	}
	if p.ReviewType != "" && p.ReviewType != pricing.PaymentCashReceipt && p.ReviewType != pricing.PaymentFree {
		return invalid("unknown review_type %q", p.ReviewType)
	}
	if p.ProductType != "" && p.ProductType != string(pricing.DeliveryOnSite) && p.ProductType != string(pricing.DeliveryEmptyBox) {
		return invalid("unknown product_type %q", p.ProductType)
	}
	if p.Quantity < 0 {
		return invalid("quantity must not be negative")
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, actorID string, p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return err
	}
	s.audit(ctx, actorID, "product_created", p.ID)
	return nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, f repositories.ProductFilter) ([]models.Product, error) {
	return s.productRepo.List(ctx, f)
}

func (s *ProductService) Update(ctx context.Context, actorID string, p *models.Product) error {
	if _, err := s.Get(ctx, p.ID); err != nil {
		return err
	}
	if err := validateProduct(p); err != nil {
		return err
	}
	if err := s.productRepo.Update(ctx, p); err != nil {
		return err
	}
	s.audit(ctx, actorID, "product_updated", p.ID)
	return nil
}

func (s *ProductService) Delete(ctx context.Context, actorID string, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actorID, "product_deleted", id)
	return nil
}

// BulkUpdate sets review_type, product_type or progress_status on many products.
func (s *ProductService) BulkUpdate(ctx context.Context, actorID string, ids []uuid.UUID, field, value string) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("ids are required")
	}
	sample := &models.Product{ProductName: "-", ProgressStatus: models.ProgressBefore}
	switch field {
	case "review_type":
		sample.ReviewType = value
	case "product_type":
		sample.ProductType = value
	case "progress_status":
		sample.ProgressStatus = value
	default:
		return 0, invalid("field %q cannot be bulk updated", field)
	}
	if err := validateProduct(sample); err != nil {
		return 0, err
	}

	n, err := s.productRepo.BulkUpdateField(ctx, ids, field, value)
	if err != nil {
		return 0, err
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "admin",
		Action:     "products_bulk_updated",
		EntityType: "product",
		Meta:       map[string]any{"field": field, "value": value, "count": n},
	})
	return n, nil
}

// StartDueProducts flips products scheduled for today (service timezone) to in-progress.
func (s *ProductService) StartDueProducts(ctx context.Context, now time.Time) (int, error) {
	local := now.In(s.cfg.Location())
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	ids, err := s.productRepo.StartDue(ctx, day)
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		metrics.ProductsStarted.Add(float64(len(ids)))
		s.log.Info("products started", zap.Int("count", len(ids)), zap.String("day", day.Format("2006-01-02")))
	}
	return len(ids), nil
}

func (s *ProductService) audit(ctx context.Context, actorID, action string, id uuid.UUID) {
	entityID := id.String()
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "admin",
		Action:     action,
		EntityType: "product",
		EntityID:   &entityID,
	})
}

// Links

func (s *ProductService) CreateLink(ctx context.Context, actorID string, l *models.Link) error {
	if l.ProductID != nil {
		if _, err := s.Get(ctx, *l.ProductID); err != nil {
			return err
		}
	}
	l.ID = s.newLinkID()
	l.GeneratedLink = fmt.Sprintf("%s/link/%s", s.cfg.PublicBaseURL, l.ID)
	if err := s.linkRepo.Create(ctx, l); err != nil {
		return err
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "admin",
		Action:     "link_created",
		EntityType: "link",
		EntityID:   &l.ID,
	})
	return nil
}

// LinkForm is what the public review form needs to render a link.
type LinkForm struct {
	Link    *models.Link    `json:"link"`
	Product *models.Product `json:"product,omitempty"`
}

func (s *ProductService) GetLink(ctx context.Context, id string) (*LinkForm, error) {
	l, err := s.linkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "link")
	}
	form := &LinkForm{Link: l}
	if l.ProductID != nil {
		if p, err := s.productRepo.GetByID(ctx, *l.ProductID); err == nil {
			form.Product = p
		}
	}
	return form, nil
}

func (s *ProductService) ListLinks(ctx context.Context) ([]models.Link, error) {
	return s.linkRepo.List(ctx)
}

func (s *ProductService) DeleteLink(ctx context.Context, actorID, id string) error {
	ok, err := s.linkRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("link: %w", ErrNotFound)
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "admin",
		Action:     "link_deleted",
		EntityType: "link",
		EntityID:   &id,
	})
	return nil
}
