package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/pricing"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TemplateService keeps sellers' saved reservation forms.
type TemplateService struct {
	templateRepo *repositories.TemplateRepo
	log          *zap.Logger
}

func NewTemplateService(templateRepo *repositories.TemplateRepo, log *zap.Logger) *TemplateService {
	return &TemplateService{templateRepo: templateRepo, log: log}
}

// TemplateRequest mirrors one reservation item without the date.
type TemplateRequest struct {
	DeliveryType  string          `json:"delivery_type"`
	ReviewType    string          `json:"review_type"`
	Quantity      int             `json:"quantity"`
	ProductName   string          `json:"product_name"`
	ProductOption string          `json:"product_option"`
	ProductPrice  decimal.Decimal `json:"product_price"`
	ProductURL    string          `json:"product_url"`
	Keywords      string          `json:"keywords"`
	ReviewGuide   string          `json:"review_guide"`
	Remarks       string          `json:"remarks"`
}

func buildTemplate(sellerID uuid.UUID, req TemplateRequest) (*models.ProductTemplate, error) {
	t := &models.ProductTemplate{
		SellerID:      sellerID,
		DeliveryType:  strings.TrimSpace(req.DeliveryType),
		ReviewType:    strings.TrimSpace(req.ReviewType),
		Quantity:      req.Quantity,
		ProductName:   strings.TrimSpace(req.ProductName),
		ProductOption: strings.TrimSpace(req.ProductOption),
		ProductPrice:  req.ProductPrice.String(),
		ProductURL:    strings.TrimSpace(req.ProductURL),
		Keywords:      strings.TrimSpace(req.Keywords),
		ReviewGuide:   req.ReviewGuide,
		Remarks:       req.Remarks,
	}
	if t.ProductName == "" {
		return nil, invalid("product_name is required")
	}
	// Тип можно оставить пустым, но заданная пара должна продаваться
	if t.DeliveryType != "" || t.ReviewType != "" {
		if !pricing.IsOffered(pricing.DeliveryType(t.DeliveryType), pricing.ReviewType(t.ReviewType)) {
			return nil, invalid("%s/%s is not offered", t.DeliveryType, t.ReviewType)
		}
	}
	if t.Quantity < 0 {
		return nil, invalid("quantity must not be negative")
	}
	if req.ProductPrice.IsNegative() {
		return nil, invalid("product_price must not be negative")
	}
	return t, nil
}

func (s *TemplateService) List(ctx context.Context, sellerID uuid.UUID, search string) ([]models.ProductTemplate, error) {
	return s.templateRepo.List(ctx, sellerID, strings.TrimSpace(search))
}

// Save creates a template or overwrites the one with the same product_url and product_option.
func (s *TemplateService) Save(ctx context.Context, sellerID uuid.UUID, req TemplateRequest) (*models.ProductTemplate, error) {
	t, err := buildTemplate(sellerID, req)
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.Upsert(ctx, t); err != nil {
		return nil, err
	}
	s.log.Debug("template saved", zap.String("seller_id", sellerID.String()), zap.String("template_id", t.ID.String()))
	return t, nil
}

func (s *TemplateService) Update(ctx context.Context, sellerID, id uuid.UUID, req TemplateRequest) (*models.ProductTemplate, error) {
	t, err := buildTemplate(sellerID, req)
	if err != nil {
		return nil, err
	}
	t.ID = id
	if err := s.templateRepo.Update(ctx, t); err != nil {
		if cerr := conflict(err, "template for this product_url and product_option"); errors.Is(cerr, ErrConflict) {
			return nil, cerr
		}
		return nil, notFound(err, "template")
	}
	return t, nil
}

// Delete removes the seller's templates among ids. Foreign ids are skipped.
func (s *TemplateService) Delete(ctx context.Context, sellerID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("ids are required")
	}
	n, err := s.templateRepo.DeleteMany(ctx, sellerID, ids)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("template: %w", ErrNotFound)
	}
	return n, nil
}
