package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/events"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/pricing"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type TrafficService struct {
	trafficRepo *repositories.TrafficRepo
	sellerRepo  *repositories.SellerRepo
	auditRepo   *repositories.AuditRepo
	publisher   events.Publisher
	cfg         *config.Config
	log         *zap.Logger
	now         func() time.Time
}

func NewTrafficService(
	trafficRepo *repositories.TrafficRepo,
	sellerRepo *repositories.SellerRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *TrafficService {
	return &TrafficService{
		trafficRepo: trafficRepo,
		sellerRepo:  sellerRepo,
		auditRepo:   auditRepo,
		publisher:   publisher,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// Catalog returns traffic packages with their discounted price filled in.
func (s *TrafficService) Catalog(ctx context.Context) ([]models.TrafficProduct, error) {
	products, err := s.trafficRepo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].SalePrice = pricing.SalePrice(products[i].RetailPrice, products[i].DiscountRate)
	}
	return products, nil
}

func validateCatalog(products []models.TrafficProduct) error {
	for i, p := range products {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Category) == "" {
			return invalid("row %d: category and name are required", i+1)
		}
		if p.RetailPrice < 0 {
			return invalid("row %d: retail_price must not be negative", i+1)
		}
		if p.DiscountRate < 0 || p.DiscountRate >= 1 {
			return invalid("row %d: discount_rate must be in [0, 1)", i+1)
		}
	}
	return nil
}

// ReplaceCatalog swaps the whole catalog in one transaction.
func (s *TrafficService) ReplaceCatalog(ctx context.Context, actorID string, products []models.TrafficProduct) ([]models.TrafficProduct, error) {
	if err := validateCatalog(products); err != nil {
		return nil, err
	}
	err := repositories.WithTx(ctx, s.trafficRepo.Pool(), func(tx pgx.Tx) error {
		return s.trafficRepo.ReplaceProducts(ctx, tx, products)
	})
	if err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "admin",
		Action:     "traffic_catalog_replaced",
		EntityType: "traffic_product",
		Meta:       map[string]any{"count": len(products)},
	})
	for i := range products {
		products[i].SalePrice = pricing.SalePrice(products[i].RetailPrice, products[i].DiscountRate)
	}
	return products, nil
}

type TrafficItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type TrafficOrder struct {
	Items      []TrafficItem `json:"items"`
	UseDeposit bool          `json:"use_deposit"`
}

type TrafficOrderResult struct {
	Requests    []models.TrafficRequest `json:"requests"`
	Total       int64                   `json:"total"`
	DepositUsed int64                   `json:"deposit_used"`
	Remaining   int64                   `json:"remaining_payment"`
}

// Order creates unconfirmed traffic requests for a seller, optionally paid from the deposit.
func (s *TrafficService) Order(ctx context.Context, sellerID uuid.UUID, order TrafficOrder) (*TrafficOrderResult, error) {
	if len(order.Items) == 0 {
		return nil, invalid("at least one traffic package is required")
	}

	loc := s.cfg.Location()
	local := s.now().In(loc)
	requestDate := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	start, end := pricing.TrafficWindow(requestDate)

	// 1. Собираем заявки по каталогу
	requests := make([]models.TrafficRequest, 0, len(order.Items))
	var total int64
	for i, it := range order.Items {
		if it.Quantity <= 0 {
			return nil, invalid("item %d: quantity must be positive", i+1)
		}
		p, err := s.trafficRepo.GetProduct(ctx, it.ProductID)
		if err != nil {
			return nil, notFound(err, "traffic product")
		}
		sale := pricing.SalePrice(p.RetailPrice, p.DiscountRate)
		q := pricing.ComputeTraffic(sale, it.Quantity)
		total += q.FinalItemAmount
		requests = append(requests, models.TrafficRequest{
			SellerID:        sellerID,
			Category:        p.Category,
			Name:            p.Name,
			Description:     p.Description,
			SalePrice:       sale,
			Quantity:        it.Quantity,
			RequestDate:     requestDate,
			StartDate:       start,
			EndDate:         end,
			Status:          models.TrafficStatusUnconfirmed,
			ItemTotal:       q.ItemTotal,
			FinalItemAmount: q.FinalItemAmount,
		})
	}

	result := &TrafficOrderResult{Total: total}
	err := repositories.WithTx(ctx, s.trafficRepo.Pool(), func(tx pgx.Tx) error {
		// 2. Депозит
		if order.UseDeposit {
			deposit, err := s.sellerRepo.Deposit(ctx, tx, sellerID, true)
			if err != nil {
				return notFound(err, "seller")
			}
			used := decimal.Min(decimal.NewFromInt(total), deposit).Floor()
			if used.IsPositive() {
				if _, err := s.sellerRepo.AdjustDeposit(ctx, tx, sellerID, used.Neg()); err != nil {
					if errors.Is(err, pgx.ErrNoRows) {
						return ErrInsufficientDeposit
					}
					return err
				}
				result.DepositUsed = used.IntPart()
			}
		}
		result.Remaining = total - result.DepositUsed

		// 3. Сохраняем
		for i := range requests {
			requests[i].PaymentReceived = result.Remaining <= 0
			if err := s.trafficRepo.CreateRequest(ctx, tx, &requests[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Requests = requests

	actorID := sellerID.String()
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "seller",
		Action:     "traffic_requested",
		EntityType: "traffic_request",
		Meta:       map[string]any{"count": len(requests), "total": total, "deposit_used": result.DepositUsed},
	})
	_ = s.publisher.Publish(ctx, events.ChannelTraffic, events.Event{
		Type:    events.EventTrafficRequested,
		Payload: map[string]any{"seller_id": actorID, "count": len(requests), "total": total},
	})
	return result, nil
}

func (s *TrafficService) List(ctx context.Context, actor Actor, f repositories.TrafficFilter) ([]models.TrafficRequest, error) {
	if !actor.Admin {
		sellerID, err := uuid.Parse(actor.ID)
		if err != nil {
			return nil, ErrForbidden
		}
		f.SellerID = &sellerID
	}
	return s.trafficRepo.ListRequests(ctx, f)
}

func (s *TrafficService) SetPaymentReceived(ctx context.Context, sellerID, id uuid.UUID, received bool) error {
	ok, err := s.trafficRepo.SetPaymentReceived(ctx, id, sellerID, received)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("traffic request: %w", ErrNotFound)
	}
	return nil
}

// SetDeposit records the admin's deposit check. Confirming moves the request to
// 예약 확정; unchecking only clears the flag.
func (s *TrafficService) SetDeposit(ctx context.Context, actorID string, id uuid.UUID, confirmed bool) (*models.TrafficRequest, error) {
	var t *models.TrafficRequest
	var from string
	err := repositories.WithTx(ctx, s.trafficRepo.Pool(), func(tx pgx.Tx) error {
		var err error
		t, err = s.trafficRepo.GetRequest(ctx, tx, id, true)
		if err != nil {
			return notFound(err, "traffic request")
		}
		from = t.Status

		status := t.Status
		var confirmedAt *time.Time
		if confirmed && t.Status != models.TrafficStatusConfirmed {
			if !models.IsValidTrafficTransition(t.Status, models.TrafficStatusConfirmed) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, models.TrafficStatusConfirmed)
			}
			status = models.TrafficStatusConfirmed
			now := s.now()
			confirmedAt = &now
			t.ConfirmedAt = confirmedAt
		}
		if err := s.trafficRepo.SetDeposit(ctx, tx, id, confirmed, status, confirmedAt); err != nil {
			return err
		}
		t.DepositConfirmed = confirmed
		t.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	entityID := id.String()
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "admin",
		Action:     "traffic_deposit_set",
		EntityType: "traffic_request",
		EntityID:   &entityID,
		Meta:       map[string]any{"confirmed": confirmed, "old_status": from, "new_status": t.Status},
	})
	if from != t.Status {
		_ = s.publisher.Publish(ctx, events.ChannelTraffic, events.Event{
			Type: events.EventTrafficConfirmed,
			Payload: map[string]any{
				"traffic_id": entityID,
				"seller_id":  t.SellerID.String(),
				"name":       t.Name,
			},
		})
	}
	return t, nil
}
