package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/capacity"
	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/events"
	"github.com/hellopiggy/backend/internal/metrics"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/pricing"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CampaignService struct {
	campaignRepo *repositories.CampaignRepo
	capacityRepo *repositories.CapacityRepo
	sellerRepo   *repositories.SellerRepo
	productRepo  *repositories.ProductRepo
	auditRepo    *repositories.AuditRepo
	settings     *SettingsService
	publisher    events.Publisher
	cfg          *config.Config
	log          *zap.Logger
	now          func() time.Time
}

func NewCampaignService(
	campaignRepo *repositories.CampaignRepo,
	capacityRepo *repositories.CapacityRepo,
	sellerRepo *repositories.SellerRepo,
	productRepo *repositories.ProductRepo,
	auditRepo *repositories.AuditRepo,
	settings *SettingsService,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		capacityRepo: capacityRepo,
		sellerRepo:   sellerRepo,
		productRepo:  productRepo,
		auditRepo:    auditRepo,
		settings:     settings,
		publisher:    publisher,
		cfg:          cfg,
		log:          log,
		now:          time.Now,
	}
}

// CampaignItem is one row of a seller's reservation form.
type CampaignItem struct {
	Date          string          `json:"date"`
	DeliveryType  string          `json:"delivery_type"`
	ReviewType    string          `json:"review_type"`
	Quantity      int             `json:"quantity"`
	ProductPrice  decimal.Decimal `json:"product_price"`
	ProductName   string          `json:"product_name"`
	ProductOption string          `json:"product_option"`
	ProductURL    string          `json:"product_url"`
	Keywords      string          `json:"keywords"`
	ReviewGuide   string          `json:"review_guide"`
	Remarks       string          `json:"remarks"`
	ProductID     *uuid.UUID      `json:"product_id,omitempty"`
}

type ReserveRequest struct {
	Items      []CampaignItem `json:"items"`
	VATApplied bool           `json:"is_vat_applied"`
	UseDeposit bool           `json:"use_deposit"`
}

type ReserveResult struct {
	Campaigns []models.Campaign  `json:"campaigns"`
	Quote     pricing.BatchQuote `json:"quote"`
}

// quoteInputs validates form rows and converts them to pricing inputs dated in loc.
func quoteInputs(items []CampaignItem, loc *time.Location) ([]pricing.QuoteInput, error) {
	if len(items) == 0 {
		return nil, invalid("at least one campaign is required")
	}
	out := make([]pricing.QuoteInput, 0, len(items))
	for i, it := range items {
		day, err := time.ParseInLocation(capacity.DateLayout, it.Date, loc)
		if err != nil {
			return nil, invalid("item %d: date must be YYYY-MM-DD", i+1)
		}
		d, r := pricing.DeliveryType(it.DeliveryType), pricing.ReviewType(it.ReviewType)
		if !pricing.IsOffered(d, r) {
			return nil, invalid("item %d: %s/%s is not offered", i+1, it.DeliveryType, it.ReviewType)
		}
		if it.Quantity <= 0 {
			return nil, invalid("item %d: quantity must be positive", i+1)
		}
		if it.ProductPrice.IsNegative() {
			return nil, invalid("item %d: product_price must not be negative", i+1)
		}
		out = append(out, pricing.QuoteInput{
			DeliveryType: d,
			ReviewType:   r,
			ProductPrice: it.ProductPrice,
			Quantity:     it.Quantity,
			Date:         day,
		})
	}
	return out, nil
}

// snapshot writes the pricing result onto a campaign row.
func snapshot(c *models.Campaign, q pricing.Quote) {
	c.ReviewFee = q.ReviewFee
	c.ProductPriceWithAgencyFee = q.ProductPriceWithAgencyFee.String()
	c.Subtotal = q.Subtotal
	c.VAT = q.VAT
	c.FinalTotalAmount = q.FinalTotal
	c.ItemTotal = q.ItemTotal().String()
}

// Quote prices a reservation without writing anything.
func (s *CampaignService) Quote(ctx context.Context, sellerID uuid.UUID, req ReserveRequest) (*pricing.BatchQuote, error) {
	inputs, err := quoteInputs(req.Items, s.cfg.Location())
	if err != nil {
		return nil, err
	}
	deposit := decimal.Zero
	if req.UseDeposit {
		if deposit, err = s.sellerRepo.Deposit(ctx, s.campaignRepo.Pool(), sellerID, false); err != nil {
			return nil, notFound(err, "seller")
		}
	}
	q := pricing.ComputeBatch(inputs, req.VATApplied, deposit, req.UseDeposit)
	return &q, nil
}

// checkDays refuses closed days and same-day bookings after the cutoff.
func (s *CampaignService) checkDays(ctx context.Context, q repositories.Querier, inputs []pricing.QuoteInput) error {
	rs, err := s.settings.Reservation(ctx)
	if err != nil {
		return err
	}
	loc := s.cfg.Location()
	now := s.now()
	today := capacity.DayKey(now, loc)

	seen := map[string]bool{}
	for _, in := range inputs {
		key := capacity.DayKey(in.Date, loc)
		if seen[key] {
			continue
		}
		seen[key] = true

		if key < today {
			return invalid("%s is in the past", key)
		}
		if !capacity.SameDayAllowed(now, in.Date, rs.AllowSameDay, s.cfg.SameDayCutoff, loc) {
			return fmt.Errorf("%w: %v", ErrValidation, capacity.ErrSameDayLimit)
		}

		capDay, bookings, err := s.dayState(ctx, q, in.Date)
		if err != nil {
			return err
		}
		if !capacity.Open(capDay, capacity.Remainder(capDay, bookings, key, loc)) {
			metrics.CapacityRejections.WithLabelValues("reserve").Inc()
			return fmt.Errorf("%w: %s: %v", ErrCapacityExceeded, key, capacity.ErrDayClosed)
		}
	}
	return nil
}

func (s *CampaignService) dayState(ctx context.Context, q repositories.Querier, day time.Time) (int, []capacity.Booking, error) {
	d := dateOnly(day, s.cfg.Location())
	capDay, err := s.capacityRepo.Get(ctx, q, d)
	if err != nil {
		return 0, nil, err
	}
	rows, err := s.campaignRepo.Bookings(ctx, q, d, d.AddDate(0, 0, 1))
	if err != nil {
		return 0, nil, err
	}
	return capDay, s.toBookings(rows), nil
}

func (s *CampaignService) toBookings(rows []repositories.BookingRow) []capacity.Booking {
	loc := s.cfg.Location()
	out := make([]capacity.Booking, 0, len(rows))
	for _, r := range rows {
		out = append(out, capacity.Booking{
			Date:      time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, loc),
			Quantity:  r.Quantity,
			Confirmed: r.Status == models.CampaignStatusConfirmed,
			SellerID:  r.SellerID.String(),
		})
	}
	return out
}

// dateOnly converts an instant to the DATE value of its calendar day in loc.
func dateOnly(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.UTC)
}

// Reserve creates pending campaigns for a seller, optionally paying from the deposit.
func (s *CampaignService) Reserve(ctx context.Context, sellerID uuid.UUID, req ReserveRequest) (*ReserveResult, error) {
	// 1. Валидация и расчёт
	loc := s.cfg.Location()
	inputs, err := quoteInputs(req.Items, loc)
	if err != nil {
		return nil, err
	}

	result := &ReserveResult{}
	err = repositories.WithTx(ctx, s.campaignRepo.Pool(), func(tx pgx.Tx) error {
		// 2. Проверяем дни: прошлое, same-day, заполненность
		if err := s.checkDays(ctx, tx, inputs); err != nil {
			return err
		}

		// 3. Депозит: блокируем строку продавца и списываем min(total, deposit)
		deposit := decimal.Zero
		if req.UseDeposit {
			if deposit, err = s.sellerRepo.Deposit(ctx, tx, sellerID, true); err != nil {
				return notFound(err, "seller")
			}
		}
		quote := pricing.ComputeBatch(inputs, req.VATApplied, deposit, req.UseDeposit)
		if quote.DepositUsed > 0 {
			debit := decimal.Min(decimal.NewFromInt(quote.DepositUsed), deposit)
			if _, err := s.sellerRepo.AdjustDeposit(ctx, tx, sellerID, debit.Neg()); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return ErrInsufficientDeposit
				}
				return err
			}
		}

		// 4. Создаём кампании со снимком цены
		paid := quote.RemainingPayment <= 0
		for i, it := range req.Items {
			c := &models.Campaign{
				SellerID:        sellerID,
				ProductID:       it.ProductID,
				Date:            dateOnly(inputs[i].Date, loc),
				DeliveryType:    it.DeliveryType,
				ReviewType:      it.ReviewType,
				Quantity:        it.Quantity,
				ProductName:     strings.TrimSpace(it.ProductName),
				ProductOption:   it.ProductOption,
				ProductPrice:    it.ProductPrice.String(),
				ProductURL:      it.ProductURL,
				Keywords:        it.Keywords,
				ReviewGuide:     it.ReviewGuide,
				Remarks:         it.Remarks,
				Status:          models.CampaignStatusPending,
				PaymentReceived: paid,
				PaymentType:     pricing.PaymentTypeFor(req.VATApplied),
				IsVATApplied:    req.VATApplied,
			}
			snapshot(c, quote.Items[i])
			if err := s.campaignRepo.Create(ctx, tx, c); err != nil {
				return err
			}
			result.Campaigns = append(result.Campaigns, *c)
		}
		result.Quote = quote
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CampaignsReserved.Add(float64(len(result.Campaigns)))
	actorID := sellerID.String()
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "seller",
		Action:     "campaigns_reserved",
		EntityType: "campaign",
		Meta: map[string]any{
			"count":        len(result.Campaigns),
			"total":        result.Quote.TotalAmount,
			"deposit_used": result.Quote.DepositUsed,
		},
	})

	nickname := ""
	if seller, err := s.sellerRepo.GetByID(ctx, sellerID); err == nil {
		nickname = seller.Nickname
	}
	_ = s.publisher.Publish(ctx, events.ChannelCampaign, events.Event{
		Type: events.EventCampaignReserved,
		Payload: map[string]any{
			"seller_id":       actorID,
			"seller_nickname": nickname,
			"count":           len(result.Campaigns),
			"total":           result.Quote.TotalAmount,
		},
	})
	return result, nil
}

func (s *CampaignService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Campaign, error) {
	c, err := s.campaignRepo.GetByID(ctx, s.campaignRepo.Pool(), id, false)
	if err != nil {
		return nil, notFound(err, "campaign")
	}
	if !actor.Admin && c.SellerID.String() != actor.ID {
		return nil, fmt.Errorf("campaign: %w", ErrNotFound)
	}
	return c, nil
}

// History returns the audit trail of a campaign, newest first.
func (s *CampaignService) History(ctx context.Context, id uuid.UUID) ([]models.AuditLog, error) {
	return s.auditRepo.GetByEntity(ctx, "campaign", id.String(), 100, 0)
}

func (s *CampaignService) List(ctx context.Context, actor Actor, f repositories.CampaignFilter) ([]models.CampaignWithSeller, error) {
	if !actor.Admin {
		sellerID, err := uuid.Parse(actor.ID)
		if err != nil {
			return nil, ErrForbidden
		}
		f.SellerID = &sellerID
	}
	return s.campaignRepo.List(ctx, f)
}

// MonthRange parses YYYY-MM into [first day, first day of next month).
func MonthRange(month string) (time.Time, time.Time, error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("month must be YYYY-MM")
	}
	return first, first.AddDate(0, 1, 0), nil
}

type CampaignPatch struct {
	DeliveryType *string `json:"delivery_type"`
	ReviewType   *string `json:"review_type"`
	Quantity     *int    `json:"quantity"`
}

// UpdateItem edits a pending campaign and reprices it.
func (s *CampaignService) UpdateItem(ctx context.Context, actor Actor, id uuid.UUID, patch CampaignPatch) (*models.Campaign, error) {
	var updated *models.Campaign
	err := repositories.WithTx(ctx, s.campaignRepo.Pool(), func(tx pgx.Tx) error {
		c, err := s.campaignRepo.GetByID(ctx, tx, id, true)
		if err != nil {
			return notFound(err, "campaign")
		}
		if !actor.Admin && c.SellerID.String() != actor.ID {
			return fmt.Errorf("campaign: %w", ErrNotFound)
		}
		if c.Status != models.CampaignStatusPending && !actor.Admin {
			return fmt.Errorf("%w: only pending campaigns can be edited", ErrInvalidTransition)
		}
		if c.Status == models.CampaignStatusSellerFaultCancel {
			return fmt.Errorf("%w: cancelled campaign", ErrInvalidTransition)
		}

		if patch.DeliveryType != nil {
			c.DeliveryType = *patch.DeliveryType
		}
		if patch.ReviewType != nil {
			c.ReviewType = *patch.ReviewType
		}
		if patch.Quantity != nil {
			c.Quantity = *patch.Quantity
		}

		price, err := decimal.NewFromString(c.ProductPrice)
		if err != nil {
			return err
		}
		inputs, err := quoteInputs([]CampaignItem{{
			Date:         c.Date.Format(capacity.DateLayout),
			DeliveryType: c.DeliveryType,
			ReviewType:   c.ReviewType,
			Quantity:     c.Quantity,
			ProductPrice: price,
		}}, s.cfg.Location())
		if err != nil {
			return err
		}
		in := inputs[0]
		in.VATApplied = c.IsVATApplied

		// Подтверждённая кампания не может вылезти за лимит дня
		if c.Status == models.CampaignStatusConfirmed && patch.Quantity != nil {
			if err := s.checkConfirm(ctx, tx, c, c.Quantity); err != nil {
				return err
			}
		}

		snapshot(c, pricing.Compute(in))
		if err := s.campaignRepo.UpdatePricing(ctx, tx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// checkConfirm locks the day's capacity row and verifies qty more units fit.
// The campaign itself is excluded from the booked sum.
func (s *CampaignService) checkConfirm(ctx context.Context, tx pgx.Tx, c *models.Campaign, qty int) error {
	capDay, err := s.capacityRepo.Lock(ctx, tx, c.Date)
	if err != nil {
		return err
	}
	rows, err := s.campaignRepo.Bookings(ctx, tx, c.Date, c.Date.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	others := rows[:0]
	for _, r := range rows {
		if r.ID != c.ID {
			others = append(others, r)
		}
	}
	loc := s.cfg.Location()
	day := time.Date(c.Date.Year(), c.Date.Month(), c.Date.Day(), 0, 0, 0, 0, loc)
	booked := capacity.Booked(s.toBookings(others), capacity.DayKey(day, loc), loc)
	if err := capacity.CheckConfirm(capDay, booked, qty, s.cfg.CapacityEnforced); err != nil {
		metrics.CapacityRejections.WithLabelValues("confirm").Inc()
		return fmt.Errorf("%w: %s booked %d of %d", ErrCapacityExceeded, day.Format(capacity.DateLayout), booked, capDay)
	}
	return nil
}

// ChangeStatus moves a campaign along the transition table. Confirming
// serializes on the day's capacity row.
func (s *CampaignService) ChangeStatus(ctx context.Context, actorID string, id uuid.UUID, to string) (*models.Campaign, error) {
	if to == models.CampaignStatusSellerFaultCancel {
		return nil, invalid("use cancel-seller-fault to cancel a campaign")
	}

	var c *models.Campaign
	var from string
	err := repositories.WithTx(ctx, s.campaignRepo.Pool(), func(tx pgx.Tx) error {
		var err error
		c, err = s.campaignRepo.GetByID(ctx, tx, id, true)
		if err != nil {
			return notFound(err, "campaign")
		}
		from = c.Status
		if !models.IsValidCampaignTransition(from, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}

		confirmedAt := c.ConfirmedAt
		switch to {
		case models.CampaignStatusConfirmed:
			if err := s.checkConfirm(ctx, tx, c, c.Quantity); err != nil {
				return err
			}
			if from == models.CampaignStatusPending || confirmedAt == nil {
				now := s.now()
				confirmedAt = &now
			}
		case models.CampaignStatusPending:
			confirmedAt = nil
		}

		ok, err := s.campaignRepo.UpdateStatus(ctx, tx, id, from, to, confirmedAt)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		c.Status = to
		c.ConfirmedAt = confirmedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	if to == models.CampaignStatusConfirmed && from == models.CampaignStatusPending {
		metrics.CampaignsConfirmed.Inc()
	}
	s.afterStatus(ctx, actorID, c, from, events.EventCampaignStatusChanged, nil)
	return c, nil
}

func (s *CampaignService) afterStatus(ctx context.Context, actorID string, c *models.Campaign, from, eventType string, extra map[string]any) {
	entityID := c.ID.String()
	meta := map[string]any{"old_status": from, "new_status": c.Status}
	for k, v := range extra {
		meta[k] = v
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "admin",
		Action:     fmt.Sprintf("campaign_status_%s_to_%s", from, c.Status),
		EntityType: "campaign",
		EntityID:   &entityID,
		Meta:       meta,
	})

	payload := map[string]any{
		"campaign_id": entityID,
		"seller_id":   c.SellerID.String(),
		"date":        c.Date.Format(capacity.DateLayout),
		"old_status":  from,
		"new_status":  c.Status,
	}
	for k, v := range extra {
		payload[k] = v
	}
	_ = s.publisher.Publish(ctx, events.ChannelCampaign, events.Event{Type: eventType, Payload: payload})
}

type CancelResult struct {
	Campaign *models.Campaign `json:"campaign"`
	Refund   string           `json:"refund"`
	Deposit  string           `json:"deposit"`
}

// CancelSellerFault cancels cancelQty units (0 = all) and credits the product price back to the deposit.
func (s *CampaignService) CancelSellerFault(ctx context.Context, actorID string, id uuid.UUID, cancelQty int) (*CancelResult, error) {
	var res CancelResult
	var from string
	err := repositories.WithTx(ctx, s.campaignRepo.Pool(), func(tx pgx.Tx) error {
		c, err := s.campaignRepo.GetByID(ctx, tx, id, true)
		if err != nil {
			return notFound(err, "campaign")
		}
		from = c.Status
		if !models.IsValidCampaignTransition(from, models.CampaignStatusSellerFaultCancel) {
			return fmt.Errorf("%w: %s is final", ErrInvalidTransition, from)
		}
		if cancelQty == 0 {
			cancelQty = c.Quantity
		}
		if cancelQty < 0 || cancelQty > c.Quantity {
			return invalid("cancel quantity must be between 1 and %d", c.Quantity)
		}

		price, err := decimal.NewFromString(c.ProductPrice)
		if err != nil {
			return err
		}
		refund := pricing.CancelRefund(price, cancelQty)
		deposit, err := s.sellerRepo.AdjustDeposit(ctx, tx, c.SellerID, refund)
		if err != nil {
			return notFound(err, "seller")
		}

		remaining := c.Quantity - cancelQty
		if remaining > 0 {
			itemTotal, err := decimal.NewFromString(c.ItemTotal)
			if err != nil {
				return err
			}
			q := pricing.Compute(pricing.QuoteInput{
				DeliveryType: pricing.DeliveryType(c.DeliveryType),
				ReviewType:   pricing.ReviewType(c.ReviewType),
				ProductPrice: price,
				Quantity:     remaining,
				Date:         time.Date(c.Date.Year(), c.Date.Month(), c.Date.Day(), 0, 0, 0, 0, s.cfg.Location()),
				VATApplied:   c.IsVATApplied,
			})
			snapshot(c, q)
			c.Quantity = remaining
			c.ItemTotal = pricing.RemainingItemTotal(itemTotal, price, remaining+cancelQty, remaining).String()
			if err := s.campaignRepo.UpdatePricing(ctx, tx, c); err != nil {
				return err
			}
		} else {
			ok, err := s.campaignRepo.UpdateStatus(ctx, tx, c.ID, from, models.CampaignStatusSellerFaultCancel, c.ConfirmedAt)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInvalidTransition
			}
			c.Status = models.CampaignStatusSellerFaultCancel
		}

		res = CancelResult{Campaign: c, Refund: refund.String(), Deposit: deposit.String()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterStatus(ctx, actorID, res.Campaign, from, events.EventCampaignCancelled, map[string]any{
		"cancel_quantity": cancelQty,
		"refund":          res.Refund,
	})
	return &res, nil
}

// SetPaymentReceived marks campaigns paid or unpaid. Sellers may only touch their own.
func (s *CampaignService) SetPaymentReceived(ctx context.Context, actor Actor, ids []uuid.UUID, received bool) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("ids are required")
	}
	var sellerID *uuid.UUID
	if !actor.Admin {
		id, err := uuid.Parse(actor.ID)
		if err != nil {
			return 0, ErrForbidden
		}
		sellerID = &id
	}
	return s.campaignRepo.SetPaymentReceived(ctx, ids, sellerID, received)
}

// applyPaymentType sets the payment kind on c. The VAT flag and amounts are
// part of the reservation quote and are left alone.
func applyPaymentType(c *models.Campaign, paymentType string) error {
	if paymentType != pricing.PaymentCashReceipt && paymentType != pricing.PaymentFree {
		return invalid("payment_type must be %s or %s", pricing.PaymentCashReceipt, pricing.PaymentFree)
	}
	c.PaymentType = paymentType
	return nil
}

// SetPaymentType switches the payment kind and mirrors it onto the linked product.
func (s *CampaignService) SetPaymentType(ctx context.Context, actorID string, id uuid.UUID, paymentType string) error {
	if err := applyPaymentType(&models.Campaign{}, paymentType); err != nil {
		return err
	}
	err := repositories.WithTx(ctx, s.campaignRepo.Pool(), func(tx pgx.Tx) error {
		c, err := s.campaignRepo.GetByID(ctx, tx, id, true)
		if err != nil {
			return notFound(err, "campaign")
		}
		if err := applyPaymentType(c, paymentType); err != nil {
			return err
		}
		if err := s.campaignRepo.SetPaymentType(ctx, tx, id, c.PaymentType); err != nil {
			return err
		}
		if c.ProductID != nil {
			return s.productRepo.SetReviewType(ctx, tx, *c.ProductID, paymentType)
		}
		return nil
	})
	if err != nil {
		return err
	}

	entityID := id.String()
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "admin",
		Action:     "campaign_payment_type_updated",
		EntityType: "campaign",
		EntityID:   &entityID,
		Meta:       map[string]any{"payment_type": paymentType},
	})
	return nil
}

func (s *CampaignService) Delete(ctx context.Context, sellerID, id uuid.UUID) error {
	ok, err := s.campaignRepo.Delete(ctx, id, sellerID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("campaign (or already confirmed): %w", ErrNotFound)
	}
	return nil
}

// Calendar returns the daily capacity summary for a month. Sellers do not see
// the per-seller breakdown.
func (s *CampaignService) Calendar(ctx context.Context, actor Actor, month string) ([]capacity.DaySummary, error) {
	from, to, err := MonthRange(month)
	if err != nil {
		return nil, err
	}
	caps, err := s.capacityRepo.Range(ctx, from, to)
	if err != nil {
		return nil, err
	}
	rows, err := s.campaignRepo.Bookings(ctx, s.campaignRepo.Pool(), from, to)
	if err != nil {
		return nil, err
	}
	names := map[string]string{}
	if actor.Admin {
		if names, err = s.sellerRepo.Nicknames(ctx); err != nil {
			return nil, err
		}
	}

	days := capacity.Summarize(from, caps, s.toBookings(rows), names, s.cfg.Location())
	if !actor.Admin {
		for i := range days {
			days[i].BySeller = nil
		}
	}
	return days, nil
}

func (s *CampaignService) SetCapacity(ctx context.Context, actorID, date string, value int) error {
	day, err := time.Parse(capacity.DateLayout, date)
	if err != nil {
		return invalid("date must be YYYY-MM-DD")
	}
	if value < 0 {
		return invalid("capacity must not be negative")
	}
	if err := s.capacityRepo.Set(ctx, day, value); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "admin",
		Action:     "capacity_set",
		EntityType: "capacity",
		EntityID:   &date,
		Meta:       map[string]any{"capacity": value},
	})
	_ = s.publisher.Publish(ctx, events.ChannelCampaign, events.Event{
		Type:    events.EventCapacityChanged,
		Payload: map[string]any{"date": date, "capacity": value},
	})
	return nil
}
