package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/pricing"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/shopspring/decimal"
)

func TestQuoteInputs_Validation(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	ok := CampaignItem{Date: "2024-06-02", DeliveryType: "실배송", ReviewType: "별점", Quantity: 1, ProductPrice: decimal.NewFromInt(10000)}

	tests := []struct {
		name   string
		mutate func(*CampaignItem)
	}{
		{"bad date", func(it *CampaignItem) { it.Date = "2024/06/02" }},
		{"not offered", func(it *CampaignItem) { it.DeliveryType = "빈박스"; it.ReviewType = "포토" }},
		{"unknown delivery", func(it *CampaignItem) { it.DeliveryType = "택배" }},
		{"zero quantity", func(it *CampaignItem) { it.Quantity = 0 }},
		{"negative price", func(it *CampaignItem) { it.ProductPrice = decimal.NewFromInt(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := ok
			tt.mutate(&it)
			if _, err := quoteInputs([]CampaignItem{ok, it}, loc); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	if _, err := quoteInputs(nil, loc); !errors.Is(err, ErrValidation) {
		t.Errorf("empty batch: expected ErrValidation, got %v", err)
	}

	inputs, err := quoteInputs([]CampaignItem{ok}, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inputs[0].Date.Weekday() != time.Sunday || inputs[0].Date.Location() != loc {
		t.Errorf("date parsed as %v", inputs[0].Date)
	}
	if inputs[0].DeliveryType != pricing.DeliveryOnSite || inputs[0].Quantity != 1 {
		t.Errorf("unexpected input %+v", inputs[0])
	}
}

func TestSnapshot_SundayCampaign(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	q := pricing.Compute(pricing.QuoteInput{
		DeliveryType: pricing.DeliveryOnSite,
		ReviewType:   pricing.ReviewStarRating,
		ProductPrice: decimal.NewFromInt(10000),
		Quantity:     2,
		Date:         time.Date(2024, 6, 2, 0, 0, 0, 0, loc),
	})

	var c models.Campaign
	snapshot(&c, q)

	if c.ReviewFee != 2200 {
		t.Errorf("ReviewFee = %d, want 2200", c.ReviewFee)
	}
	if c.ProductPriceWithAgencyFee != "11000" {
		t.Errorf("ProductPriceWithAgencyFee = %s, want 11000", c.ProductPriceWithAgencyFee)
	}
	if c.Subtotal != 26400 || c.VAT != 0 || c.FinalTotalAmount != 26400 {
		t.Errorf("totals = %d/%d/%d, want 26400/0/26400", c.Subtotal, c.VAT, c.FinalTotalAmount)
	}
	if c.ItemTotal != "26400" {
		t.Errorf("ItemTotal = %s, want 26400", c.ItemTotal)
	}
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	got := dateOnly(time.Date(2024, 6, 2, 23, 30, 0, 0, time.UTC), loc)
	want := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("dateOnly = %v, want %v", got, want)
	}
}

func TestMonthRange(t *testing.T) {
	from, to, err := MonthRange("2024-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from.Format("2006-01-02") != "2024-02-01" || to.Format("2006-01-02") != "2024-03-01" {
		t.Errorf("range = %v..%v", from, to)
	}
	if _, _, err := MonthRange("2024-13"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestToBookings_KeepsCalendarDay(t *testing.T) {
	s := &CampaignService{cfg: &config.Config{Timezone: "Asia/Seoul"}}
	seller := uuid.New()
	rows := []repositories.BookingRow{
		{ID: uuid.New(), SellerID: seller, Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Quantity: 5, Status: models.CampaignStatusConfirmed},
		{ID: uuid.New(), SellerID: seller, Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Quantity: 7, Status: models.CampaignStatusPending},
	}

	got := s.toBookings(rows)
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	loc := s.cfg.Location()
	if key := got[0].Date.In(loc).Format("2006-01-02"); key != "2024-06-03" {
		t.Errorf("day key = %s, want 2024-06-03", key)
	}
	if !got[0].Confirmed || got[1].Confirmed {
		t.Errorf("confirmed flags = %v/%v", got[0].Confirmed, got[1].Confirmed)
	}
	if got[0].SellerID != seller.String() {
		t.Errorf("seller id = %s", got[0].SellerID)
	}
}

func TestValidateCatalog(t *testing.T) {
	tests := []struct {
		name    string
		product models.TrafficProduct
		wantErr bool
	}{
		{"valid", models.TrafficProduct{Category: "검색", Name: "키워드 유입", RetailPrice: 100000, DiscountRate: 0.3}, false},
		{"missing name", models.TrafficProduct{Category: "검색", RetailPrice: 100}, true},
		{"negative price", models.TrafficProduct{Category: "검색", Name: "x", RetailPrice: -1}, true},
		{"full discount", models.TrafficProduct{Category: "검색", Name: "x", RetailPrice: 100, DiscountRate: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCatalog([]models.TrafficProduct{tt.product})
			if (err != nil) != tt.wantErr {
				t.Errorf("validateCatalog() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyPaymentType_KeepsQuote(t *testing.T) {
	c := models.Campaign{
		PaymentType:      pricing.PaymentFree,
		IsVATApplied:     false,
		Subtotal:         24000,
		VAT:              0,
		FinalTotalAmount: 24000,
	}

	if err := applyPaymentType(&c, pricing.PaymentCashReceipt); err != nil {
		t.Fatalf("applyPaymentType: %v", err)
	}
	if c.PaymentType != pricing.PaymentCashReceipt {
		t.Errorf("PaymentType = %q, want %q", c.PaymentType, pricing.PaymentCashReceipt)
	}
	if c.IsVATApplied || c.VAT != 0 || c.Subtotal != 24000 || c.FinalTotalAmount != 24000 {
		t.Errorf("quote changed: vat_applied=%v vat=%d subtotal=%d total=%d", c.IsVATApplied, c.VAT, c.Subtotal, c.FinalTotalAmount)
	}

	if err := applyPaymentType(&c, "카드"); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown payment type error = %v, want ErrValidation", err)
	}
	if c.PaymentType != pricing.PaymentCashReceipt {
		t.Errorf("rejected type must not be applied, got %q", c.PaymentType)
	}
}
