package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var (
	sunday = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	monday = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
)

func TestBaseFee(t *testing.T) {
	tests := []struct {
		delivery DeliveryType
		review   ReviewType
		expected int64
	}{
		{DeliveryOnSite, ReviewStarRating, 1600},
		{DeliveryOnSite, ReviewText, 1700},
		{DeliveryOnSite, ReviewPhoto, 1800},
		{DeliveryOnSite, ReviewPremiumPhoto, 4000},
		{DeliveryOnSite, ReviewPremiumVideo, 5000},
		{DeliveryEmptyBox, ReviewStarRating, 5400},
		{DeliveryEmptyBox, ReviewText, 5400},

		// Not offered
		{DeliveryEmptyBox, ReviewPhoto, 0},
		{DeliveryEmptyBox, ReviewPremiumVideo, 0},
		{DeliveryOnSite, "nonexistent", 0},
		{"nonexistent", ReviewStarRating, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.delivery)+"/"+string(tt.review), func(t *testing.T) {
			if got := BaseFee(tt.delivery, tt.review); got != tt.expected {
				t.Errorf("BaseFee(%q, %q) = %d, want %d", tt.delivery, tt.review, got, tt.expected)
			}
		})
	}
}

func TestReviewTypesForMatchFeeTable(t *testing.T) {
	for _, d := range []DeliveryType{DeliveryOnSite, DeliveryEmptyBox} {
		for _, r := range ReviewTypesFor(d) {
			if !IsOffered(d, r) {
				t.Errorf("%q/%q listed but has no fee", d, r)
			}
		}
	}
}

func TestSundaySurcharge(t *testing.T) {
	if sunday.Weekday() != time.Sunday || monday.Weekday() != time.Monday {
		t.Fatal("fixture dates are wrong")
	}

	base := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC) // Monday
	for i := 0; i < 7; i++ {
		day := base.AddDate(0, 0, i)
		fee := ReviewFee(DeliveryOnSite, ReviewStarRating, day)
		want := int64(1600)
		if day.Weekday() == time.Sunday {
			want += 600
		}
		if fee != want {
			t.Errorf("%s: ReviewFee = %d, want %d", day.Weekday(), fee, want)
		}
	}
}

func TestComputeWorkedExample(t *testing.T) {
	q := Compute(QuoteInput{
		DeliveryType: DeliveryOnSite,
		ReviewType:   ReviewStarRating,
		ProductPrice: decimal.NewFromInt(10000),
		Quantity:     3,
		Date:         sunday,
		VATApplied:   true,
	})

	if q.ReviewFee != 2200 {
		t.Errorf("ReviewFee = %d, want 2200", q.ReviewFee)
	}
	if !q.ProductPriceWithAgencyFee.Equal(decimal.NewFromInt(11000)) {
		t.Errorf("ProductPriceWithAgencyFee = %s, want 11000", q.ProductPriceWithAgencyFee)
	}
	if q.Subtotal != 39600 {
		t.Errorf("Subtotal = %d, want 39600", q.Subtotal)
	}
	if q.VAT != 3960 {
		t.Errorf("VAT = %d, want 3960", q.VAT)
	}
	if q.FinalTotal != 43560 {
		t.Errorf("FinalTotal = %d, want 43560", q.FinalTotal)
	}
}

func TestComputeRounding(t *testing.T) {
	tests := []struct {
		name     string
		price    int64
		vat      bool
		subtotal int64
		vatAmt   int64
		total    int64
	}{
		// unit = 1600 + 10998.9 = 12598.9; ×3 = 37796.7; ×1.1 = 41576.37
		{"vat", 9999, true, 37797, 3780, 41576},
		{"no vat", 9999, false, 37797, 0, 37797},
		{"zero price", 0, false, 4800, 0, 4800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Compute(QuoteInput{
				DeliveryType: DeliveryOnSite,
				ReviewType:   ReviewStarRating,
				ProductPrice: decimal.NewFromInt(tt.price),
				Quantity:     3,
				Date:         monday,
				VATApplied:   tt.vat,
			})
			if q.Subtotal != tt.subtotal || q.VAT != tt.vatAmt || q.FinalTotal != tt.total {
				t.Errorf("got subtotal=%d vat=%d total=%d, want %d/%d/%d",
					q.Subtotal, q.VAT, q.FinalTotal, tt.subtotal, tt.vatAmt, tt.total)
			}
		})
	}
}

func TestVATMultipliesExactly(t *testing.T) {
	in := QuoteInput{
		DeliveryType: DeliveryEmptyBox,
		ReviewType:   ReviewText,
		ProductPrice: decimal.NewFromInt(20000),
		Quantity:     5,
		Date:         monday,
	}
	without := Compute(in)
	in.VATApplied = true
	with := Compute(in)

	// (5400 + 22000) × 5 = 137000
	if without.FinalTotal != 137000 {
		t.Fatalf("pre-VAT total = %d, want 137000", without.FinalTotal)
	}
	if with.FinalTotal != 150700 {
		t.Errorf("VAT total = %d, want 150700", with.FinalTotal)
	}
}

func TestComputeBatch(t *testing.T) {
	items := []QuoteInput{
		{DeliveryType: DeliveryOnSite, ReviewType: ReviewStarRating, ProductPrice: decimal.NewFromInt(10000), Quantity: 3, Date: sunday},
		{DeliveryType: DeliveryOnSite, ReviewType: ReviewPhoto, ProductPrice: decimal.NewFromInt(5000), Quantity: 2, Date: monday},
	}
	// item1: 39600, item2: (1800+5500)×2 = 14600; subtotal 54200; total 59620

	tests := []struct {
		name       string
		deposit    int64
		useDeposit bool
		used       int64
		remaining  int64
	}{
		{"no deposit", 100000, false, 0, 59620},
		{"partial deposit", 20000, true, 20000, 39620},
		{"full deposit", 100000, true, 59620, 0},
		{"empty deposit", 0, true, 0, 59620},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ComputeBatch(items, true, decimal.NewFromInt(tt.deposit), tt.useDeposit)
			if b.TotalSubtotal != 54200 || b.TotalVAT != 5420 || b.TotalAmount != 59620 {
				t.Fatalf("totals = %d/%d/%d, want 54200/5420/59620", b.TotalSubtotal, b.TotalVAT, b.TotalAmount)
			}
			if b.DepositUsed != tt.used {
				t.Errorf("DepositUsed = %d, want %d", b.DepositUsed, tt.used)
			}
			if b.RemainingPayment != tt.remaining {
				t.Errorf("RemainingPayment = %d, want %d", b.RemainingPayment, tt.remaining)
			}
			if len(b.Items) != 2 || b.Items[0].VAT == 0 {
				t.Errorf("batch VAT flag not applied to items: %+v", b.Items)
			}
		})
	}
}

func TestComputeBatchRemainingRoundsUp(t *testing.T) {
	items := []QuoteInput{
		{DeliveryType: DeliveryOnSite, ReviewType: ReviewStarRating, ProductPrice: decimal.NewFromInt(9999), Quantity: 3, Date: monday},
	}
	// total 41576.37 → remaining rounds up
	b := ComputeBatch(items, true, decimal.Zero, false)
	if b.RemainingPayment != 41577 {
		t.Errorf("RemainingPayment = %d, want 41577", b.RemainingPayment)
	}
}

func TestCancelRefundAndRemainingTotal(t *testing.T) {
	price := decimal.NewFromInt(10000)
	if got := CancelRefund(price, 2); !got.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("CancelRefund = %s, want 20000", got)
	}

	// item total 39600 for 3 units → 13200 per unit
	got := RemainingItemTotal(decimal.NewFromInt(39600), price, 3, 1)
	if !got.Equal(decimal.NewFromInt(13200)) {
		t.Errorf("RemainingItemTotal = %s, want 13200", got)
	}
	if !RemainingItemTotal(decimal.NewFromInt(1), price, 0, 1).IsZero() {
		t.Error("zero quantity must yield zero")
	}
}

func TestTraffic(t *testing.T) {
	if got := SalePrice(100000, 0.35); got != 65000 {
		t.Errorf("SalePrice = %d, want 65000", got)
	}
	if got := SalePrice(9999, 0.5); got != 5000 {
		t.Errorf("SalePrice = %d, want 5000", got)
	}

	q := ComputeTraffic(65000, 3)
	if q.ItemTotal != 195000 || q.FinalItemAmount != 214500 {
		t.Errorf("ComputeTraffic = %+v", q)
	}

	start, end := TrafficWindow(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC))
	if start.Day() != 17 || end.Format("2006-01-02") != "2026-11-16" {
		t.Errorf("window = %s..%s", start, end)
	}
}

func TestPaymentTypeFor(t *testing.T) {
	if PaymentTypeFor(true) != PaymentCashReceipt || PaymentTypeFor(false) != PaymentFree {
		t.Error("unexpected payment type mapping")
	}
}
