// Package pricing computes campaign and traffic quotes.
//
// All amounts are Korean won. Intermediate values are kept unrounded and only
// the stored totals (subtotal, VAT, final total) are rounded half away from zero.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryType string

const (
	DeliveryOnSite   DeliveryType = "실배송"
	DeliveryEmptyBox DeliveryType = "빈박스"
)

type ReviewType string

const (
	ReviewStarRating   ReviewType = "별점"
	ReviewText         ReviewType = "텍스트"
	ReviewPhoto        ReviewType = "포토"
	ReviewPremiumPhoto ReviewType = "프리미엄(포토)"
	ReviewPremiumVideo ReviewType = "프리미엄(영상)"
)

// Payment types recorded on a campaign.
const (
	PaymentCashReceipt = "현영"
	PaymentFree        = "자율결제"
)

const SundaySurcharge int64 = 600

var (
	AgencyFeeRate = decimal.RequireFromString("1.1")
	VATRate       = decimal.RequireFromString("1.1")
)

var baseFees = map[DeliveryType]map[ReviewType]int64{
	DeliveryOnSite: {
		ReviewStarRating:   1600,
		ReviewText:         1700,
		ReviewPhoto:        1800,
		ReviewPremiumPhoto: 4000,
		ReviewPremiumVideo: 5000,
	},
	DeliveryEmptyBox: {
		ReviewStarRating: 5400,
		ReviewText:       5400,
	},
}

// BaseFee returns the per-unit review fee, 0 for combinations that are not offered.
func BaseFee(delivery DeliveryType, review ReviewType) int64 {
	return baseFees[delivery][review]
}

// ReviewTypesFor lists the review types offered for a delivery type.
func ReviewTypesFor(delivery DeliveryType) []ReviewType {
	switch delivery {
	case DeliveryOnSite:
		return []ReviewType{ReviewStarRating, ReviewText, ReviewPhoto, ReviewPremiumPhoto, ReviewPremiumVideo}
	case DeliveryEmptyBox:
		return []ReviewType{ReviewStarRating, ReviewText}
	}
	return nil
}

func IsOffered(delivery DeliveryType, review ReviewType) bool {
	return BaseFee(delivery, review) > 0
}

// ReviewFee is the base fee plus the Sunday surcharge for the campaign date.
func ReviewFee(delivery DeliveryType, review ReviewType, date time.Time) int64 {
	fee := BaseFee(delivery, review)
	if date.Weekday() == time.Sunday {
		fee += SundaySurcharge
	}
	return fee
}

func PaymentTypeFor(vatApplied bool) string {
	if vatApplied {
		return PaymentCashReceipt
	}
	return PaymentFree
}

type QuoteInput struct {
	DeliveryType DeliveryType
	ReviewType   ReviewType
	ProductPrice decimal.Decimal
	Quantity     int
	Date         time.Time
	VATApplied   bool
}

type Quote struct {
	ReviewFee                 int64           `json:"review_fee"`
	ProductPriceWithAgencyFee decimal.Decimal `json:"product_price_with_agency_fee"`
	UnitSubtotal              decimal.Decimal `json:"unit_subtotal"`
	Subtotal                  int64           `json:"subtotal"`
	VAT                       int64           `json:"vat"`
	FinalTotal                int64           `json:"final_total_amount"`

	exactSubtotal decimal.Decimal
	exactTotal    decimal.Decimal
}

func Compute(in QuoteInput) Quote {
	fee := ReviewFee(in.DeliveryType, in.ReviewType, in.Date)
	marked := in.ProductPrice.Mul(AgencyFeeRate)
	unit := decimal.NewFromInt(fee).Add(marked)
	subtotal := unit.Mul(decimal.NewFromInt(int64(in.Quantity)))
	total := subtotal
	if in.VATApplied {
		total = subtotal.Mul(VATRate)
	}

	return Quote{
		ReviewFee:                 fee,
		ProductPriceWithAgencyFee: marked,
		UnitSubtotal:              unit,
		Subtotal:                  round(subtotal),
		VAT:                       round(total.Sub(subtotal)),
		FinalTotal:                round(total),
		exactSubtotal:             subtotal,
		exactTotal:                total,
	}
}

// ItemTotal is the unrounded pre-VAT amount of the campaign.
func (q Quote) ItemTotal() decimal.Decimal {
	return q.exactSubtotal
}

type BatchQuote struct {
	Items            []Quote `json:"items"`
	TotalSubtotal    int64   `json:"total_subtotal"`
	TotalVAT         int64   `json:"total_vat"`
	TotalAmount      int64   `json:"total_amount"`
	DepositUsed      int64   `json:"deposit_used"`
	RemainingPayment int64   `json:"remaining_payment"`
}

// ComputeBatch prices several campaigns paid together. VAT is decided for the
// whole batch. When useDeposit is set the seller's deposit covers up to the total.
func ComputeBatch(items []QuoteInput, vatApplied bool, deposit decimal.Decimal, useDeposit bool) BatchQuote {
	out := BatchQuote{Items: make([]Quote, 0, len(items))}
	subtotal := decimal.Zero
	for _, in := range items {
		in.VATApplied = vatApplied
		q := Compute(in)
		out.Items = append(out.Items, q)
		subtotal = subtotal.Add(q.exactSubtotal)
	}

	total := subtotal
	if vatApplied {
		total = subtotal.Mul(VATRate)
	}

	used := decimal.Zero
	if useDeposit && deposit.IsPositive() {
		used = decimal.Min(total, deposit)
	}

	out.TotalSubtotal = round(subtotal)
	out.TotalVAT = round(total.Sub(subtotal))
	out.TotalAmount = round(total)
	out.DepositUsed = round(used)
	out.RemainingPayment = total.Sub(used).Ceil().IntPart()
	return out
}

// CancelRefund is the deposit credited when qty units are cancelled by seller fault.
func CancelRefund(productPrice decimal.Decimal, qty int) decimal.Decimal {
	return productPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// RemainingItemTotal reprices a campaign after cancelling part of its quantity,
// keeping the per-unit service price unchanged.
func RemainingItemTotal(itemTotal, productPrice decimal.Decimal, qty, remaining int) decimal.Decimal {
	if qty <= 0 {
		return decimal.Zero
	}
	unitService := itemTotal.Div(decimal.NewFromInt(int64(qty))).Sub(productPrice)
	return unitService.Add(productPrice).Mul(decimal.NewFromInt(int64(remaining)))
}

// Traffic packages

// SalePrice applies the catalog discount to the retail price.
func SalePrice(retail int64, discountRate float64) int64 {
	d := decimal.NewFromInt(retail).Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discountRate)))
	return round(d)
}

type TrafficQuote struct {
	ItemTotal       int64 `json:"item_total"`
	FinalItemAmount int64 `json:"final_item_amount"`
}

func ComputeTraffic(salePrice int64, quantity int) TrafficQuote {
	itemTotal := salePrice * int64(quantity)
	return TrafficQuote{
		ItemTotal:       itemTotal,
		FinalItemAmount: round(decimal.NewFromInt(itemTotal).Mul(VATRate)),
	}
}

// TrafficWindow returns the start and end dates of a traffic package requested for day.
func TrafficWindow(requestDate time.Time) (start, end time.Time) {
	start = requestDate.AddDate(0, 0, 1)
	end = start.AddDate(0, 0, 30)
	return start, end
}

func round(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
