package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestBuildTemplate(t *testing.T) {
	seller := uuid.New()
	base := TemplateRequest{
		DeliveryType:  "실배송",
		ReviewType:    "포토",
		Quantity:      5,
		ProductName:   "  텀블러  ",
		ProductOption: " 블랙 ",
		ProductPrice:  decimal.NewFromInt(12900),
		ProductURL:    "https://smartstore.naver.com/p/1",
	}

	tests := []struct {
		name    string
		mutate  func(r *TemplateRequest)
		wantErr bool
	}{
		{"valid", func(r *TemplateRequest) {}, false},
		{"types left empty", func(r *TemplateRequest) { r.DeliveryType, r.ReviewType = "", "" }, false},
		{"missing name", func(r *TemplateRequest) { r.ProductName = "   " }, true},
		{"not offered", func(r *TemplateRequest) { r.DeliveryType = "빈박스" }, true},
		{"only delivery set", func(r *TemplateRequest) { r.ReviewType = "" }, true},
		{"negative quantity", func(r *TemplateRequest) { r.Quantity = -1 }, true},
		{"negative price", func(r *TemplateRequest) { r.ProductPrice = decimal.NewFromInt(-1) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			got, err := buildTemplate(seller, req)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("buildTemplate() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildTemplate() error = %v", err)
			}
			if got.SellerID != seller {
				t.Errorf("SellerID = %s, want %s", got.SellerID, seller)
			}
			if got.ProductName != "텀블러" || got.ProductOption != "블랙" {
				t.Errorf("name/option = %q/%q, want trimmed", got.ProductName, got.ProductOption)
			}
			if got.ProductPrice != "12900" {
				t.Errorf("ProductPrice = %s, want 12900", got.ProductPrice)
			}
		})
	}
}

func TestTemplateDelete_RequiresIDs(t *testing.T) {
	s := NewTemplateService(nil, zap.NewNop())
	_, err := s.Delete(context.Background(), uuid.New(), nil)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Delete() error = %v, want ErrValidation", err)
	}
}
