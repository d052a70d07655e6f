package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestMerge_Validation(t *testing.T) {
	// Проверки выполняются до обращения к базе
	s := NewAccountService(nil, nil, zap.NewNop())

	full := MergeRequest{DestUID: "kim_01011112222", DestPhone: "010-1111-2222", SourceUID: "kim_01033334444", SourcePhone: "010-3333-4444"}
	tests := []struct {
		name   string
		mutate func(r *MergeRequest)
	}{
		{"missing dest_uid", func(r *MergeRequest) { r.DestUID = "" }},
		{"missing dest_phone", func(r *MergeRequest) { r.DestPhone = "" }},
		{"missing source_uid", func(r *MergeRequest) { r.SourceUID = "" }},
		{"missing source_phone", func(r *MergeRequest) { r.SourcePhone = "" }},
		{"blank source_uid", func(r *MergeRequest) { r.SourceUID = "   " }},
		{"same account", func(r *MergeRequest) { r.SourceUID = r.DestUID }},
		{"same account padded", func(r *MergeRequest) { r.SourceUID = " " + r.DestUID + " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := full
			tt.mutate(&req)
			_, err := s.Merge(context.Background(), "admin-1", req)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Merge() error = %v, want ErrValidation", err)
			}
		})
	}
}
