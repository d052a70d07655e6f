package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hellopiggy/backend/internal/events"
	"go.uber.org/zap"
)

func TestBusinessClient_Verify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("serviceKey") != "k+ey" {
			http.Error(w, "bad key", http.StatusUnauthorized)
			return
		}
		var req struct {
			BNo []string `json:"b_no"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		code := "03"
		if len(req.BNo) == 1 && req.BNo[0] == "1234567890" {
			code = "01"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"b_no": req.BNo[0], "b_stt_cd": code, "tax_type": "부가가치세 일반과세자"}},
		})
	}))
	defer srv.Close()

	c := NewBusinessClient(srv.URL, "k+ey", zap.NewNop())
	if !c.Enabled() {
		t.Fatal("client with key should be enabled")
	}

	st, err := c.Verify(context.Background(), "123-45-67890")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !st.Active || st.TaxType == "" {
		t.Errorf("unexpected status %+v", st)
	}

	st, err = c.Verify(context.Background(), "999-99-99999")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if st.Active {
		t.Error("closed business reported active")
	}

	if _, err := c.Verify(context.Background(), " "); !errors.Is(err, ErrValidation) {
		t.Errorf("empty number err = %v, want ErrValidation", err)
	}

	if NewBusinessClient(srv.URL, "", zap.NewNop()).Enabled() {
		t.Error("client without key should be disabled")
	}
}

func TestNotifyClient_Send(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewNotifyClient(srv.URL, zap.NewNop())
	ev := events.Event{Type: events.EventCampaignStatusChanged, Payload: map[string]any{
		"campaign_id": "c1", "old_status": "예약 대기", "new_status": "예약 확정",
	}}
	if err := c.Send(context.Background(), events.ChannelCampaign, ev); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got["channel"] != events.ChannelCampaign || got["text"] != "캠페인 c1: 예약 대기 → 예약 확정" {
		t.Errorf("unexpected webhook body %v", got)
	}

	if err := NewNotifyClient("", zap.NewNop()).Send(context.Background(), "x", ev); err != nil {
		t.Errorf("disabled client should be a no-op, got %v", err)
	}
}
