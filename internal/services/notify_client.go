package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hellopiggy/backend/internal/events"
	"go.uber.org/zap"
)

// NotifyClient forwards domain events to an operator webhook.
type NotifyClient struct {
	webhookURL string
	httpClient *http.Client
	log        *zap.Logger
}

func NewNotifyClient(webhookURL string, log *zap.Logger) *NotifyClient {
	return &NotifyClient{
		webhookURL: strings.TrimSpace(webhookURL),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

func (c *NotifyClient) Send(ctx context.Context, channel string, event events.Event) error {
	if c.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(map[string]any{
		"channel": channel,
		"type":    event.Type,
		"payload": event.Payload,
		"text":    Describe(event),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("failed to send notification", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

// Describe renders a short operator-facing line for an event.
func Describe(e events.Event) string {
	str := func(k string) string {
		v, _ := e.Payload[k].(string)
		return v
	}
	switch e.Type {
	case events.EventCampaignReserved:
		return fmt.Sprintf("새 캠페인 예약: %s (%v건)", str("seller_nickname"), e.Payload["count"])
	case events.EventCampaignStatusChanged:
		return fmt.Sprintf("캠페인 %s: %s → %s", str("campaign_id"), str("old_status"), str("new_status"))
	case events.EventCampaignCancelled:
		return fmt.Sprintf("판매자 귀책 취소: %s (%v개)", str("campaign_id"), e.Payload["cancel_quantity"])
	case events.EventTrafficRequested:
		return fmt.Sprintf("트래픽 신청: %v건", e.Payload["count"])
	case events.EventTrafficConfirmed:
		return fmt.Sprintf("트래픽 입금 확인: %s", str("request_id"))
	case events.EventReviewSubmitted:
		return fmt.Sprintf("리뷰 접수: %s", str("product_name"))
	case events.EventReviewStatusChanged:
		return fmt.Sprintf("리뷰 %s → %s", str("review_id"), str("new_status"))
	default:
		return e.Type
	}
}
