package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// BusinessClient checks seller registration numbers against the NTS status API.
type BusinessClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	log        *zap.Logger
}

func NewBusinessClient(baseURL, serviceKey string, log *zap.Logger) *BusinessClient {
	return &BusinessClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// Enabled is false when no service key is configured; signup then skips the check.
func (c *BusinessClient) Enabled() bool {
	return c != nil && c.serviceKey != ""
}

type BusinessStatus struct {
	BNo     string `json:"b_no"`
	BStt    string `json:"b_stt"`
	BSttCd  string `json:"b_stt_cd"`
	TaxType string `json:"tax_type"`
	EndDate string `json:"end_dt"`
	Active  bool   `json:"active"`
}

// Verify returns the status of one business number. Active means b_stt_cd "01".
func (c *BusinessClient) Verify(ctx context.Context, businessNumber string) (*BusinessStatus, error) {
	bNo := strings.ReplaceAll(strings.TrimSpace(businessNumber), "-", "")
	if bNo == "" {
		return nil, invalid("business number is required")
	}

	body, err := json.Marshal(map[string]any{"b_no": []string{bNo}})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s?serviceKey=%s", c.baseURL, url.QueryEscape(c.serviceKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("business verification unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("business verification returned %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		Data []BusinessStatus `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("business verification returned no data")
	}

	status := result.Data[0]
	status.Active = status.BSttCd == "01"
	c.log.Debug("business verified", zap.String("b_no", bNo), zap.String("b_stt_cd", status.BSttCd))
	return &status, nil
}
