package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/events"
	"github.com/hellopiggy/backend/internal/http/dto"
	"github.com/hellopiggy/backend/internal/middleware"
	"github.com/hellopiggy/backend/internal/rankparser"
	"github.com/hellopiggy/backend/internal/services"
	"github.com/hellopiggy/backend/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHealth(t *testing.T) {
	app := fiber.New()
	app.Get("/api/health", Health)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "ok", body.Status)
	require.Positive(t, body.TS)
}

func uploadApp(t *testing.T, now time.Time) *fiber.App {
	t.Helper()
	store, err := storage.NewDiskStore(t.TempDir(), "test-bucket")
	require.NoError(t, err)
	h := NewUploadHandler(store, storage.NewSigner("file-secret", "http://example.com", time.Hour), zap.NewNop())
	h.now = func() time.Time { return now }

	app := fiber.New()
	app.Post("/api/upload", h.Upload)
	app.Get("/api/files/*", h.ServeFile)
	return app
}

func multipartImage(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadAndServeFile(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	app := uploadApp(t, now)

	body, ct := multipartImage(t, "image", "photo 1.png", "image/png", []byte("PNGDATA"))
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var up dto.UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&up))
	require.Equal(t, fmt.Sprintf("reviewImages/%d_photo_1.png", now.UnixMilli()), up.Key)
	require.True(t, strings.HasPrefix(up.URL, "http://example.com/api/files/reviewImages/"))
	require.Equal(t, now.Add(time.Hour).Unix(), up.ExpiresAt)

	// Signed link streams the object back
	resp, err = app.Test(httptest.NewRequest("GET", up.URL, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "PNGDATA", string(data))

	u, err := url.Parse(up.URL)
	require.NoError(t, err)

	// Missing token
	resp, err = app.Test(httptest.NewRequest("GET", u.Path, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Token for another key
	resp, err = app.Test(httptest.NewRequest("GET", "/api/files/reviewImages/other.png?"+u.RawQuery, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUpload_NoFile(t *testing.T) {
	app := uploadApp(t, time.Now())

	body, ct := multipartImage(t, "file", "a.png", "image/png", []byte("x"))
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRankSearch_Validation(t *testing.T) {
	h := NewRankHandler(rankparser.NewParser("http://127.0.0.1:1/search", 100, 1, 0, zap.NewNop()), zap.NewNop())
	app := fiber.New()
	app.Post("/rank", h.Search)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{`, fiber.StatusBadRequest},
		{"missing keyword", `{"product_url":"https://www.coupang.com/vp/products/1?vendorItemId=77"}`, fiber.StatusBadRequest},
		{"no vendor item", `{"keyword":"물티슈","product_url":"https://www.coupang.com/vp/products/1"}`, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/rank", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestServiceError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: quantity must be positive", services.ErrValidation), fiber.StatusBadRequest},
		{services.ErrUnauthorized, fiber.StatusUnauthorized},
		{services.ErrForbidden, fiber.StatusForbidden},
		{fmt.Errorf("campaign: %w", services.ErrNotFound), fiber.StatusNotFound},
		{services.ErrInvalidTransition, fiber.StatusConflict},
		{fmt.Errorf("%w: 2024-06-03", services.ErrCapacityExceeded), fiber.StatusConflict},
		{services.ErrConflict, fiber.StatusConflict},
		{services.ErrInsufficientDeposit, fiber.StatusPaymentRequired},
		{errors.New("connection refused"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return serviceError(c, zap.NewNop(), tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			require.Equal(t, tt.want, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.NotEmpty(t, body.Error)
			if tt.want == fiber.StatusInternalServerError {
				require.Equal(t, "internal", body.Error)
			}
		})
	}
}

func TestVisibleTo(t *testing.T) {
	own := events.Event{Channel: events.ChannelCampaign, Payload: map[string]any{"seller_id": "s1"}}
	other := events.Event{Channel: events.ChannelTraffic, Payload: map[string]any{"seller_id": "s2"}}
	capacity := events.Event{Channel: events.ChannelCampaign, Type: events.EventCapacityChanged}
	review := events.Event{Channel: events.ChannelReview, Type: events.EventReviewSubmitted}

	seller := wsClient{uid: "s1"}
	admin := wsClient{uid: "root", admin: true}

	tests := []struct {
		name   string
		event  events.Event
		client wsClient
		want   bool
	}{
		{"own event", own, seller, true},
		{"other seller", other, seller, false},
		{"unowned event", capacity, seller, true},
		{"review hidden from seller", review, seller, false},
		{"admin sees other seller", other, admin, true},
		{"admin sees reviews", review, admin, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, visibleTo(tt.event, tt.client))
		})
	}
}

func TestMergeAccounts_BadRequest(t *testing.T) {
	h := NewAccountHandler(services.NewAccountService(nil, nil, zap.NewNop()), zap.NewNop())
	app := fiber.New()
	app.Post("/api/merge-accounts", h.MergeAccounts)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing source_phone", `{"dest_uid":"kim_0101","dest_phone":"0101","source_uid":"lee_0102"}`},
		{"missing dest_uid", `{"dest_phone":"0101","source_uid":"lee_0102","source_phone":"0102"}`},
		{"same account", `{"dest_uid":"kim_0101","dest_phone":"0101","source_uid":"kim_0101","source_phone":"0101"}`},
		{"malformed json", `{"dest_uid":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/merge-accounts", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.NotEmpty(t, body.Error)
		})
	}
}

func TestTemplateHandlers_BadRequest(t *testing.T) {
	h := NewTemplateHandler(services.NewTemplateService(nil, zap.NewNop()), zap.NewNop())
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.CtxUID, "7f9c2b1e-3a44-4d0e-9b6a-2f1d8c5e0a11")
		return c.Next()
	})
	app.Post("/api/seller/templates", h.Save)
	app.Put("/api/seller/templates/:id", h.Update)
	app.Delete("/api/seller/templates", h.DeleteMany)
	app.Delete("/api/seller/templates/:id", h.Delete)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"save without name", "POST", "/api/seller/templates", `{"product_url":"https://example.com/p/1"}`},
		{"save not offered", "POST", "/api/seller/templates", `{"product_name":"텀블러","delivery_type":"빈박스","review_type":"포토"}`},
		{"update bad id", "PUT", "/api/seller/templates/nope", `{"product_name":"텀블러"}`},
		{"delete empty ids", "DELETE", "/api/seller/templates", `{"ids":[]}`},
		{"delete bad id", "DELETE", "/api/seller/templates/nope", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}
