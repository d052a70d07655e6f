package handlers

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/http/dto"
	"github.com/hellopiggy/backend/internal/metrics"
	"github.com/hellopiggy/backend/internal/storage"
	"go.uber.org/zap"
)

type UploadHandler struct {
	store  *storage.DiskStore
	signer *storage.Signer
	log    *zap.Logger
	now    func() time.Time
}

func NewUploadHandler(store *storage.DiskStore, signer *storage.Signer, log *zap.Logger) *UploadHandler {
	return &UploadHandler{store: store, signer: signer, log: log, now: time.Now}
}

// Upload stores the multipart "image" field and returns a signed read URL.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		metrics.Uploads.WithLabelValues("rejected").Inc()
		return fail(c, fiber.StatusBadRequest, "no file")
	}

	f, err := fh.Open()
	if err != nil {
		metrics.Uploads.WithLabelValues("failed").Inc()
		h.log.Error("open upload failed", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "upload failed")
	}
	defer f.Close()

	now := h.now()
	key := storage.ReviewImageKey(now, fh.Filename)
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	size, err := h.store.Put(c.UserContext(), key, contentType, f)
	if err != nil {
		metrics.Uploads.WithLabelValues("failed").Inc()
		h.log.Error("store upload failed", zap.String("key", key), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "upload failed")
	}

	signed, exp, err := h.signer.SignedURL(key, now)
	if err != nil {
		metrics.Uploads.WithLabelValues("failed").Inc()
		h.log.Error("sign url failed", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "upload failed")
	}

	metrics.Uploads.WithLabelValues("stored").Inc()
	h.log.Info("image uploaded", zap.String("key", key), zap.Int64("size", size))
	return c.JSON(dto.UploadResponse{URL: signed, Key: key, ExpiresAt: exp.Unix()})
}

// ServeFile streams an object if the token in the query was signed for its key.
func (h *UploadHandler) ServeFile(c *fiber.Ctx) error {
	key, err := url.PathUnescape(c.Params("*"))
	if err != nil || key == "" {
		return fail(c, fiber.StatusBadRequest, "invalid key")
	}
	token := c.Query("token")
	if token == "" {
		return fail(c, fiber.StatusUnauthorized, "missing token")
	}
	if err := h.signer.Verify(key, token); err != nil {
		h.log.Debug("file token rejected", zap.String("key", key), zap.Error(err))
		return fail(c, fiber.StatusForbidden, "invalid or expired link")
	}

	rc, contentType, err := h.store.Open(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return fail(c, fiber.StatusNotFound, "file not found")
		}
		h.log.Error("open object failed", zap.String("key", key), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "internal")
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.SendStream(rc)
}
