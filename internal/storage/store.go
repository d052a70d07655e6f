package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrInvalidKey = errors.New("invalid object key")
)

const metaSuffix = ".meta.json"

type objectMeta struct {
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// DiskStore keeps objects as files under root/bucket.
type DiskStore struct {
	dir string
}

func NewDiskStore(root, bucket string) (*DiskStore, error) {
	dir := filepath.Join(root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create bucket dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// ReviewImageKey builds the key for an uploaded review image.
func ReviewImageKey(now time.Time, originalName string) string {
	name := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '?', '#', '%', '&':
			return '_'
		}
		return r
	}, name)
	if name == "." || name == "/" || name == "" {
		name = "image"
	}
	return fmt.Sprintf("reviewImages/%d_%s", now.UnixMilli(), name)
}

func (s *DiskStore) path(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.HasSuffix(key, metaSuffix) {
		return "", ErrInvalidKey
	}
	p := filepath.Join(s.dir, filepath.FromSlash(key))
	if !strings.HasPrefix(p, s.dir+string(os.PathSeparator)) {
		return "", ErrInvalidKey
	}
	return p, nil
}

func (s *DiskStore) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	p, err := s.path(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	meta, _ := json.Marshal(objectMeta{ContentType: contentType, Size: n, CreatedAt: time.Now()})
	if err := os.WriteFile(p+metaSuffix, meta, 0o644); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return 0, err
	}
	return n, nil
}

// Open returns the object body and its stored content type. Caller closes the reader.
func (s *DiskStore) Open(key string) (io.ReadCloser, string, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}

	contentType := "application/octet-stream"
	if raw, err := os.ReadFile(p + metaSuffix); err == nil {
		var m objectMeta
		if json.Unmarshal(raw, &m) == nil && m.ContentType != "" {
			contentType = m.ContentType
		}
	}
	return f, contentType, nil
}

func (s *DiskStore) Delete(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	_ = os.Remove(p + metaSuffix)
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
