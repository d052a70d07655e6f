package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestReviewImageKey(t *testing.T) {
	now := time.UnixMilli(1760000000123)
	tests := []struct {
		name string
		want string
	}{
		{"photo.jpg", "reviewImages/1760000000123_photo.jpg"},
		{"../../etc/passwd", "reviewImages/1760000000123_passwd"},
		{`C:\Users\me\my pic.png`, "reviewImages/1760000000123_my_pic.png"},
		{"", "reviewImages/1760000000123_image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReviewImageKey(now, tt.name); got != tt.want {
				t.Errorf("ReviewImageKey(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestDiskStore_PutOpen(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "bucket")
	if err != nil {
		t.Fatal(err)
	}

	key := "reviewImages/1_a.png"
	n, err := store.Put(context.Background(), key, "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 9 {
		t.Errorf("Put wrote %d bytes, want 9", n)
	}

	rc, ct, err := store.Open(key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "png-bytes" || ct != "image/png" {
		t.Errorf("Open = %q (%s)", body, ct)
	}

	if _, _, err := store.Open("reviewImages/missing.png"); err != ErrNotFound {
		t.Errorf("Open(missing) err = %v, want ErrNotFound", err)
	}
	if err := store.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := store.Open(key); err != ErrNotFound {
		t.Errorf("Open(deleted) err = %v, want ErrNotFound", err)
	}
}

func TestDiskStore_RejectsTraversal(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "bucket")
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"../outside", "/abs", "", "a/../../x", "x" + metaSuffix} {
		if _, err := store.Put(context.Background(), key, "text/plain", strings.NewReader("x")); err != ErrInvalidKey {
			t.Errorf("Put(%q) err = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestSigner(t *testing.T) {
	s := NewSigner("secret", "https://api.example.com/", time.Hour)
	now := time.Now()

	signed, exp, err := s.SignedURL("reviewImages/1_a b.png", now)
	if err != nil {
		t.Fatal(err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Errorf("exp = %v, want now+1h", exp)
	}
	if !strings.HasPrefix(signed, "https://api.example.com/api/files/reviewImages/1_a%20b.png?token=") {
		t.Errorf("unexpected url %s", signed)
	}

	u, _ := url.Parse(signed)
	token := u.Query().Get("token")
	if err := s.Verify("reviewImages/1_a b.png", token); err != nil {
		t.Errorf("Verify: %v", err)
	}
	if err := s.Verify("reviewImages/other.png", token); err == nil {
		t.Error("token accepted for another key")
	}
	if err := NewSigner("other", "", time.Hour).Verify("reviewImages/1_a b.png", token); err == nil {
		t.Error("token accepted with wrong secret")
	}

	expired, _, _ := s.SignedURL("k", now.Add(-2*time.Hour))
	eu, _ := url.Parse(expired)
	if err := s.Verify("k", eu.Query().Get("token")); err == nil {
		t.Error("expired token accepted")
	}
}
