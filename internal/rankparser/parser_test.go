package rankparser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

func TestVendorItemID(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://www.coupang.com/vp/products/123?itemId=9&vendorItemId=8765", "8765", false},
		{"https://www.coupang.com/vp/products/123?vendorItemId=42&q=x", "42", false},
		{"https://www.coupang.com/vp/products/123", "", true},
		{"vendorItemId=abc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := VendorItemID(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VendorItemID(%q) err = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("VendorItemID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func item(id string, ad bool, name string) string {
	adMark := ""
	if ad {
		adMark = `<span class="AdMark_adMark__KPMsC">AD</span>`
	}
	return fmt.Sprintf(`<li class="ProductUnit_productUnit__Qd6sv" data-id="%s">%s<div class="ProductUnit_productName__gre7e"> %s </div></li>`, id, adMark, name)
}

func page(items ...string) string {
	return `<html><head><title>search</title></head><body><ul id="product-list">` + strings.Join(items, "") + `</ul></body></html>`
}

func TestScanPage(t *testing.T) {
	html := page(item("1", true, "ad"), item("2", false, "a"), item("3", true, "ad"), item("4", false, "target"))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}

	res := scanPage(doc, "4", 60)
	if !res.found {
		t.Fatal("target not found")
	}
	if res.rank != 62 {
		t.Errorf("rank = %d, want 62 (ads skipped, offset kept)", res.rank)
	}
	if res.name != "target" {
		t.Errorf("name = %q, want target", res.name)
	}

	res = scanPage(doc, "999", 0)
	if res.found || res.rank != 2 || res.items != 4 {
		t.Errorf("unexpected scan %+v", res)
	}
}

func newTestParser(url string, maxPages int) *Parser {
	p := NewParser(url, 2000, maxPages, 0, zap.NewNop())
	p.pageDelay = 0
	return p
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "물티슈" {
			http.Error(w, "bad keyword", http.StatusBadRequest)
			return
		}
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, page(item("10", false, "x"), item("11", true, "ad"), item("12", false, "y")))
		case "2":
			fmt.Fprint(w, page(item("20", true, "ad"), item("21", false, "z"), item("77", false, "찾는 상품")))
		default:
			fmt.Fprint(w, page())
		}
	}))
	defer srv.Close()

	p := newTestParser(srv.URL, 5)

	res, err := p.Search(context.Background(), "물티슈", "https://www.coupang.com/vp/products/1?vendorItemId=77")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusSuccess || res.Rank != 4 || res.Page != 2 || res.ProductName != "찾는 상품" {
		t.Errorf("unexpected result %+v", res)
	}

	res, err = p.Search(context.Background(), "물티슈", "https://www.coupang.com/vp/products/1?vendorItemId=5")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusNotFound {
		t.Errorf("status = %q, want not_found", res.Status)
	}

	if _, err := p.Search(context.Background(), "물티슈", "https://www.coupang.com/vp/products/1"); err != ErrInvalidProductURL {
		t.Errorf("err = %v, want ErrInvalidProductURL", err)
	}
}

func TestSearch_Captcha(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Captcha</title></head><body>로봇이 아닙니다</body></html>`)
	}))
	defer srv.Close()

	res, err := newTestParser(srv.URL, 3).Search(context.Background(), "k", "x?vendorItemId=1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusError {
		t.Errorf("status = %q, want error", res.Status)
	}
}

func TestNewParser_NegativeRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page(item("77", false, "찾는 상품")))
	}))
	defer srv.Close()

	p := NewParser(srv.URL, 2000, 1, -3, zap.NewNop())
	p.pageDelay = 0
	if p.maxRetries != 0 {
		t.Errorf("maxRetries = %d, want 0", p.maxRetries)
	}

	res, err := p.Search(context.Background(), "k", "x?vendorItemId=77")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusSuccess || res.Rank != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestFetch_BackoffHonorsContext(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewParser(srv.URL, 2000, 1, 5, zap.NewNop())
	p.retryDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.fetch(ctx, "k", 1)
	if err != context.DeadlineExceeded {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("fetch took %v after the context expired", elapsed)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}
