package rankparser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const DefaultSearchURL = "https://www.coupang.com/np/search"

// Result statuses
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

var (
	ErrInvalidProductURL = errors.New("product url has no vendorItemId")
	ErrBlocked           = errors.New("search page returned a captcha")
)

type Result struct {
	Status      string `json:"status"`
	Rank        int    `json:"rank,omitempty"`
	Page        int    `json:"page,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Message     string `json:"message,omitempty"`
}

type Parser struct {
	httpClient *http.Client
	log        *zap.Logger
	searchURL  string
	maxPages   int
	maxRetries int
	pageDelay  time.Duration
	retryDelay time.Duration
}

func NewParser(searchURL string, timeoutMS, maxPages, maxRetries int, log *zap.Logger) *Parser {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	if maxPages <= 0 {
		maxPages = 10
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Parser{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		log:        log,
		searchURL:  searchURL,
		maxPages:   maxPages,
		maxRetries: maxRetries,
		pageDelay:  time.Second,
		retryDelay: 500 * time.Millisecond,
	}
}

var vendorItemRE = regexp.MustCompile(`vendorItemId=(\d+)`)

// VendorItemID extracts the listing id the rank search looks for.
func VendorItemID(productURL string) (string, error) {
	m := vendorItemRE.FindStringSubmatch(productURL)
	if m == nil {
		return "", ErrInvalidProductURL
	}
	return m[1], nil
}

// Search walks result pages counting organic (non-ad) items until the target shows up.
func (p *Parser) Search(ctx context.Context, keyword, productURL string) (*Result, error) {
	target, err := VendorItemID(productURL)
	if err != nil {
		return nil, err
	}

	rank := 0
	for page := 1; page <= p.maxPages; page++ {
		doc, err := p.fetch(ctx, keyword, page)
		if err != nil {
			p.log.Warn("rank search page failed", zap.String("keyword", keyword), zap.Int("page", page), zap.Error(err))
			return &Result{Status: StatusError, Message: fmt.Sprintf("page %d: %v", page, err)}, nil
		}

		res := scanPage(doc, target, rank)
		if res.found {
			return &Result{Status: StatusSuccess, Rank: res.rank, Page: page, ProductName: res.name}, nil
		}
		if res.items == 0 {
			if isCaptcha(doc) {
				return &Result{Status: StatusError, Message: ErrBlocked.Error()}, nil
			}
			break
		}
		rank = res.rank

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.pageDelay):
		}
	}

	return &Result{Status: StatusNotFound, Message: fmt.Sprintf("not found within %d pages", p.maxPages)}, nil
}

func (p *Parser) fetch(ctx context.Context, keyword string, page int) (*goquery.Document, error) {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("channel", "user")
	q.Set("sorter", "scoreDesc")
	q.Set("listSize", "60")
	q.Set("page", fmt.Sprintf("%d", page))
	pageURL := p.searchURL + "?" + q.Encode()

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9")

		resp, err := p.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if err := p.backoff(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, pageURL)
			if err := p.backoff(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return doc, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no attempts made for %s", pageURL)
	}
	return nil, lastErr
}

// backoff waits before the next attempt, linearly longer each time.
func (p *Parser) backoff(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(attempt+1) * p.retryDelay):
		return nil
	}
}

type pageScan struct {
	found bool
	rank  int
	name  string
	items int
}

// scanPage continues the organic rank counter from offset over one result page.
func scanPage(doc *goquery.Document, target string, offset int) pageScan {
	res := pageScan{rank: offset}
	doc.Find(`#product-list > li[class*="ProductUnit_productUnit"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		res.items++
		if s.Find(`[class*="AdMark_adMark"]`).Length() > 0 {
			return true
		}
		res.rank++
		if id, _ := s.Attr("data-id"); id == target {
			res.found = true
			res.name = strings.TrimSpace(s.Find(`[class*="ProductUnit_productName"]`).First().Text())
			if res.name == "" {
				res.name = "상품명 없음"
			}
			return false
		}
		return true
	})
	return res
}

func isCaptcha(doc *goquery.Document) bool {
	title := doc.Find("title").Text()
	return strings.Contains(doc.Text(), "로봇이 아닙니다") || strings.Contains(title, "Captcha")
}
