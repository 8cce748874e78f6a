package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tieubaoca/cortex-be/types"
)

const crawlerUserAgent = "Cortex-Bot/1.0"

// WebService fetches a page and reduces it to a title and readable text.
type WebService struct {
	client *http.Client
}

func NewWebService(timeout time.Duration) *WebService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebService{
		client: &http.Client{Timeout: timeout},
	}
}

// FetchPage downloads the URL, strips script and style nodes and collapses
// the remaining text line by line. The returned title falls back to the URL
// when the page has none.
func (s *WebService) FetchPage(ctx context.Context, url string) (title, text string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", types.ErrFetch, err)
	}
	req.Header.Set("User-Agent", crawlerUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", types.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("%w: unexpected status %d", types.ErrFetch, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", types.ErrFetch, err)
	}

	doc.Find("script, style, noscript").Remove()

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = url
	}

	return title, cleanPageText(doc.Find("body").Text()), nil
}

// cleanPageText trims every line and drops the empty ones, the same cleanup
// a scraper applies to rendered HTML text.
func cleanPageText(raw string) string {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
