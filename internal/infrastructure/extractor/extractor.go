package extractor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArticleTutor/internal/domain"
	"ArticleTutor/internal/ports"
)

const (
	// maxContentChars bounds the payload sent to the model. Truncation may
	// cut mid-sentence; that is accepted.
	maxContentChars = 15000

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// noiseSelector matches elements that carry chrome, not content.
const noiseSelector = "script, style, nav, footer, aside"

// contentSelector matches the elements whose text makes up the readable body.
const contentSelector = "p, h1, h2, h3, h4, li"

// Extractor fetches a URL and reduces it to a bounded plain-text page.
type Extractor struct {
	client *http.Client
}

var _ ports.ContentFetcher = (*Extractor)(nil)

// New wires an HTTP client; the default client carries a 15s timeout.
func New(client *http.Client) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Extractor{client: client}
}

// Fetch downloads the page and extracts title and readable text. Any fetch
// or parse failure is returned as an error; there is no partial success.
func (e *Extractor) Fetch(ctx context.Context, url string) (domain.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.Page{}, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Page{}, fmt.Errorf("server returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return domain.Page{}, fmt.Errorf("parse document: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	return domain.Page{
		URL:     url,
		Title:   extractTitle(doc),
		Content: truncate(extractContent(doc), maxContentChars),
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	return title
}

func extractContent(doc *goquery.Document) string {
	container := doc.Find("article").First()
	if container.Length() == 0 {
		container = doc.Find("main").First()
	}
	if container.Length() == 0 {
		container = doc.Find("body").First()
	}
	if container.Length() == 0 {
		return visibleText(doc)
	}

	var parts []string
	container.Find(contentSelector).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n")
}

// visibleText flattens the whole document, one trimmed line per text run.
func visibleText(doc *goquery.Document) string {
	var parts []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, "\n")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
