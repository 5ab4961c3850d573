package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

// Fetcher turns reference URLs into clean text snippets appended to the
// research context. Failures degrade to a note; a dead link never fails
// the workflow.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	MaxChars  int

	sanitizer *bluemonday.Policy
}

func NewFetcher(maxChars int) *Fetcher {
	if maxChars <= 0 {
		maxChars = 8000
	}
	return &Fetcher{
		Client:    &http.Client{Timeout: 30 * time.Second},
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		MaxChars:  maxChars,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Sanitize strips any HTML from free-form user text before it reaches a
// prompt.
func (f *Fetcher) Sanitize(text string) string {
	return strings.TrimSpace(f.sanitizer.Sanitize(text))
}

// FetchReference downloads one URL and extracts its readable content.
func (f *Fetcher) FetchReference(ctx context.Context, rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") {
		return "", fmt.Errorf("invalid reference URL: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status code %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse article: %v", err)
	}

	sanitized := f.sanitizer.Sanitize(article.TextContent)

	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\n", article.Title)
	if article.Excerpt != "" {
		fmt.Fprintf(&b, "EXCERPT: %s\n", article.Excerpt)
	}
	b.WriteString("\n")

	content := sanitized
	if len(content) > f.MaxChars {
		content = content[:f.MaxChars] + "\n... (content truncated) ..."
	}
	b.WriteString(content)

	return b.String(), nil
}

// EnrichContext sanitizes the base context and appends extracted reference
// material for up to maxURLs links.
func (f *Fetcher) EnrichContext(ctx context.Context, baseContext string, urls []string, maxURLs int) string {
	parts := []string{}
	if cleaned := f.Sanitize(baseContext); cleaned != "" {
		parts = append(parts, cleaned)
	}

	for i, u := range urls {
		if maxURLs > 0 && i >= maxURLs {
			break
		}
		content, err := f.FetchReference(ctx, u)
		if err != nil {
			parts = append(parts, fmt.Sprintf("[reference %s unavailable: %v]", u, err))
			continue
		}
		parts = append(parts, fmt.Sprintf("REFERENCE (%s):\n%s", u, content))
	}

	return strings.Join(parts, "\n\n")
}
