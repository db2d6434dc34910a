// Package scraper retrieves and normalizes raw page content from a URL.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/visperhq/visper/internal/checksum"
	"github.com/visperhq/visper/internal/models"
)

const (
	// Some origins block non-browser agents, so identify as one.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultTimeout bounds the single fetch attempt.
	DefaultTimeout = 8 * time.Second

	// maxContentLen caps extracted plain text to bound downstream token cost.
	maxContentLen = 50000

	maxBodyBytes = 10 << 20 // 10 MB
)

// FetchError reports a URL retrieval failure: network error, timeout,
// or non-2xx status. The message is surfaced verbatim to the caller.
type FetchError struct {
	URL    string
	Status int // 0 when the request never completed
	Reason string
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %s", e.URL, e.Status, e.Reason)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

var (
	titleRe   = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)
	ogTitleRe = regexp.MustCompile(`(?i)<meta\s+property=["']og:title["']\s+content=["']([^"']+)["']`)
	authorRe  = regexp.MustCompile(`(?i)<meta\s+name=["']author["']\s+content=["']([^"']+)["']`)
	scriptRe  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe   = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// Fetcher issues single-attempt GET requests and extracts plain text.
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher with the given timeout (DefaultTimeout when <= 0).
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves rawURL and returns its normalized content. One fetch
// attempt per call, no retry; the caller decides whether to surface
// failure to the end user.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*models.ScrapedContent, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return nil, &FetchError{URL: rawURL, Reason: "invalid URL format"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Reason: err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: rawURL, Status: resp.StatusCode, Reason: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Reason: "read body: " + err.Error()}
	}
	html := string(body)

	content := extractText(html)

	return &models.ScrapedContent{
		Title:    extractTitle(html),
		Content:  content,
		Author:   firstMatch(authorRe, html),
		Domain:   parsed.Hostname(),
		Checksum: checksum.SumString(content),
	}, nil
}

// extractTitle prefers the Open Graph title over the <title> tag.
func extractTitle(html string) string {
	if og := firstMatch(ogTitleRe, html); og != "" {
		return og
	}
	if title := firstMatch(titleRe, html); title != "" {
		return title
	}
	return "Untitled"
}

// extractText strips script/style blocks and remaining markup, collapses
// whitespace, and truncates to the content cap with an ellipsis marker.
func extractText(html string) string {
	text := scriptRe.ReplaceAllString(html, "")
	text = styleRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if len(text) > maxContentLen {
		text = text[:maxContentLen] + "..."
	}
	return text
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
