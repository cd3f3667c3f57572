package pipeline

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/ppiankov/wordgauge/internal/model"
	"github.com/ppiankov/wordgauge/internal/util"
)

// ErrDisallowedByRobots is returned when robots.txt forbids fetching a URL
var ErrDisallowedByRobots = errors.New("disallowed by robots.txt")

const (
	fetchAttempts = 3
	fetchBackoff  = time.Second
)

// fetchSleepFunc waits between attempts; tests replace it
var fetchSleepFunc = time.Sleep

// Fetcher downloads remote texts
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
}

// NewFetcher creates a fetcher. maxBytes bounds the body read from each response.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, insecureTLS bool, httpProxy, httpsProxy, noProxy string) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(httpProxy, httpsProxy, noProxy)
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via http.insecure_tls
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// RespectRobots makes every fetch consult robots.txt first
func (f *Fetcher) RespectRobots() {
	f.robots = util.NewRobotsChecker(f.httpClient, f.userAgent)
}

// Client returns the underlying HTTP client, shared with the LLM providers
func (f *Fetcher) Client() *http.Client {
	return f.httpClient
}

// FetchResult contains the fetched text and metadata
type FetchResult struct {
	Body     string // decoded to UTF-8
	IsHTML   bool
	Meta     model.FetchMeta
	Subject  string
	FinalURL string
}

// FetchWithRetry fetches rawURL, retrying rate limiting, server errors and
// connection failures with exponential backoff.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			fetchSleepFunc(fetchBackoff << (attempt - 1))
		}

		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// Fetch retrieves rawURL once
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.robots != nil {
		allowed, _, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", ErrDisallowedByRobots, rawURL)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	meta := model.FetchMeta{
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		ETag:         resp.Header.Get("ETag"),
		Headers:      make(map[string]string),
	}

	for _, key := range []string{"Content-Length", "Content-Language", "Server"} {
		if val := resp.Header.Get(key); val != "" {
			meta.Headers[key] = val
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	// Declared or sniffed charset to UTF-8
	body, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBytes), meta.ContentType)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()

	return &FetchResult{
		Body:     string(data),
		IsHTML:   isHTMLContent(meta.ContentType, data),
		Meta:     meta,
		Subject:  extractSubject(finalURL),
		FinalURL: finalURL,
	}, nil
}

// isRetryableFetchError reports whether a fetch error is worth another attempt:
// 429, 5xx and connection-level failures.
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()

	if rest, ok := strings.CutPrefix(msg, "unexpected status: "); ok {
		code, _, _ := strings.Cut(rest, " ")
		status, convErr := strconv.Atoi(code)
		if convErr != nil {
			return false
		}
		return status == http.StatusTooManyRequests || status >= 500
	}

	return strings.HasPrefix(msg, "fetch: ")
}

// isHTMLContent decides between HTML extraction and plain text paragraphs
func isHTMLContent(contentType string, body []byte) bool {
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			return mediaType == "text/html" || mediaType == "application/xhtml+xml"
		}
	}
	return strings.HasPrefix(http.DetectContentType(body), "text/html")
}

// extractSubject derives a document name from the URL's last path segment
func extractSubject(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]

	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")

	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}

	return last
}
