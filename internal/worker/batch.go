package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/wordgauge/internal/pipeline"
)

// Fetcher retrieves one remote text
type Fetcher interface {
	FetchWithRetry(ctx context.Context, url string) (*pipeline.FetchResult, error)
}

// FetchResult is the outcome of fetching one URL
type FetchResult struct {
	URL    string
	Result *pipeline.FetchResult
	Error  error
}

// BatchProcessor fetches many URLs concurrently. Analysis of the fetched texts
// stays sequential and is left to the caller.
type BatchProcessor struct {
	fetcher     Fetcher
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. requestsPerSecond <= 0 disables
// per-host rate limiting.
func NewBatchProcessor(fetcher Fetcher, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		fetcher:     fetcher,
		concurrency: concurrency,
		limiter:     NewLimiter(requestsPerSecond, burst),
	}
}

// FetchURLs fetches every URL and returns one result per URL, in input order.
// URLs not reached before ctx is canceled are reported with ctx's error.
func (b *BatchProcessor) FetchURLs(ctx context.Context, urls []string) []*FetchResult {
	if len(urls) == 0 {
		return []*FetchResult{}
	}

	pool := NewPool[*FetchResult](ctx, b.concurrency)
	pool.Start()

	for _, u := range urls {
		u := u
		pool.Submit(func(ctx context.Context) *FetchResult {
			if err := b.limiter.Wait(ctx, u); err != nil {
				return &FetchResult{URL: u, Error: fmt.Errorf("rate limit: %w", err)}
			}
			result, err := b.fetcher.FetchWithRetry(ctx, u)
			return &FetchResult{URL: u, Result: result, Error: err}
		})
	}

	results := pool.Wait()

	// Fill in jobs the pool dropped on cancellation
	if len(results) < len(urls) {
		done := make(map[string]*FetchResult, len(results))
		for _, r := range results {
			done[r.URL] = r
		}
		complete := make([]*FetchResult, len(urls))
		for i, u := range urls {
			if r, ok := done[u]; ok {
				complete[i] = r
				continue
			}
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			complete[i] = &FetchResult{URL: u, Error: err}
		}
		results = complete
	}

	return results
}

// ProcessFile reads URLs from a file and fetches them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*FetchResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	return b.FetchURLs(ctx, urls), nil
}

// ReadURLsFromFile reads URLs, one per line, skipping blanks, # comments and duplicates
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
