package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/wordgauge/internal/pipeline"
)

// MockFetcher implements Fetcher
type MockFetcher struct {
	ShouldError bool
	calls       atomic.Int32
}

func (m *MockFetcher) FetchWithRetry(ctx context.Context, url string) (*pipeline.FetchResult, error) {
	m.calls.Add(1)
	time.Sleep(5 * time.Millisecond)
	if m.ShouldError {
		return nil, errors.New("fetch error")
	}
	return &pipeline.FetchResult{
		Body:     "Il était une fois.",
		Subject:  "story",
		FinalURL: url,
	}, nil
}

func writeURLFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_FetchURLs(t *testing.T) {
	fetcher := &MockFetcher{}
	processor := NewBatchProcessor(fetcher, 2, 0, 0)

	urls := []string{"http://example.com/a", "http://example.org/b", "http://example.net/c"}

	results := processor.FetchURLs(context.Background(), urls)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, res := range results {
		if res.URL != urls[i] {
			t.Errorf("expected result %d for %s, got %s", i, urls[i], res.URL)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.URL, res.Error)
		}
		if res.Result == nil || res.Result.FinalURL != urls[i] {
			t.Errorf("expected fetch result for %s", res.URL)
		}
	}
}

func TestBatchProcessor_FetchURLs_Error(t *testing.T) {
	processor := NewBatchProcessor(&MockFetcher{ShouldError: true}, 2, 0, 0)

	results := processor.FetchURLs(context.Background(), []string{"http://example.com"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Result != nil {
		t.Error("expected nil result on error")
	}
}

func TestBatchProcessor_FetchURLs_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockFetcher{}, 2, 0, 0)

	results := processor.FetchURLs(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_FetchURLs_Canceled(t *testing.T) {
	fetcher := &MockFetcher{}
	processor := NewBatchProcessor(fetcher, 2, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	urls := []string{"http://example.com/a", "http://example.com/b"}
	results := processor.FetchURLs(ctx, urls)

	if len(results) != len(urls) {
		t.Fatalf("expected one result per URL, got %d", len(results))
	}
	for i, res := range results {
		if res.URL != urls[i] {
			t.Errorf("expected %s at %d, got %s", urls[i], i, res.URL)
		}
		if !errors.Is(res.Error, context.Canceled) {
			t.Errorf("expected canceled result for %s", res.URL)
		}
	}
}

func TestBatchProcessor_InvalidURL(t *testing.T) {
	fetcher := &MockFetcher{}
	processor := NewBatchProcessor(fetcher, 1, 10, 1)

	results := processor.FetchURLs(context.Background(), []string{"not a url"})

	if results[0].Error == nil {
		t.Error("expected rate limiter to reject URL without host")
	}
	if fetcher.calls.Load() != 0 {
		t.Error("expected fetcher to not be called")
	}
}

func TestReadURLsFromFile(t *testing.T) {
	path := writeURLFile(t, `http://example.com
# comment
https://gutenberg.org
   
http://wikipedia.org   `)

	urls, err := ReadURLsFromFile(path)
	if err != nil {
		t.Fatalf("ReadURLsFromFile failed: %v", err)
	}

	expected := []string{"http://example.com", "https://gutenberg.org", "http://wikipedia.org"}
	if len(urls) != len(expected) {
		t.Fatalf("expected %d URLs, got %d", len(expected), len(urls))
	}

	for i, url := range urls {
		if url != expected[i] {
			t.Errorf("expected URL %s at index %d, got %s", expected[i], i, url)
		}
	}
}

func TestReadURLsFromFile_NonExistent(t *testing.T) {
	_, err := ReadURLsFromFile(filepath.Join(t.TempDir(), "non_existent_file.txt"))
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadURLsFromFile_Deduplication(t *testing.T) {
	path := writeURLFile(t, "http://example.com\nhttp://example.com")

	urls, err := ReadURLsFromFile(path)
	if err != nil {
		t.Fatalf("ReadURLsFromFile failed: %v", err)
	}

	if len(urls) != 1 {
		t.Errorf("expected 1 URL after deduplication, got %d", len(urls))
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeURLFile(t, "http://example.com\nhttps://gutenberg.org\n# comment\n\nhttp://wikipedia.org\n")

	processor := NewBatchProcessor(&MockFetcher{}, 2, 0, 0)

	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&MockFetcher{}, 2, 0, 0)

	_, err := processor.ProcessFile(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	path := writeURLFile(t, "")

	processor := NewBatchProcessor(&MockFetcher{}, 2, 0, 0)

	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}
