package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if err := limiter.Wait(ctx, "http://gutenberg.org"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if limiter.Domains() != 2 {
		t.Errorf("expected 2 domains, got %d", limiter.Domains())
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("http://example.com") {
			t.Fatalf("expected unlimited limiter to allow request %d", i)
		}
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	start := time.Now()
	err := limiter.WaitWithDelay(ctx, "http://example.com", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}

	if duration := time.Since(start); duration < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", duration)
	}
}

func TestLimiter_WaitWithDelayCanceled(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := limiter.WaitWithDelay(ctx, "http://example.com", time.Minute); err == nil {
		t.Error("expected context error")
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()
	url := "http://example.com"

	if err := limiter.Wait(ctx, url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst of 1 is spent
	if limiter.Allow(url) {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// Same host, different port and case
	if limiter.Allow("http://EXAMPLE.com:8080/other") {
		t.Errorf("expected host bucket to be shared across ports")
	}

	if !limiter.Allow("http://other.com") {
		t.Errorf("expected allow for other domain")
	}
}

func TestLimiter_SetDomainRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	domain := "slow.com"

	limiter.SetDomainRate(domain, 0.1, 1)

	if !limiter.Allow("http://" + domain) {
		t.Errorf("first request should pass")
	}

	if limiter.Allow("http://" + domain) {
		t.Errorf("second request should fail")
	}

	if !limiter.Allow("http://fast.com") {
		t.Errorf("other domain should pass")
	}
}

func TestExtractDomain(t *testing.T) {
	domain, err := extractDomain("http://Example.com:8080/foo")
	if err != nil {
		t.Fatalf("extractDomain failed: %v", err)
	}
	if domain != "example.com" {
		t.Errorf("expected example.com, got %s", domain)
	}

	if _, err := extractDomain("::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}

	if _, err := extractDomain("/relative/path"); err == nil {
		t.Errorf("expected error for URL without host")
	}
}
