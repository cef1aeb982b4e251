package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"stockfolio/internal/domain"
)

type countingSource struct {
	price decimal.Decimal
	err   error
	calls int
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	s.calls++
	return s.price, s.err
}

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("STOCKFOLIO_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STOCKFOLIO_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("redis ping failed: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestQuoteCacheHitAndExpiry(t *testing.T) {
	rdb := newTestClient(t)
	ctx := context.Background()
	prefix := "stockfolio-test-" + time.Now().Format("150405.000")
	t.Cleanup(func() { rdb.Del(ctx, prefix+":quotes") })

	src := &countingSource{price: decimal.RequireFromString("150.25")}
	cache := NewQuoteCache(rdb, src, prefix, time.Minute)
	now := time.Now()
	cache.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		p, err := cache.Quote(ctx, "AAPL")
		if err != nil {
			t.Fatalf("Quote failed: %v", err)
		}
		if !p.Equal(src.price) {
			t.Fatalf("expected %s, got %s", src.price, p)
		}
	}
	if src.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", src.calls)
	}

	now = now.Add(2 * time.Minute)
	if _, err := cache.Quote(ctx, "AAPL"); err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if src.calls != 2 {
		t.Errorf("expected expired entry to hit upstream, got %d calls", src.calls)
	}
}

func TestQuoteCacheDoesNotCacheFailures(t *testing.T) {
	rdb := newTestClient(t)
	ctx := context.Background()
	prefix := "stockfolio-test-fail-" + time.Now().Format("150405.000")
	t.Cleanup(func() { rdb.Del(ctx, prefix+":quotes") })

	src := &countingSource{err: domain.ErrRateLimited}
	cache := NewQuoteCache(rdb, src, prefix, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.Quote(ctx, "AAPL"); err != domain.ErrRateLimited {
			t.Fatalf("expected rate limit error, got %v", err)
		}
	}
	if src.calls != 2 {
		t.Errorf("expected failures to reach upstream every time, got %d", src.calls)
	}
}
