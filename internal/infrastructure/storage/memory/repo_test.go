package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stockfolio/internal/domain"
)

func TestMemoryRepoSaveAndDelete(t *testing.T) {
	repo := New()
	ctx := context.Background()

	aapl := domain.NewHolding("AAPL", 10)
	aapl.Reprice(decimal.NewFromInt(150), time.Now())
	if err := repo.SaveHoldings(ctx, []domain.Holding{domain.NewHolding("MSFT", 1), aapl}, nil); err != nil {
		t.Fatalf("SaveHoldings failed: %v", err)
	}

	hs, err := repo.ListHoldings(ctx)
	if err != nil {
		t.Fatalf("ListHoldings failed: %v", err)
	}
	if len(hs) != 2 || hs[0].Symbol != "AAPL" {
		t.Fatalf("expected [AAPL MSFT], got %+v", hs)
	}

	if err := repo.SaveHoldings(ctx, nil, []string{"AAPL"}); err != nil {
		t.Fatalf("SaveHoldings delete failed: %v", err)
	}
	hs, _ = repo.ListHoldings(ctx)
	if len(hs) != 1 || hs[0].Symbol != "MSFT" {
		t.Errorf("expected only MSFT, got %+v", hs)
	}
}
