package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stockfolio/internal/domain"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "data", "positions.db"))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepoSaveAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pricedAt := time.UnixMilli(1760628600123)
	aapl := domain.NewHolding("AAPL", 10)
	aapl.Reprice(decimal.RequireFromString("150.1234"), pricedAt)
	msft := domain.NewHolding("MSFT", 2)

	if err := repo.SaveHoldings(ctx, []domain.Holding{msft, aapl}, nil); err != nil {
		t.Fatalf("SaveHoldings failed: %v", err)
	}

	hs, err := repo.ListHoldings(ctx)
	if err != nil {
		t.Fatalf("ListHoldings failed: %v", err)
	}
	if len(hs) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(hs))
	}
	if !hs[0].Equal(aapl) {
		t.Errorf("expected %+v, got %+v", aapl, hs[0])
	}
	if hs[1].Symbol != "MSFT" || hs[1].Priced() || hs[1].LastValue.Valid || !hs[1].PricedAt.IsZero() {
		t.Errorf("expected unpriced MSFT, got %+v", hs[1])
	}
}

func TestSQLiteRepoUpsertIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	h := domain.NewHolding("AAPL", 10)
	h.Reprice(decimal.NewFromInt(150), time.UnixMilli(1))
	for i := 0; i < 3; i++ {
		if err := repo.SaveHoldings(ctx, []domain.Holding{h}, nil); err != nil {
			t.Fatalf("SaveHoldings failed: %v", err)
		}
	}

	h.SetQuantity(15)
	if err := repo.SaveHoldings(ctx, []domain.Holding{h}, nil); err != nil {
		t.Fatalf("SaveHoldings failed: %v", err)
	}

	hs, err := repo.ListHoldings(ctx)
	if err != nil {
		t.Fatalf("ListHoldings failed: %v", err)
	}
	if len(hs) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(hs))
	}
	if hs[0].Quantity != 15 || !hs[0].LastValue.Decimal.Equal(decimal.NewFromInt(2250)) {
		t.Errorf("expected quantity=15 value=2250, got %d %s", hs[0].Quantity, hs[0].LastValue.Decimal)
	}
}

func TestSQLiteRepoDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	hs := []domain.Holding{domain.NewHolding("AAPL", 1), domain.NewHolding("MSFT", 1)}
	if err := repo.SaveHoldings(ctx, hs, nil); err != nil {
		t.Fatalf("SaveHoldings failed: %v", err)
	}
	if err := repo.SaveHoldings(ctx, hs[1:], []string{"AAPL"}); err != nil {
		t.Fatalf("SaveHoldings failed: %v", err)
	}

	got, err := repo.ListHoldings(ctx)
	if err != nil {
		t.Fatalf("ListHoldings failed: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "MSFT" {
		t.Errorf("expected only MSFT, got %+v", got)
	}
}

func TestSQLiteRepoReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.db")
	ctx := context.Background()

	repo, err := New(path)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	if err := repo.SaveHoldings(ctx, []domain.Holding{domain.NewHolding("IBM", 4)}, nil); err != nil {
		t.Fatalf("SaveHoldings failed: %v", err)
	}
	repo.Close()

	repo, err = New(path)
	if err != nil {
		t.Fatalf("failed to reopen repo: %v", err)
	}
	defer repo.Close()

	hs, err := repo.ListHoldings(ctx)
	if err != nil {
		t.Fatalf("ListHoldings failed: %v", err)
	}
	if len(hs) != 1 || hs[0].Quantity != 4 {
		t.Errorf("expected IBM x4 after reopen, got %+v", hs)
	}
}

func TestSQLiteRepoClosed(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	repo.Close()

	if err := repo.SaveHoldings(context.Background(), []domain.Holding{domain.NewHolding("A", 1)}, nil); err == nil {
		t.Errorf("expected error saving to a closed database")
	}
}
