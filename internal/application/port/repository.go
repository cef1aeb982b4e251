package port

import (
	"context"

	"stockfolio/internal/domain"
)

// Repository is the durable position table keyed by symbol.
type Repository interface {
	// ListHoldings returns every stored holding ordered by symbol.
	ListHoldings(ctx context.Context) ([]domain.Holding, error)

	// SaveHoldings upserts holdings and deletes the given symbols in a single
	// transaction.
	SaveHoldings(ctx context.Context, holdings []domain.Holding, deleted []string) error

	// Connection management
	Close() error
}
