package port

import (
	"context"

	"github.com/shopspring/decimal"
)

// QuoteSource returns the current market price of a symbol.
// Implementations return domain.ErrRateLimited when the upstream throttles and
// domain.ErrQuoteUnavailable (possibly wrapped) for any other failure.
type QuoteSource interface {
	Name() string
	Quote(ctx context.Context, symbol string) (decimal.Decimal, error)
}
