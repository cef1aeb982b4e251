package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"stockfolio/internal/application/port"
	"stockfolio/internal/domain"
)

// QuoteOutcome is the engine's view of a single quote call.
type QuoteOutcome int

const (
	QuotePrice QuoteOutcome = iota
	QuoteRateLimited
	QuoteUnavailable
)

func (o QuoteOutcome) String() string {
	switch o {
	case QuotePrice:
		return "price"
	case QuoteRateLimited:
		return "rate_limited"
	default:
		return "unavailable"
	}
}

// quoteResult carries a classified quote. price is only set for QuotePrice.
type quoteResult struct {
	outcome QuoteOutcome
	price   decimal.Decimal
	err     error
}

// fetchQuote asks the source once and classifies the answer. A price that is
// not strictly positive is treated as unavailable whatever the source says.
func fetchQuote(ctx context.Context, src port.QuoteSource, symbol string) quoteResult {
	price, err := src.Quote(ctx, symbol)
	return classifyQuote(price, err)
}

func classifyQuote(price decimal.Decimal, err error) quoteResult {
	switch {
	case err == nil && price.IsPositive():
		return quoteResult{outcome: QuotePrice, price: price}
	case err == nil:
		return quoteResult{outcome: QuoteUnavailable, err: domain.ErrQuoteUnavailable}
	case errors.Is(err, domain.ErrRateLimited):
		return quoteResult{outcome: QuoteRateLimited, err: err}
	default:
		return quoteResult{outcome: QuoteUnavailable, err: err}
	}
}
