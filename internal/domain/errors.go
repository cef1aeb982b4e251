package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSymbol        = errors.New("invalid symbol")
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrRateLimited          = errors.New("quote source rate limited")
	ErrNotFound             = errors.New("symbol not held")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrPersistence          = errors.New("persistence failure")

	// ErrQuoteUnavailable is returned by quote sources for every failure that
	// is not a rate limit.
	ErrQuoteUnavailable = errors.New("quote unavailable")
)

// ErrorKind is the closed set of failures a portfolio operation reports.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidSymbol
	KindInvalidQuantity
	KindRateLimited
	KindNotFound
	KindInsufficientQuantity
	KindPersistence
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidSymbol:
		return "InvalidSymbol"
	case KindInvalidQuantity:
		return "InvalidQuantity"
	case KindRateLimited:
		return "RateLimited"
	case KindNotFound:
		return "NotFound"
	case KindInsufficientQuantity:
		return "InsufficientQuantity"
	case KindPersistence:
		return "PersistenceFailure"
	default:
		return "Unknown"
	}
}

// RetrySafe reports whether repeating the failed operation cannot apply it
// twice. After a persistence failure the portfolio must be re-synced first.
func (k ErrorKind) RetrySafe() bool {
	return k != KindPersistence && k != KindUnknown
}

// KindOf classifies err. Persistence wins over any other kind it wraps.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrInvalidSymbol):
		return KindInvalidSymbol
	case errors.Is(err, ErrInvalidQuantity):
		return KindInvalidQuantity
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientQuantity):
		return KindInsufficientQuantity
	default:
		return KindUnknown
	}
}

// OpError records the operation and symbol a failure belongs to.
type OpError struct {
	Op     string
	Symbol string
	Err    error
}

func (e *OpError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Symbol, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Persistence wraps a store error so that KindOf reports KindPersistence.
func Persistence(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
