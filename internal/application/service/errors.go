package service

import (
	"errors"
	"fmt"

	"stockfolio/internal/domain"
)

func wrapInvalidSymbol(err error) error {
	if err == nil {
		return domain.ErrInvalidSymbol
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidSymbol, err)
}

// unwrapOp strips the OpError added by an inner operation so the caller can
// attach its own op and symbol.
func unwrapOp(err error) error {
	var oe *domain.OpError
	if errors.As(err, &oe) {
		return oe.Err
	}
	return err
}
