package console

import (
	"fmt"

	"stockfolio/internal/domain"
)

// ErrorMessage turns an operation error into the line shown to the user.
func ErrorMessage(err error) string {
	switch domain.KindOf(err) {
	case domain.KindInvalidSymbol:
		return "Stock symbol not valid"
	case domain.KindInvalidQuantity:
		return "Error: Quantity must be a positive whole number."
	case domain.KindRateLimited:
		return "API Limit Exceeded. Please try again later."
	case domain.KindNotFound:
		return "Error: Stock not found in portfolio."
	case domain.KindInsufficientQuantity:
		return "Error: Not enough stocks to sell."
	case domain.KindPersistence:
		return fmt.Sprintf("Error: portfolio could not be saved (%v).", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
