package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValuePlaces is the number of decimal places a holding value is rounded to.
const ValuePlaces = 2

// Holding is one symbol's current position.
// LastPrice, LastValue and PricedAt stay invalid/zero until the first
// successful price observation.
type Holding struct {
	Symbol    string              `json:"symbol"`
	Quantity  int64               `json:"quantity"`
	LastPrice decimal.NullDecimal `json:"last_price"`
	LastValue decimal.NullDecimal `json:"last_value"`
	PricedAt  time.Time           `json:"priced_at"`
}

// NewHolding creates an unpriced holding.
func NewHolding(symbol string, quantity int64) Holding {
	return Holding{Symbol: NormalizeSymbol(symbol), Quantity: quantity}
}

// Priced reports whether a price was ever observed for the holding.
func (h Holding) Priced() bool {
	return h.LastPrice.Valid
}

// Reprice records a new observed price and recomputes the value from it.
func (h *Holding) Reprice(price decimal.Decimal, at time.Time) {
	h.LastPrice = decimal.NewNullDecimal(price)
	h.LastValue = decimal.NewNullDecimal(Value(price, h.Quantity))
	h.PricedAt = at
}

// SetQuantity changes the quantity and keeps the value in line with the
// last known price.
func (h *Holding) SetQuantity(quantity int64) {
	h.Quantity = quantity
	if h.LastPrice.Valid {
		h.LastValue = decimal.NewNullDecimal(Value(h.LastPrice.Decimal, quantity))
	}
}

// Equal compares holdings by value, ignoring decimal representation and the
// monotonic clock reading.
func (h Holding) Equal(o Holding) bool {
	return h.Symbol == o.Symbol &&
		h.Quantity == o.Quantity &&
		nullEqual(h.LastPrice, o.LastPrice) &&
		nullEqual(h.LastValue, o.LastValue) &&
		h.PricedAt.Equal(o.PricedAt)
}

// Value returns round(price * quantity, 2).
func Value(price decimal.Decimal, quantity int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(quantity)).Round(ValuePlaces)
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func nullEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}
