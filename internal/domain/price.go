package domain

import "github.com/shopspring/decimal"

// Direction represents the price movement direction
type Direction int

const (
	DirectionSame Direction = 0
	DirectionUp   Direction = +1
	DirectionDown Direction = -1
)

// PriceState tracks the last price seen for one symbol across refresh passes.
type PriceState struct {
	Price     decimal.Decimal
	HasValue  bool
	Direction Direction
	Stale     bool
}

// Update applies the holding's current price and reports whether it moved.
// A holding that was skipped by the last refresh is marked stale and keeps
// its previous direction.
func (ps *PriceState) Update(h Holding, refreshed bool) bool {
	ps.Stale = !refreshed
	if !h.LastPrice.Valid {
		return false
	}
	n := h.LastPrice.Decimal
	if !ps.HasValue {
		ps.HasValue = true
		ps.Price = n
		ps.Direction = DirectionSame
		return false
	}
	if !refreshed {
		return false
	}

	switch n.Cmp(ps.Price) {
	case 1:
		ps.Direction = DirectionUp
	case -1:
		ps.Direction = DirectionDown
	default:
		ps.Direction = DirectionSame
	}
	moved := !n.Equal(ps.Price)
	ps.Price = n
	return moved
}
