package watch

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"stockfolio/internal/domain"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiDim    = "\033[2m"
)

func colorize(s, c string) string { return c + s + ansiReset }

// StaleMarker follows a price that was not refreshed in the last pass.
const StaleMarker = "*"

type Formatter struct {
	// Money renders a value; defaults to two fixed decimals.
	Money func(decimal.Decimal) string
	Color bool
}

func NewFormatter(money func(decimal.Decimal) string, color bool) *Formatter {
	if money == nil {
		money = func(d decimal.Decimal) string { return d.StringFixed(domain.ValuePlaces) }
	}
	return &Formatter{Money: money, Color: color}
}

func (f *Formatter) paint(s, c string) string {
	if !f.Color {
		return s
	}
	return colorize(s, c)
}

// Render builds one snapshot line:
//
//	[STOCKFOLIO] AAPL 10 @ 150.00 = $1,500.00  ||  MSFT 2 @ --  ||  total $1,500.00
func (f *Formatter) Render(st *State) string {
	snap := st.Snapshot()
	symbols := st.Symbols()

	var sb strings.Builder
	sb.WriteString(f.paint("[STOCKFOLIO] ", ansiDim))
	if len(symbols) == 0 {
		sb.WriteString("portfolio is empty")
		return sb.String()
	}

	total := decimal.Zero
	for i, sym := range symbols {
		if i > 0 {
			sb.WriteString(f.paint("  ||  ", ansiDim))
		}
		ss := snap[sym]
		h := ss.holding

		sb.WriteString(sym)
		sb.WriteString(" ")
		sb.WriteString(strconv.FormatInt(h.Quantity, 10))
		sb.WriteString(" @ ")

		if !h.LastPrice.Valid {
			sb.WriteString(f.paint("--", ansiYellow))
			continue
		}

		col := ansiYellow
		switch ss.price.Direction {
		case domain.DirectionUp:
			col = ansiGreen
		case domain.DirectionDown:
			col = ansiRed
		}
		px := h.LastPrice.Decimal.StringFixed(domain.ValuePlaces)
		if ss.price.Stale {
			px += StaleMarker
		}
		sb.WriteString(f.paint(px, col))

		if h.LastValue.Valid {
			sb.WriteString(" = ")
			sb.WriteString(f.Money(h.LastValue.Decimal))
			total = total.Add(h.LastValue.Decimal)
		}
	}

	sb.WriteString(f.paint("  ||  ", ansiDim))
	sb.WriteString("total ")
	sb.WriteString(f.Money(total))
	return sb.String()
}
