package domain

import "sort"

// Portfolio is the set of holdings of one holder, keyed by symbol.
type Portfolio struct {
	holdings map[string]Holding
}

func NewPortfolio(holdings ...Holding) *Portfolio {
	p := &Portfolio{holdings: make(map[string]Holding, len(holdings))}
	for _, h := range holdings {
		p.Put(h)
	}
	return p
}

func (p *Portfolio) Get(symbol string) (Holding, bool) {
	h, ok := p.holdings[symbol]
	return h, ok
}

// Put inserts or replaces the holding for h.Symbol.
func (p *Portfolio) Put(h Holding) {
	p.holdings[h.Symbol] = h
}

func (p *Portfolio) Delete(symbol string) {
	delete(p.holdings, symbol)
}

func (p *Portfolio) Len() int { return len(p.holdings) }

// Symbols returns the held symbols in ascending order.
func (p *Portfolio) Symbols() []string {
	out := make([]string, 0, len(p.holdings))
	for s := range p.holdings {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Holdings returns a copy of all holdings ordered by symbol.
func (p *Portfolio) Holdings() []Holding {
	out := make([]Holding, 0, len(p.holdings))
	for _, s := range p.Symbols() {
		out = append(out, p.holdings[s])
	}
	return out
}

// SortHoldings orders holdings by symbol in place.
func SortHoldings(hs []Holding) {
	sort.Slice(hs, func(i, j int) bool { return hs[i].Symbol < hs[j].Symbol })
}
