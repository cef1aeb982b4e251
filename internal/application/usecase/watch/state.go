package watch

import (
	"sync"

	"stockfolio/internal/application/service"
	"stockfolio/internal/domain"
)

type symState struct {
	holding domain.Holding
	price   domain.PriceState
}

// State keeps the holdings seen in the last pass together with the direction
// of each price relative to the pass before.
type State struct {
	mu sync.Mutex

	order []string
	syms  map[string]*symState
}

func NewState() *State {
	return &State{syms: make(map[string]*symState)}
}

// Apply records a refresh pass and returns the number of prices that moved.
// Symbols no longer held are dropped.
func (s *State) Apply(holdings []domain.Holding, report service.RefreshReport) int {
	refreshed := make(map[string]bool, len(report.Refreshed))
	for _, sym := range report.Refreshed {
		refreshed[sym] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	moved := 0
	order := make([]string, 0, len(holdings))
	next := make(map[string]*symState, len(holdings))
	for _, h := range holdings {
		st := s.syms[h.Symbol]
		if st == nil {
			st = &symState{}
		}
		st.holding = h
		if st.price.Update(h, refreshed[h.Symbol]) {
			moved++
		}
		order = append(order, h.Symbol)
		next[h.Symbol] = st
	}
	s.order = order
	s.syms = next
	return moved
}

func (s *State) Symbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Snapshot returns a copy of the per-symbol state.
func (s *State) Snapshot() map[string]symState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]symState, len(s.syms))
	for k, v := range s.syms {
		out[k] = *v
	}
	return out
}
