package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"stockfolio/internal/application/port"
	"stockfolio/internal/domain"
)

// ManagerDeps holds the collaborators of a PortfolioManager.
type ManagerDeps struct {
	Store  port.Repository
	Quotes port.QuoteSource

	// RevalueAll requotes every holding on each add/remove. When false only
	// the touched symbol is requoted.
	RevalueAll bool

	// Now defaults to time.Now. Price timestamps are kept to the millisecond,
	// the precision the stores persist.
	Now func() time.Time
}

// Mutation describes a successful add or remove.
type Mutation struct {
	Symbol string
	// Quantity is the amount added or sold.
	Quantity int64
	// Holding is the resulting position, nil when the position was closed.
	Holding *domain.Holding
	Refresh RefreshReport
}

// SkippedQuote is a symbol whose price could not be refreshed in a pass.
type SkippedQuote struct {
	Symbol  string
	Outcome QuoteOutcome
	Err     error
}

// RefreshReport lists the outcome of one refresh pass.
type RefreshReport struct {
	Refreshed []string
	Skipped   []SkippedQuote
}

// Partial reports whether at least one symbol kept a stale price.
func (r RefreshReport) Partial() bool { return len(r.Skipped) > 0 }

func (r RefreshReport) SkippedSymbols() []string {
	out := make([]string, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		out = append(out, s.Symbol)
	}
	return out
}

// PortfolioManager keeps the in-memory portfolio, the position store and the
// quote source reconciled. It is not safe for concurrent use; operations are
// expected to run one at a time.
type PortfolioManager struct {
	store      port.Repository
	quotes     port.QuoteSource
	revalueAll bool
	now        func() time.Time

	portfolio *domain.Portfolio
	needsSync bool
}

func NewPortfolioManager(deps ManagerDeps) *PortfolioManager {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &PortfolioManager{
		store:      deps.Store,
		quotes:     deps.Quotes,
		revalueAll: deps.RevalueAll,
		now:        now,
		portfolio:  domain.NewPortfolio(),
		needsSync:  true,
	}
}

// Sync replaces the in-memory portfolio with a full scan of the store.
func (m *PortfolioManager) Sync(ctx context.Context) error {
	hs, err := m.store.ListHoldings(ctx)
	if err != nil {
		m.needsSync = true
		return &domain.OpError{Op: "sync", Err: domain.Persistence(err)}
	}
	m.portfolio = domain.NewPortfolio(hs...)
	m.needsSync = false
	log.Debug().Int("holdings", len(hs)).Msg("portfolio synced from store")
	return nil
}

// NeedsSync reports whether memory may have diverged from the store.
func (m *PortfolioManager) NeedsSync() bool { return m.needsSync }

// Holdings returns the in-memory holdings ordered by symbol.
func (m *PortfolioManager) Holdings() []domain.Holding {
	return m.portfolio.Holdings()
}

// Add buys quantity shares of symbol. The symbol is accepted only if it
// currently quotes.
func (m *PortfolioManager) Add(ctx context.Context, symbol string, quantity int64) (*Mutation, error) {
	const op = "add"
	symbol = domain.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, &domain.OpError{Op: op, Err: domain.ErrInvalidSymbol}
	}
	if quantity <= 0 {
		return nil, &domain.OpError{Op: op, Symbol: symbol, Err: domain.ErrInvalidQuantity}
	}
	if err := m.resync(ctx, op, symbol); err != nil {
		return nil, err
	}

	q := fetchQuote(ctx, m.quotes, symbol)
	switch q.outcome {
	case QuoteRateLimited:
		log.Warn().Err(q.err).Str("symbol", symbol).Msg("add rejected: quote source rate limited")
		return nil, &domain.OpError{Op: op, Symbol: symbol, Err: q.err}
	case QuoteUnavailable:
		log.Warn().Err(q.err).Str("symbol", symbol).Msg("add rejected: no usable quote")
		return nil, &domain.OpError{Op: op, Symbol: symbol, Err: wrapInvalidSymbol(q.err)}
	}

	h, held := m.portfolio.Get(symbol)
	if held {
		if h.Quantity > math.MaxInt64-quantity {
			return nil, &domain.OpError{Op: op, Symbol: symbol, Err: domain.ErrInvalidQuantity}
		}
		h.SetQuantity(h.Quantity + quantity)
	} else {
		h = domain.NewHolding(symbol, quantity)
	}
	m.portfolio.Put(h)

	report := m.revalue(ctx, symbol, map[string]quoteResult{symbol: q})
	if err := m.persist(ctx, nil); err != nil {
		return nil, &domain.OpError{Op: op, Symbol: symbol, Err: err}
	}

	res := &Mutation{Symbol: symbol, Quantity: quantity, Refresh: report}
	if cur, ok := m.portfolio.Get(symbol); ok {
		res.Holding = &cur
	}
	log.Info().
		Str("symbol", symbol).
		Int64("quantity", quantity).
		Int64("held", res.Holding.Quantity).
		Int("stale", len(report.Skipped)).
		Msg("shares added")
	return res, nil
}

// Remove sells quantity shares of symbol. Selling the whole position deletes
// it from memory and from the store.
func (m *PortfolioManager) Remove(ctx context.Context, symbol string, quantity int64) (*Mutation, error) {
	const op = "remove"
	symbol = domain.NormalizeSymbol(symbol)
	if quantity <= 0 {
		return nil, &domain.OpError{Op: op, Symbol: symbol, Err: domain.ErrInvalidQuantity}
	}
	if err := m.resync(ctx, op, symbol); err != nil {
		return nil, err
	}

	h, held := m.portfolio.Get(symbol)
	if !held {
		return nil, &domain.OpError{Op: op, Symbol: symbol, Err: domain.ErrNotFound}
	}
	if h.Quantity < quantity {
		return nil, &domain.OpError{Op: op, Symbol: symbol, Err: domain.ErrInsufficientQuantity}
	}

	var deleted []string
	if remaining := h.Quantity - quantity; remaining == 0 {
		m.portfolio.Delete(symbol)
		deleted = []string{symbol}
	} else {
		h.SetQuantity(remaining)
		m.portfolio.Put(h)
	}

	report := m.revalue(ctx, symbol, nil)
	if err := m.persist(ctx, deleted); err != nil {
		return nil, &domain.OpError{Op: op, Symbol: symbol, Err: err}
	}

	res := &Mutation{Symbol: symbol, Quantity: quantity, Refresh: report}
	if cur, ok := m.portfolio.Get(symbol); ok {
		res.Holding = &cur
	}
	log.Info().
		Str("symbol", symbol).
		Int64("quantity", quantity).
		Bool("closed", res.Holding == nil).
		Int("stale", len(report.Skipped)).
		Msg("shares sold")
	return res, nil
}

// RefreshAll requotes every held symbol once. Symbols that cannot be quoted
// keep their previous price and value; the pass itself never fails.
func (m *PortfolioManager) RefreshAll(ctx context.Context) RefreshReport {
	return m.refresh(ctx, m.portfolio.Symbols(), nil)
}

// RefreshAndSave runs RefreshAll and persists the result.
func (m *PortfolioManager) RefreshAndSave(ctx context.Context) (RefreshReport, error) {
	const op = "refresh"
	if err := m.resync(ctx, op, ""); err != nil {
		return RefreshReport{}, err
	}
	report := m.RefreshAll(ctx)
	if err := m.persist(ctx, nil); err != nil {
		return report, &domain.OpError{Op: op, Err: err}
	}
	return report, nil
}

// View returns the holdings as last durably stored, ordered by symbol.
func (m *PortfolioManager) View(ctx context.Context) ([]domain.Holding, error) {
	hs, err := m.store.ListHoldings(ctx)
	if err != nil {
		return nil, &domain.OpError{Op: "view", Err: domain.Persistence(err)}
	}
	domain.SortHoldings(hs)
	return hs, nil
}

func (m *PortfolioManager) resync(ctx context.Context, op, symbol string) error {
	if !m.needsSync {
		return nil
	}
	if err := m.Sync(ctx); err != nil {
		return &domain.OpError{Op: op, Symbol: symbol, Err: unwrapOp(err)}
	}
	return nil
}

// revalue refreshes prices after a mutation of touched. known holds quotes
// already obtained during this operation.
func (m *PortfolioManager) revalue(ctx context.Context, touched string, known map[string]quoteResult) RefreshReport {
	if m.revalueAll {
		return m.refresh(ctx, m.portfolio.Symbols(), known)
	}
	if _, ok := m.portfolio.Get(touched); !ok {
		return RefreshReport{}
	}
	return m.refresh(ctx, []string{touched}, known)
}

func (m *PortfolioManager) refresh(ctx context.Context, symbols []string, known map[string]quoteResult) RefreshReport {
	var report RefreshReport
	for _, symbol := range symbols {
		q, ok := known[symbol]
		if !ok {
			q = fetchQuote(ctx, m.quotes, symbol)
		}
		if q.outcome != QuotePrice {
			log.Warn().
				Err(q.err).
				Str("symbol", symbol).
				Stringer("outcome", q.outcome).
				Msg("price not refreshed, keeping last known value")
			report.Skipped = append(report.Skipped, SkippedQuote{Symbol: symbol, Outcome: q.outcome, Err: q.err})
			continue
		}
		h, _ := m.portfolio.Get(symbol)
		h.Reprice(q.price, m.now().Truncate(time.Millisecond))
		m.portfolio.Put(h)
		report.Refreshed = append(report.Refreshed, symbol)
	}
	return report
}

// persist writes every in-memory holding and deletes the removed symbols in
// one store call. On failure memory is flagged for re-sync.
func (m *PortfolioManager) persist(ctx context.Context, deleted []string) error {
	holdings := m.portfolio.Holdings()
	if err := m.store.SaveHoldings(ctx, holdings, deleted); err != nil {
		m.needsSync = true
		log.Error().Err(err).Int("holdings", len(holdings)).Strs("deleted", deleted).Msg("persist failed, portfolio needs re-sync")
		return domain.Persistence(err)
	}
	return nil
}
