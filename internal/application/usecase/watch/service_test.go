package watch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockfolio/internal/application/service"
	"stockfolio/internal/domain"
)

type fakeRefresher struct {
	passes   [][]domain.Holding
	reports  []service.RefreshReport
	err      error
	i        int
	holdings []domain.Holding
}

func (f *fakeRefresher) RefreshAndSave(ctx context.Context) (service.RefreshReport, error) {
	f.holdings = f.passes[f.i]
	r := f.reports[f.i]
	f.i++
	return r, f.err
}

func (f *fakeRefresher) Holdings() []domain.Holding { return f.holdings }

type recordingSink struct {
	lines []string
	times []time.Time
}

func (s *recordingSink) WriteLine(line string) error { s.lines = append(s.lines, line); return nil }

func (s *recordingSink) WriteSnapshot(ts time.Time, line string) error {
	s.times = append(s.times, ts)
	s.lines = append(s.lines, line)
	return nil
}

func (s *recordingSink) NewLine() error { return nil }

func priced(symbol string, qty int64, price string) domain.Holding {
	h := domain.NewHolding(symbol, qty)
	h.Reprice(decimal.RequireFromString(price), time.Unix(0, 0))
	return h
}

func TestServiceRunWritesSnapshots(t *testing.T) {
	ts := time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC)
	ref := &fakeRefresher{
		passes: [][]domain.Holding{
			{priced("AAPL", 10, "150"), priced("MSFT", 2, "400")},
			{priced("AAPL", 10, "151"), priced("MSFT", 2, "400")},
		},
		reports: []service.RefreshReport{
			{Refreshed: []string{"AAPL", "MSFT"}},
			{Refreshed: []string{"AAPL"}, Skipped: []service.SkippedQuote{{Symbol: "MSFT", Outcome: service.QuoteRateLimited}}},
		},
	}
	sink := &recordingSink{}
	svc := NewService(ServiceDeps{Portfolio: ref, Sink: sink, Now: func() time.Time { return ts }})

	require.NoError(t, svc.Run(context.Background()))
	require.NoError(t, svc.Run(context.Background()))

	require.Len(t, sink.lines, 2)
	assert.Equal(t, ts, sink.times[0])
	assert.Equal(t, "[STOCKFOLIO] AAPL 10 @ 150.00 = 1500.00  ||  MSFT 2 @ 400.00 = 800.00  ||  total 2300.00", sink.lines[0])
	assert.Equal(t, "[STOCKFOLIO] AAPL 10 @ 151.00 = 1510.00  ||  MSFT 2 @ 400.00* = 800.00  ||  total 2310.00", sink.lines[1])

	snap := svc.st.Snapshot()
	assert.Equal(t, domain.DirectionUp, snap["AAPL"].price.Direction)
	assert.True(t, snap["MSFT"].price.Stale)
}

func TestServiceRunReturnsPersistenceError(t *testing.T) {
	boom := errors.New("disk full")
	ref := &fakeRefresher{
		passes:  [][]domain.Holding{{priced("AAPL", 1, "10")}},
		reports: []service.RefreshReport{{Refreshed: []string{"AAPL"}}},
		err:     boom,
	}
	sink := &recordingSink{}
	svc := NewService(ServiceDeps{Portfolio: ref, Sink: sink})

	assert.ErrorIs(t, svc.Run(context.Background()), boom)
	require.Len(t, sink.lines, 1)
	assert.Contains(t, sink.lines[0], "AAPL 1 @ 10.00")
}

func TestFormatterColorsAndEmpty(t *testing.T) {
	st := NewState()
	f := NewFormatter(nil, true)
	assert.True(t, strings.HasSuffix(f.Render(st), "portfolio is empty"))

	st.Apply([]domain.Holding{priced("AAPL", 1, "10")}, service.RefreshReport{Refreshed: []string{"AAPL"}})
	st.Apply([]domain.Holding{priced("AAPL", 1, "9")}, service.RefreshReport{Refreshed: []string{"AAPL"}})
	assert.Contains(t, f.Render(st), ansiRed+"9.00"+ansiReset)

	st.Apply([]domain.Holding{domain.NewHolding("NEW", 3)}, service.RefreshReport{Skipped: []service.SkippedQuote{{Symbol: "NEW"}}})
	assert.Equal(t, []string{"NEW"}, st.Symbols())
	assert.Contains(t, f.Render(st), "NEW 3 @ "+ansiYellow+"--")
}
