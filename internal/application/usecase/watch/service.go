package watch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"stockfolio/internal/application/port"
	"stockfolio/internal/application/service"
	"stockfolio/internal/domain"
)

// Refresher is the part of the portfolio manager a watcher drives.
type Refresher interface {
	RefreshAndSave(ctx context.Context) (service.RefreshReport, error)
	Holdings() []domain.Holding
}

type ServiceDeps struct {
	Portfolio Refresher
	Sink      port.Sink
	Formatter *Formatter
	Now       func() time.Time
}

// Service is a scheduled job that refreshes and saves the portfolio and
// writes one snapshot line per pass.
type Service struct {
	deps ServiceDeps
	st   *State
	fmt  *Formatter
}

func NewService(deps ServiceDeps) *Service {
	if deps.Formatter == nil {
		deps.Formatter = NewFormatter(nil, false)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{
		deps: deps,
		st:   NewState(),
		fmt:  deps.Formatter,
	}
}

func (s *Service) Name() string { return "portfolio-refresh" }

// Run performs one pass. A persistence failure is returned after the
// refreshed in-memory view has been written.
func (s *Service) Run(ctx context.Context) error {
	report, err := s.deps.Portfolio.RefreshAndSave(ctx)
	moved := s.st.Apply(s.deps.Portfolio.Holdings(), report)

	line := s.fmt.Render(s.st)
	if werr := s.deps.Sink.WriteSnapshot(s.deps.Now(), line); werr != nil {
		log.Warn().Err(werr).Msg("snapshot write failed")
	}

	log.Debug().
		Int("refreshed", len(report.Refreshed)).
		Strs("stale", report.SkippedSymbols()).
		Int("moved", moved).
		Msg("watch pass done")
	return err
}
