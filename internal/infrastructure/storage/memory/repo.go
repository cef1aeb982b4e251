package memory

import (
	"context"
	"sync"

	"stockfolio/internal/application/port"
	"stockfolio/internal/domain"
)

// Repo is an in-memory position table. Nothing survives Close.
type Repo struct {
	mu   sync.RWMutex
	rows map[string]domain.Holding
}

// New creates an empty in-memory repository
func New() *Repo {
	return &Repo{rows: make(map[string]domain.Holding)}
}

func (r *Repo) ListHoldings(ctx context.Context) ([]domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Holding, 0, len(r.rows))
	for _, h := range r.rows {
		out = append(out, h)
	}
	domain.SortHoldings(out)
	return out, nil
}

func (r *Repo) SaveHoldings(ctx context.Context, holdings []domain.Holding, deleted []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range holdings {
		r.rows[h.Symbol] = h
	}
	for _, s := range deleted {
		delete(r.rows, s)
	}
	return nil
}

func (r *Repo) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = make(map[string]domain.Holding)
	return nil
}

var _ port.Repository = (*Repo)(nil)
