package composite

import (
	"context"
	"errors"

	"stockfolio/internal/application/port"
	"stockfolio/internal/domain"
)

// Repo reads from the primary repository and writes to every repository.
type Repo struct {
	primary port.Repository
	repos   []port.Repository
}

func New(primary port.Repository, mirrors ...port.Repository) *Repo {
	// nil mirrors are allowed; filter in constructor for safety
	out := make([]port.Repository, 0, len(mirrors)+1)
	out = append(out, primary)
	for _, r := range mirrors {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{primary: primary, repos: out}
}

func (r *Repo) ListHoldings(ctx context.Context) ([]domain.Holding, error) {
	return r.primary.ListHoldings(ctx)
}

// SaveHoldings writes to every repository and returns the first error. A
// mirror failure therefore fails the save even when the primary committed.
func (r *Repo) SaveHoldings(ctx context.Context, holdings []domain.Holding, deleted []string) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.SaveHoldings(ctx, holdings, deleted); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) Close() error {
	var errs []error
	for _, repo := range r.repos {
		if err := repo.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ port.Repository = (*Repo)(nil)
