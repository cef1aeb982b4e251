package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockfolio/internal/application/port"
	"stockfolio/internal/domain"
)

type Repo struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Repo, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.MaxConns = 5
	// numeric <-> decimal.Decimal / decimal.NullDecimal
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	r := &Repo{pool: pool}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS positions (
  symbol TEXT PRIMARY KEY,
  quantity BIGINT NOT NULL,
  current_price NUMERIC,
  current_value NUMERIC,
  priced_at TIMESTAMPTZ
);
`)
	return err
}

func (r *Repo) ListHoldings(ctx context.Context) ([]domain.Holding, error) {
	rows, err := r.pool.Query(ctx, `SELECT symbol, quantity, current_price, current_value, priced_at FROM positions ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		var (
			h        domain.Holding
			pricedAt *time.Time
		)
		if err := rows.Scan(&h.Symbol, &h.Quantity, &h.LastPrice, &h.LastValue, &pricedAt); err != nil {
			return nil, err
		}
		if pricedAt != nil {
			h.PricedAt = *pricedAt
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func (r *Repo) SaveHoldings(ctx context.Context, holdings []domain.Holding, deleted []string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, h := range holdings {
			var pricedAt *time.Time
			if !h.PricedAt.IsZero() {
				t := h.PricedAt
				pricedAt = &t
			}
			batch.Queue(`
				INSERT INTO positions(symbol, quantity, current_price, current_value, priced_at)
				VALUES($1, $2, $3, $4, $5)
				ON CONFLICT(symbol) DO UPDATE SET
				quantity=EXCLUDED.quantity, current_price=EXCLUDED.current_price,
				current_value=EXCLUDED.current_value, priced_at=EXCLUDED.priced_at
			`, h.Symbol, h.Quantity, h.LastPrice, h.LastValue, pricedAt)
		}
		for _, s := range deleted {
			batch.Queue(`DELETE FROM positions WHERE symbol=$1`, s)
		}
		if batch.Len() == 0 {
			return nil
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

var _ port.Repository = (*Repo)(nil)
