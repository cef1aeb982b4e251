package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"stockfolio/internal/application/port"
	"stockfolio/internal/domain"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) GetDB() *sql.DB {
	return r.db
}

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS positions (
  symbol TEXT PRIMARY KEY,
  quantity INTEGER NOT NULL,
  current_price REAL,
  current_value REAL,
  priced_at INTEGER
);
`)
	return err
}

func (r *Repo) ListHoldings(ctx context.Context) ([]domain.Holding, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT symbol, quantity, current_price, current_value, priced_at FROM positions ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		var (
			h        domain.Holding
			price    sql.NullFloat64
			value    sql.NullFloat64
			pricedAt sql.NullInt64
		)
		if err := rows.Scan(&h.Symbol, &h.Quantity, &price, &value, &pricedAt); err != nil {
			return nil, err
		}
		if price.Valid {
			h.LastPrice = decimal.NewNullDecimal(decimal.NewFromFloat(price.Float64))
		}
		if value.Valid {
			h.LastValue = decimal.NewNullDecimal(decimal.NewFromFloat(value.Float64))
		}
		if pricedAt.Valid {
			h.PricedAt = time.UnixMilli(pricedAt.Int64)
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func (r *Repo) SaveHoldings(ctx context.Context, holdings []domain.Holding, deleted []string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, h := range holdings {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO positions(symbol, quantity, current_price, current_value, priced_at)
			VALUES(?, ?, ?, ?, ?)
			ON CONFLICT(symbol) DO UPDATE SET
			quantity=excluded.quantity, current_price=excluded.current_price,
			current_value=excluded.current_value, priced_at=excluded.priced_at
		`, h.Symbol, h.Quantity, nullFloat(h.LastPrice), nullFloat(h.LastValue), nullMillis(h.PricedAt))
		if err != nil {
			return fmt.Errorf("upsert %s: %w", h.Symbol, err)
		}
	}
	for _, s := range deleted {
		if _, err = tx.ExecContext(ctx, `DELETE FROM positions WHERE symbol=?`, s); err != nil {
			return fmt.Errorf("delete %s: %w", s, err)
		}
	}
	return tx.Commit()
}

func nullFloat(d decimal.NullDecimal) sql.NullFloat64 {
	if !d.Valid {
		return sql.NullFloat64{}
	}
	f, _ := d.Decimal.Float64()
	return sql.NullFloat64{Float64: f, Valid: true}
}

func nullMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

var _ port.Repository = (*Repo)(nil)
