package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"stockfolio/internal/application/port"
)

// QuoteCache serves recent quotes from a Redis hash and asks the wrapped
// source on a miss. Only successful quotes are cached.
type QuoteCache struct {
	rdb      *redis.Client
	next     port.QuoteSource
	ttl      time.Duration
	keyQuote string // prefix + ":quotes"
	now      func() time.Time
}

type CachedQuote struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
	Ts     int64  `json:"ts"`
}

func NewQuoteCache(rdb *redis.Client, next port.QuoteSource, prefix string, ttl time.Duration) *QuoteCache {
	return &QuoteCache{
		rdb:      rdb,
		next:     next,
		ttl:      ttl,
		keyQuote: prefix + ":quotes",
		now:      time.Now,
	}
}

func (c *QuoteCache) Name() string { return c.next.Name() + "+redis" }

func (c *QuoteCache) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if price, ok := c.lookup(ctx, symbol); ok {
		return price, nil
	}
	price, err := c.next.Quote(ctx, symbol)
	if err != nil {
		return price, err
	}
	if price.IsPositive() {
		if err := c.store(ctx, symbol, price); err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("quote cache write failed")
		}
	}
	return price, nil
}

func (c *QuoteCache) lookup(ctx context.Context, symbol string) (decimal.Decimal, bool) {
	raw, err := c.rdb.HGet(ctx, c.keyQuote, symbol).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("symbol", symbol).Msg("quote cache read failed")
		}
		return decimal.Zero, false
	}

	var cq CachedQuote
	if err := json.Unmarshal([]byte(raw), &cq); err != nil {
		return decimal.Zero, false
	}
	if c.now().Sub(time.UnixMilli(cq.Ts)) > c.ttl {
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(cq.Price)
	if err != nil || !price.IsPositive() {
		return decimal.Zero, false
	}
	log.Debug().Str("symbol", symbol).Str("price", cq.Price).Msg("quote served from cache")
	return price, true
}

func (c *QuoteCache) store(ctx context.Context, symbol string, price decimal.Decimal) error {
	cq := CachedQuote{Symbol: symbol, Price: price.String(), Ts: c.now().UnixMilli()}
	b, _ := json.Marshal(cq)

	// Hash: field = "AAPL" -> json
	pipe := c.rdb.Pipeline()
	pipe.HSet(ctx, c.keyQuote, symbol, string(b))
	if c.ttl > 0 {
		pipe.Expire(ctx, c.keyQuote, c.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

var _ port.QuoteSource = (*QuoteCache)(nil)
