package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"stockfolio/internal/application/port"
	"stockfolio/internal/infrastructure/config"
	"stockfolio/internal/infrastructure/storage/composite"
	"stockfolio/internal/infrastructure/storage/memory"
	pgrepo "stockfolio/internal/infrastructure/storage/postgres"
	sqliterepo "stockfolio/internal/infrastructure/storage/sqlite"
)

// ErrNoStorageEnabled is returned when neither sqlite nor postgres is enabled
// and the app is not running ephemeral.
var ErrNoStorageEnabled = errors.New("no position store enabled (enable sqlite or postgres, or set app.ephemeral)")

// Container owns the storage connections.
type Container struct {
	cfg          *config.Config
	redisClient  *redis.Client
	sqliteRepo   *sqliterepo.Repo
	postgresRepo *pgrepo.Repo
	store        port.Repository
	closeOnce    sync.Once
	closerChain  []func() error
}

func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{
		cfg:         cfg,
		closerChain: make([]func() error, 0),
	}

	if err := c.initStorage(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// initStorage opens the enabled stores. SQLite is the primary when enabled,
// postgres then mirrors it.
func (c *Container) initStorage(ctx context.Context) error {
	if c.cfg.Redis.Enabled {
		if err := c.initRedis(ctx); err != nil {
			return fmt.Errorf("redis init failed: %w", err)
		}
	}
	if c.cfg.SQLite.Enabled {
		if err := c.initSQLite(); err != nil {
			return fmt.Errorf("sqlite init failed: %w", err)
		}
	}
	if c.cfg.Postgres.Enabled {
		if err := c.initPostgres(ctx); err != nil {
			return fmt.Errorf("postgres init failed: %w", err)
		}
	}

	switch {
	case c.sqliteRepo != nil && c.postgresRepo != nil:
		c.store = composite.New(c.sqliteRepo, c.postgresRepo)
	case c.sqliteRepo != nil:
		c.store = c.sqliteRepo
	case c.postgresRepo != nil:
		c.store = c.postgresRepo
	case c.cfg.App.Ephemeral:
		log.Warn().Msg("no store enabled, positions are kept in memory only")
		c.store = memory.New()
	default:
		return ErrNoStorageEnabled
	}
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.Addr,
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	c.redisClient = rdb
	c.closerChain = append(c.closerChain, func() error {
		log.Debug().Msg("closing redis connection")
		return rdb.Close()
	})

	log.Info().
		Str("addr", c.cfg.Redis.Addr).
		Int("db", c.cfg.Redis.DB).
		Msg("redis initialized")
	return nil
}

func (c *Container) initSQLite() error {
	repo, err := sqliterepo.New(c.cfg.SQLite.Path)
	if err != nil {
		return err
	}

	c.sqliteRepo = repo
	c.closerChain = append(c.closerChain, func() error {
		log.Debug().Msg("closing sqlite connection")
		return repo.Close()
	})

	log.Debug().
		Str("path", c.cfg.SQLite.Path).
		Msg("sqlite initialized")
	return nil
}

func (c *Container) initPostgres(ctx context.Context) error {
	repo, err := pgrepo.New(ctx, c.cfg.Postgres.DSN)
	if err != nil {
		return err
	}

	c.postgresRepo = repo
	c.closerChain = append(c.closerChain, func() error {
		log.Debug().Msg("closing postgres pool")
		return repo.Close()
	})

	log.Info().Msg("postgres initialized")
	return nil
}

func (c *Container) Config() *config.Config {
	return c.cfg
}

// Store is the position store the portfolio manager persists to.
func (c *Container) Store() port.Repository {
	return c.store
}

// RedisClient is nil unless redis is enabled.
func (c *Container) RedisClient() *redis.Client {
	return c.redisClient
}

func (c *Container) SQLiteRepo() *sqliterepo.Repo {
	return c.sqliteRepo
}

func (c *Container) PostgresRepo() *pgrepo.Repo {
	return c.postgresRepo
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	var err error
	c.closeOnce.Do(func() {
		for i := len(c.closerChain) - 1; i >= 0; i-- {
			if e := c.closerChain[i](); e != nil {
				log.Error().Err(e).Msg("error closing resource")
				if err == nil {
					err = e
				}
			}
		}
		log.Debug().Msg("container closed")
	})
	return err
}
