package svc

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"stockfolio/internal/application/port"
	"stockfolio/internal/application/service"
	"stockfolio/internal/application/usecase/watch"
	"stockfolio/internal/infrastructure/config"
	"stockfolio/internal/infrastructure/container"
	"stockfolio/internal/infrastructure/quote/alphavantage"
	redisrepo "stockfolio/internal/infrastructure/storage/redis"
	"stockfolio/internal/interfaces/console"
)

// ServiceContext wires configuration, storage, the quote source and the
// portfolio manager for one process run.
type ServiceContext struct {
	Ctx    context.Context
	Config *config.Config

	container *container.Container
	quotes    port.QuoteSource

	Sink      *console.Sink
	Portfolio *service.PortfolioManager

	closerChain []func() error
}

// New opens storage and builds the application components. out receives
// user-facing output; nil means stdout.
func New(ctx context.Context, cfg *config.Config, out io.Writer) (*ServiceContext, error) {
	sc := &ServiceContext{
		Ctx:         ctx,
		Config:      cfg,
		Sink:        console.NewSink(out),
		closerChain: make([]func() error, 0),
	}

	if err := sc.initializeComponents(); err != nil {
		_ = sc.Close()
		return nil, err
	}
	return sc, nil
}

// initializeComponents builds components in dependency order.
func (sc *ServiceContext) initializeComponents() error {
	c, err := container.New(sc.Ctx, sc.Config)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageInitFailed, err)
	}
	sc.container = c
	sc.closerChain = append(sc.closerChain, c.Close)

	sc.quotes = sc.buildQuoteSource()
	sc.Portfolio = service.NewPortfolioManager(service.ManagerDeps{
		Store:      c.Store(),
		Quotes:     sc.quotes,
		RevalueAll: sc.Config.Portfolio.RevalueAll,
	})

	log.Debug().
		Str("quotes", sc.quotes.Name()).
		Bool("revalue_all", sc.Config.Portfolio.RevalueAll).
		Msg("components initialized")
	return nil
}

func (sc *ServiceContext) buildQuoteSource() port.QuoteSource {
	var src port.QuoteSource = alphavantage.NewClient(
		sc.Config.Quote.BaseURL,
		sc.Config.Quote.APIKey,
		sc.Config.QuoteTimeout(),
	)
	if rdb := sc.container.RedisClient(); rdb != nil {
		src = redisrepo.NewQuoteCache(rdb, src, sc.Config.Redis.Prefix, sc.Config.RedisTTL())
	}
	return src
}

// Quotes returns the quote source, cache included when enabled.
func (sc *ServiceContext) Quotes() port.QuoteSource {
	return sc.quotes
}

func (sc *ServiceContext) Store() port.Repository {
	return sc.container.Store()
}

// Formatter renders watch lines in the configured currency.
func (sc *ServiceContext) Formatter(color bool) *watch.Formatter {
	return watch.NewFormatter(console.MoneyFormatter(sc.Config.Display.Currency), color)
}

// BuildWatchService builds the scheduled refresh job.
func (sc *ServiceContext) BuildWatchService(color bool) *watch.Service {
	return watch.NewService(watch.ServiceDeps{
		Portfolio: sc.Portfolio,
		Sink:      sc.Sink,
		Formatter: sc.Formatter(color),
	})
}

// Close releases everything New acquired, in reverse order.
func (sc *ServiceContext) Close() error {
	for i := len(sc.closerChain) - 1; i >= 0; i-- {
		if err := sc.closerChain[i](); err != nil {
			log.Error().Err(err).Msg("error closing resource")
		}
	}
	sc.closerChain = nil
	return nil
}
