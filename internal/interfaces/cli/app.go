// Package cli implements the stockfolio subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"stockfolio/internal/application/service"
	"stockfolio/internal/domain"
	"stockfolio/internal/infrastructure/config"
	"stockfolio/internal/infrastructure/logger"
	"stockfolio/internal/infrastructure/svc"
	"stockfolio/internal/interfaces/console"
)

// App carries what every subcommand needs to open the portfolio.
type App struct {
	ConfigPath *string
	In         io.Reader
	Out        io.Writer

	loadConfig func(path string) (*config.Config, error)
}

func NewApp(configPath *string, in io.Reader, out io.Writer) *App {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &App{ConfigPath: configPath, In: in, Out: out, loadConfig: config.Load}
}

// Register adds the subcommands to c.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&addCmd{app: app}, "portfolio")
	c.Register(&sellCmd{app: app}, "portfolio")
	c.Register(&viewCmd{app: app}, "portfolio")
	c.Register(&refreshCmd{app: app}, "portfolio")
	c.Register(&watchCmd{app: app}, "portfolio")
	c.Register(&shellCmd{app: app}, "portfolio")
}

// open loads configuration and wires a ServiceContext; the caller closes it.
func (a *App) open(ctx context.Context) (*svc.ServiceContext, error) {
	path := config.DefaultPath
	if a.ConfigPath != nil && *a.ConfigPath != "" {
		path = *a.ConfigPath
	}
	cfg, err := a.loadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	logger.Setup(cfg.App.LogLevel)
	return svc.New(ctx, cfg, a.Out)
}

// openOrFail logs the failure and returns nil when the portfolio cannot be
// opened.
func (a *App) openOrFail(ctx context.Context) *svc.ServiceContext {
	sc, err := a.open(ctx)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return nil
	}
	return sc
}

func parseQuantity(s string) (int64, error) {
	q, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || q <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	return q, nil
}

// reportSkipped lists symbols whose price could not be refreshed.
func reportSkipped(sink *console.Sink, r service.RefreshReport) {
	for _, s := range r.Skipped {
		if s.Outcome == service.QuoteRateLimited {
			_ = sink.WriteLine(fmt.Sprintf("API Limit Exceeded, price of %s not refreshed.", s.Symbol))
			continue
		}
		_ = sink.WriteLine(fmt.Sprintf("Unable to get price for %s", s.Symbol))
	}
}
