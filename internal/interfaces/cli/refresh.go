package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"stockfolio/internal/interfaces/console"
)

type refreshCmd struct {
	app *App
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "requote every holding and save" }
func (*refreshCmd) Usage() string {
	return `stockfolio refresh

  Requotes every held symbol once. Symbols that cannot be quoted keep their
  last price.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sc := c.app.openOrFail(ctx)
	if sc == nil {
		return subcommands.ExitFailure
	}
	defer sc.Close()

	report, err := sc.Portfolio.RefreshAndSave(ctx)
	reportSkipped(sc.Sink, report)
	if err != nil {
		_ = sc.Sink.Block(console.ErrorMessage(err))
		return subcommands.ExitFailure
	}
	_ = sc.Sink.Block(fmt.Sprintf("%d of %d prices refreshed.", len(report.Refreshed), len(report.Refreshed)+len(report.Skipped)))
	return subcommands.ExitSuccess
}
