package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"stockfolio/internal/interfaces/console"
)

type sellCmd struct {
	app *App
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares of a held symbol" }
func (*sellCmd) Usage() string {
	return `stockfolio sell SYMBOL QUANTITY

  Sells QUANTITY shares of SYMBOL. Selling the whole position removes it.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	sc := c.app.openOrFail(ctx)
	if sc == nil {
		return subcommands.ExitFailure
	}
	defer sc.Close()

	qty, err := parseQuantity(f.Arg(1))
	if err != nil {
		_ = sc.Sink.Block(console.ErrorMessage(err))
		return subcommands.ExitUsageError
	}

	m, err := sc.Portfolio.Remove(ctx, f.Arg(0), qty)
	if err != nil {
		_ = sc.Sink.Block(console.ErrorMessage(err))
		return subcommands.ExitFailure
	}
	reportSkipped(sc.Sink, m.Refresh)
	_ = sc.Sink.Block(fmt.Sprintf("%d stocks of %s sold successfully!", m.Quantity, m.Symbol))
	return subcommands.ExitSuccess
}
