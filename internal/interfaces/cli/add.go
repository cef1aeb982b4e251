package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"stockfolio/internal/interfaces/console"
)

type addCmd struct {
	app *App
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "buy shares of a symbol" }
func (*addCmd) Usage() string {
	return `stockfolio add SYMBOL QUANTITY

  Adds QUANTITY shares of SYMBOL. The symbol must currently quote.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	m, err := sc.Portfolio.Add(ctx, f.Arg(0), qty)
	if err != nil {
		_ = sc.Sink.Block(console.ErrorMessage(err))
		return subcommands.ExitFailure
	}
	reportSkipped(sc.Sink, m.Refresh)
	_ = sc.Sink.Block(fmt.Sprintf("%s added successfully to your portfolio!", m.Symbol))
	return subcommands.ExitSuccess
}
