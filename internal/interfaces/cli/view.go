package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"stockfolio/internal/interfaces/console"
)

type viewCmd struct {
	app *App

	plain   bool
	refresh bool
	style   string
	width   int
}

func (*viewCmd) Name() string     { return "view" }
func (*viewCmd) Synopsis() string { return "display the stored portfolio" }
func (*viewCmd) Usage() string {
	return `stockfolio view [-plain] [-refresh] [-style <name>] [-width <n>]

  Displays holdings as last saved. No quotes are fetched unless -refresh is set.
`
}

func (c *viewCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "print plain text instead of a styled table")
	f.BoolVar(&c.refresh, "refresh", false, "refresh and save prices before displaying")
	f.StringVar(&c.style, "style", "auto", "glamour style: auto, dark, light, notty, ...")
	f.IntVar(&c.width, "width", 100, "word wrap width of the styled table")
}

func (c *viewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sc := c.app.openOrFail(ctx)
	if sc == nil {
		return subcommands.ExitFailure
	}
	defer sc.Close()

	if c.refresh {
		report, err := sc.Portfolio.RefreshAndSave(ctx)
		if err != nil {
			_ = sc.Sink.Block(console.ErrorMessage(err))
			return subcommands.ExitFailure
		}
		reportSkipped(sc.Sink, report)
	}

	holdings, err := sc.Portfolio.View(ctx)
	if err != nil {
		_ = sc.Sink.Block(console.ErrorMessage(err))
		return subcommands.ExitFailure
	}

	if c.plain {
		if len(holdings) == 0 {
			_ = sc.Sink.Block("Your portfolio is empty!")
			return subcommands.ExitSuccess
		}
		_ = sc.Sink.WriteLine(console.PlainView(holdings))
		return subcommands.ExitSuccess
	}

	md := console.ViewMarkdown(holdings, sc.Config.Display.Currency)
	out, err := console.RenderMarkdown(md, c.style, c.width)
	if err != nil {
		// fall back to the raw markdown
		out = md
	}
	_ = sc.Sink.WriteLine(out)
	return subcommands.ExitSuccess
}
