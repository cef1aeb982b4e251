package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"stockfolio/internal/infrastructure/svc"
	"stockfolio/internal/interfaces/console"
)

type shellCmd struct {
	app *App
}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "interactive add/sell/display menu" }
func (*shellCmd) Usage() string {
	return `stockfolio shell

  Runs the interactive menu: 1 Add, 2 Sell, 3 Display, 4 End.
`
}

func (c *shellCmd) SetFlags(f *flag.FlagSet) {}

func (c *shellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sc := c.app.openOrFail(ctx)
	if sc == nil {
		return subcommands.ExitFailure
	}
	defer sc.Close()

	if err := sc.Portfolio.Sync(ctx); err != nil {
		_ = sc.Sink.Block(console.ErrorMessage(err))
		return subcommands.ExitFailure
	}

	sh := &shell{sc: sc, in: bufio.NewScanner(c.app.In)}
	sh.run(ctx)
	return subcommands.ExitSuccess
}

type shell struct {
	sc *svc.ServiceContext
	in *bufio.Scanner
}

// prompt writes p and reads one line; ok is false at end of input.
func (s *shell) prompt(p string) (string, bool) {
	_, _ = fmt.Fprint(s.sc.Sink.Writer(), p)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *shell) run(ctx context.Context) {
	sink := s.sc.Sink
	for ctx.Err() == nil {
		_ = sink.WriteLine("1. Add Stock\n2. Sell Stock\n3. Display Portfolio\n4. End")
		choice, ok := s.prompt("Enter your choice (1/2/3/4): ")
		if !ok {
			_ = sink.NewLine()
			return
		}

		switch choice {
		case "1":
			if !s.add(ctx) {
				return
			}
		case "2":
			if !s.sell(ctx) {
				return
			}
		case "3":
			s.display(ctx)
		case "4":
			_ = sink.Block("Program ended!")
			return
		default:
			_ = sink.Block("Invalid choice. Please enter a valid option.")
		}
	}
}

func (s *shell) add(ctx context.Context) bool {
	symbol, ok := s.prompt("Enter stock symbol: ")
	if !ok {
		return false
	}
	raw, ok := s.prompt("Enter quantity: ")
	if !ok {
		return false
	}
	qty, err := parseQuantity(raw)
	if err != nil {
		_ = s.sc.Sink.Block(console.ErrorMessage(err))
		return true
	}

	m, err := s.sc.Portfolio.Add(ctx, symbol, qty)
	if err != nil {
		_ = s.sc.Sink.Block(console.ErrorMessage(err))
		return true
	}
	reportSkipped(s.sc.Sink, m.Refresh)
	_ = s.sc.Sink.Block(fmt.Sprintf("%s added successfully to your portfolio!", m.Symbol))
	return true
}

func (s *shell) sell(ctx context.Context) bool {
	if len(s.sc.Portfolio.Holdings()) == 0 {
		_ = s.sc.Sink.Block("Add a stock first to the portfolio")
		return true
	}
	symbol, ok := s.prompt("Enter stock symbol to sell: ")
	if !ok {
		return false
	}
	raw, ok := s.prompt("Enter quantity to sell: ")
	if !ok {
		return false
	}
	qty, err := parseQuantity(raw)
	if err != nil {
		_ = s.sc.Sink.Block(console.ErrorMessage(err))
		return true
	}

	m, err := s.sc.Portfolio.Remove(ctx, symbol, qty)
	if err != nil {
		_ = s.sc.Sink.Block(console.ErrorMessage(err))
		return true
	}
	reportSkipped(s.sc.Sink, m.Refresh)
	_ = s.sc.Sink.Block(fmt.Sprintf("%d stocks of %s sold successfully!", m.Quantity, m.Symbol))
	return true
}

// display refreshes prices first, then prints the in-memory portfolio.
func (s *shell) display(ctx context.Context) {
	if len(s.sc.Portfolio.Holdings()) == 0 {
		_ = s.sc.Sink.Block("Your portfolio is empty!")
		return
	}
	report, err := s.sc.Portfolio.RefreshAndSave(ctx)
	reportSkipped(s.sc.Sink, report)
	if err != nil {
		_ = s.sc.Sink.Block(console.ErrorMessage(err))
	}
	_ = s.sc.Sink.WriteLine(console.PlainView(s.sc.Portfolio.Holdings()))
}
