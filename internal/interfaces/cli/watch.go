package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"stockfolio/internal/infrastructure/scheduler"
)

type watchCmd struct {
	app *App

	schedule string
	color    bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "refresh and print the portfolio on a schedule" }
func (*watchCmd) Usage() string {
	return `stockfolio watch [-schedule <cron>] [-color]

  Refreshes and saves the portfolio on a cron schedule, printing one line per
  pass. A '*' after a price means it could not be refreshed. Stops on SIGINT.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "schedule", "", "cron schedule, defaults to watch.schedule from the config")
	f.BoolVar(&c.color, "color", true, "colour prices by direction of the last move")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sc := c.app.openOrFail(ctx)
	if sc == nil {
		return subcommands.ExitFailure
	}
	defer sc.Close()

	schedule := c.schedule
	if schedule == "" {
		schedule = sc.Config.Watch.Schedule
	}
	if err := scheduler.Validate(schedule); err != nil {
		log.Error().Err(err).Str("schedule", schedule).Msg("invalid schedule")
		return subcommands.ExitUsageError
	}

	job := sc.BuildWatchService(c.color)
	sched := scheduler.New(log.Logger)

	// first pass before the scheduler starts so the two never overlap
	if err := sched.RunNow(ctx, job); err != nil {
		log.Error().Err(err).Str("job", job.Name()).Msg("job failed")
	}
	if err := sched.AddJob(ctx, schedule, job); err != nil {
		log.Error().Err(err).Msg("register watch job failed")
		return subcommands.ExitFailure
	}

	sched.Start()
	<-ctx.Done()
	sched.Stop()
	_ = sc.Sink.NewLine()
	return subcommands.ExitSuccess
}
