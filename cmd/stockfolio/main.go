package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"

	"stockfolio/internal/infrastructure/config"
	"stockfolio/internal/infrastructure/logger"
	"stockfolio/internal/interfaces/cli"
)

func main() {
	logger.Setup("info")

	configPath := flag.String("config", config.DefaultPath, "path to config.toml")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander, cli.NewApp(configPath, os.Stdin, os.Stdout))

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := commander.Execute(ctx)
	stop()
	os.Exit(int(code))
}
