package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gamma-omg/backtester/internal/config"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "backtest"
	app.Usage = "replay historical bars through a trading strategy"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "config.yaml",
			Usage:   "path to the yaml config",
			EnvVars: []string{"CONFIG"},
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log fills and corporate actions",
		},
	}
	app.Commands = []*cli.Command{
		runCommand,
		fetchCommand,
	}
	return app
}

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func readConfig(c *cli.Context) (*config.Config, error) {
	return config.ReadFromFile(c.String("config"))
}
