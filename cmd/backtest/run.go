package main

import (
	"fmt"
	"os"

	"github.com/gamma-omg/backtester/internal/engine"
	"github.com/gamma-omg/backtester/internal/feed"
	"github.com/gamma-omg/backtester/internal/report"
	"github.com/gamma-omg/backtester/internal/strategy"
	"github.com/urfave/cli/v2"
)

var runCommand = &cli.Command{
	Name:   "run",
	Usage:  "run a backtest and write the configured reports",
	Action: run,
}

func run(c *cli.Context) error {
	log := newLogger(c)
	cfg, err := readConfig(c)
	if err != nil {
		return err
	}

	src, err := feed.FromConfig(c.Context, log, cfg.Backtest)
	if err != nil {
		return fmt.Errorf("failed to load market data: %w", err)
	}

	strat, err := strategy.FromConfig(log, cfg.Strategies)
	if err != nil {
		return fmt.Errorf("failed to create strategies: %w", err)
	}

	opts, err := engine.OptionsFromConfig(cfg.Backtest)
	if err != nil {
		return err
	}

	res, err := engine.New(log, src, src, strat, opts).Run(c.Context)
	if err != nil {
		return err
	}

	if cfg.Report.Text == "" {
		if err := report.WriteText(os.Stdout, res); err != nil {
			return err
		}
	} else if err := report.WriteToFile(cfg.Report.Text, res, report.WriteText); err != nil {
		return err
	}

	if cfg.Report.Json != "" {
		if err := report.WriteToFile(cfg.Report.Json, res, report.WriteJson); err != nil {
			return err
		}
	}

	if cfg.Report.Chart != "" && len(res.Curve) > 0 {
		chart := report.ChartWriter(cfg.Report.ChartWidth, cfg.Report.ChartHeight)
		if err := report.WriteToFile(cfg.Report.Chart, res, chart); err != nil {
			return err
		}
	}

	return nil
}
