package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gamma-omg/backtester/internal/feed"
	"github.com/gamma-omg/backtester/internal/feed/alpaca"
	"github.com/gamma-omg/backtester/internal/market"
	"github.com/urfave/cli/v2"
)

var fetchCommand = &cli.Command{
	Name:  "fetch",
	Usage: "download historical bars from alpaca into csv files",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "env",
			Value: ".env",
			Usage: "file with APCA_API_KEY_ID and APCA_API_SECRET_KEY",
		},
	},
	Action: fetch,
}

func fetch(c *cli.Context) error {
	log := newLogger(c)
	cfg, err := readConfig(c)
	if err != nil {
		return err
	}

	if err := cfg.Alpaca.LoadEnv(c.String("env")); err != nil {
		return err
	}

	f := cfg.Fetch
	if len(f.Symbols) == 0 {
		return errors.New("no symbols to fetch")
	}

	if f.Dir == "" {
		f.Dir = "."
	}
	if f.TimeFrame == "" {
		f.TimeFrame = "1Day"
	}

	tf, err := alpaca.ParseTimeFrame(f.TimeFrame)
	if err != nil {
		return err
	}

	d := alpaca.NewDownloader(log, cfg.Alpaca)
	bars, err := d.FetchAll(c.Context, f.Symbols, f.Start, f.End, tf)
	if err != nil {
		return fmt.Errorf("failed to download bars: %w", err)
	}

	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	for _, symbol := range f.Symbols {
		path := filepath.Join(f.Dir, fileName(symbol))
		if err := writeBars(path, bars[symbol]); err != nil {
			return err
		}
		log.Info("bars saved", slog.String("symbol", symbol), slog.String("path", path))
	}

	return nil
}

func fileName(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "_") + ".csv"
}

func writeBars(path string, bars []market.Bar) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close %s: %w", path, cerr))
		}
	}()

	return feed.NewCSVWriter(file).WriteAll(bars)
}
