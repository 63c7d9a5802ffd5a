package feed

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/gamma-omg/backtester/internal/config"
	"github.com/shopspring/decimal"
)

// FromConfig loads the bar data and corporate actions of a backtest.
func FromConfig(ctx context.Context, log *slog.Logger, cfg config.Backtest) (*Feed, error) {
	f := New(log,
		WithTimeRange(cfg.Start, cfg.End),
		WithInterval(cfg.Interval),
		WithSpread(cfg.Spread))

	if err := f.LoadAll(ctx, cfg.Data); err != nil {
		return nil, err
	}

	for _, symbol := range slices.Sorted(maps.Keys(cfg.Actions)) {
		if err := f.loadActionsConfig(symbol, cfg.Actions[symbol]); err != nil {
			return nil, err
		}
	}

	log.Info("market data loaded", slog.Int("symbols", len(f.Symbols())), slog.Int("steps", f.Steps()))
	return f, nil
}

func (f *Feed) loadActionsConfig(symbol string, cfg config.CorporateActions) error {
	if cfg.DividendsFile != "" {
		if err := f.LoadDividendsCSV(symbol, cfg.DividendsFile); err != nil {
			return err
		}
	}
	if cfg.SplitsFile != "" {
		if err := f.LoadSplitsCSV(symbol, cfg.SplitsFile); err != nil {
			return err
		}
	}
	if err := f.AddDividends(symbol, toDecimals(cfg.Dividends)); err != nil {
		return fmt.Errorf("failed to add dividends: %w", err)
	}
	if err := f.AddSplits(symbol, toDecimals(cfg.Splits)); err != nil {
		return fmt.Errorf("failed to add splits: %w", err)
	}
	return nil
}

func toDecimals(m map[string]float64) map[string]decimal.Decimal {
	res := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		res[k] = decimal.NewFromFloat(v)
	}
	return res
}
