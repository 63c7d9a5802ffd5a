package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type barFilter func(b market.Bar) bool

type Option func(*Feed)

// WithTimeRange keeps bars with start <= time < end. A zero bound is open.
func WithTimeRange(start, end time.Time) Option {
	return func(f *Feed) {
		f.filter = func(b market.Bar) bool {
			return (start.IsZero() || !b.Time.Before(start)) && (end.IsZero() || b.Time.Before(end))
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(f *Feed) {
		f.interval = d
	}
}

func WithSpread(pct float64) Option {
	return func(f *Feed) {
		f.spread = market.NewSpread(pct)
	}
}

// Feed holds per-symbol bar series and serves them one step at a time.
type Feed struct {
	log       *slog.Logger
	series    map[string][]market.Bar
	filter    barFilter
	interval  time.Duration
	spread    market.Spread
	dividends map[string]map[string]decimal.Decimal
	splits    map[string]map[string]decimal.Decimal
}

func New(log *slog.Logger, opts ...Option) *Feed {
	f := &Feed{
		log:       log,
		series:    make(map[string][]market.Bar),
		filter:    func(market.Bar) bool { return true },
		dividends: make(map[string]map[string]decimal.Decimal),
		splits:    make(map[string]map[string]decimal.Decimal),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Add installs bars for symbol after filtering, resampling and filling in
// missing quotes. Any previous series of the symbol is replaced.
func (f *Feed) Add(symbol string, bars []market.Bar) {
	kept := make([]market.Bar, 0, len(bars))
	for _, b := range bars {
		if f.filter(b) {
			kept = append(kept, b)
		}
	}

	kept = market.Resample(kept, f.interval)
	f.series[symbol] = f.spread.QuoteAll(kept)
}

func (f *Feed) Read(symbol string, r io.Reader) error {
	bars, err := readBars(symbol, r)
	if err != nil {
		return fmt.Errorf("failed to read bars for %s: %w", symbol, err)
	}

	f.Add(symbol, bars)
	return nil
}

// LoadCSV reads the bars of symbol from path. An unreadable file is logged
// and leaves the symbol with an empty series.
func (f *Feed) LoadCSV(symbol, path string) error {
	bars, err := f.readFile(path)
	if err != nil {
		return fmt.Errorf("failed to load bars for %s: %w", symbol, err)
	}

	f.Add(symbol, bars)
	return nil
}

// LoadAll parses every file in parallel and installs the series in symbol order.
func (f *Feed) LoadAll(ctx context.Context, files map[string]string) error {
	symbols := slices.Sorted(maps.Keys(files))
	results := make([][]market.Bar, len(symbols))

	g, ctx := errgroup.WithContext(ctx)
	for i, symbol := range symbols {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			bars, err := f.readFile(files[symbol])
			if err != nil {
				return fmt.Errorf("failed to load bars for %s: %w", symbol, err)
			}
			results[i] = bars
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, symbol := range symbols {
		f.Add(symbol, results[i])
	}
	return nil
}

func (f *Feed) readFile(path string) ([]market.Bar, error) {
	file, err := os.Open(path)
	if err != nil {
		f.log.Warn("bar data unavailable", slog.String("path", path), slog.Any("error", err))
		return nil, nil
	}
	defer file.Close()

	return readBars(path, file)
}

// BarAt returns the bars of every symbol that has one at step.
func (f *Feed) BarAt(step int) market.Snapshot {
	snap := make(market.Snapshot, len(f.series))
	if step < 0 {
		return snap
	}

	for symbol, bars := range f.series {
		if step < len(bars) {
			snap[symbol] = bars[step]
		}
	}
	return snap
}

// Steps is the length of the longest series.
func (f *Feed) Steps() int {
	n := 0
	for _, bars := range f.series {
		n = max(n, len(bars))
	}
	return n
}

func (f *Feed) Symbols() []string {
	return slices.Sorted(maps.Keys(f.series))
}

func (f *Feed) Bars(symbol string) []market.Bar {
	return slices.Clone(f.series[symbol])
}

