package alpaca

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type api interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
	GetCryptoBars(symbol string, req marketdata.GetCryptoBarsRequest) ([]marketdata.CryptoBar, error)
}

// Downloader pulls historical bars from the Alpaca market data API. Stock bars
// are requested unadjusted so corporate actions can be replayed separately.
type Downloader struct {
	log *slog.Logger
	api api
}

func NewDownloader(log *slog.Logger, cfg config.Alpaca) *Downloader {
	return &Downloader{
		log: log,
		api: newAlpacaApi(cfg.ApiKey, cfg.Secret, cfg.BaseUrl),
	}
}

// Fetch returns the bars of symbol in [start, end). Symbols containing a slash
// (BTC/USD) are fetched as crypto.
func (d *Downloader) Fetch(ctx context.Context, symbol string, start, end time.Time, tf marketdata.TimeFrame) ([]market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var bars []market.Bar
	if isCrypto(symbol) {
		cbars, err := d.api.GetCryptoBars(symbol, marketdata.GetCryptoBarsRequest{
			TimeFrame: tf,
			Start:     start,
			End:       end,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get crypto bars for %s: %w", symbol, err)
		}

		bars = make([]market.Bar, len(cbars))
		for i, b := range cbars {
			bars[i] = market.Bar{
				Time:   b.Timestamp,
				Open:   decimal.NewFromFloat(b.Open),
				High:   decimal.NewFromFloat(b.High),
				Low:    decimal.NewFromFloat(b.Low),
				Close:  decimal.NewFromFloat(b.Close),
				Volume: decimal.NewFromFloat(b.Volume),
			}
		}
	} else {
		sbars, err := d.api.GetBars(symbol, marketdata.GetBarsRequest{
			TimeFrame:  tf,
			Adjustment: marketdata.Raw,
			Start:      start,
			End:        end,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get bars for %s: %w", symbol, err)
		}

		bars = make([]market.Bar, len(sbars))
		for i, b := range sbars {
			bars[i] = market.Bar{
				Time:   b.Timestamp,
				Open:   decimal.NewFromFloat(b.Open),
				High:   decimal.NewFromFloat(b.High),
				Low:    decimal.NewFromFloat(b.Low),
				Close:  decimal.NewFromFloat(b.Close),
				Volume: decimal.NewFromInt(int64(b.Volume)),
			}
		}
	}

	d.log.Info("bars downloaded", slog.String("symbol", symbol), slog.Int("count", len(bars)))
	return bars, nil
}

// FetchAll downloads every symbol concurrently. The first failure cancels the rest.
func (d *Downloader) FetchAll(ctx context.Context, symbols []string, start, end time.Time, tf marketdata.TimeFrame) (map[string][]market.Bar, error) {
	results := make([][]market.Bar, len(symbols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, symbol := range symbols {
		g.Go(func() error {
			bars, err := d.Fetch(ctx, symbol, start, end, tf)
			if err != nil {
				return err
			}
			results[i] = bars
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := make(map[string][]market.Bar, len(symbols))
	for i, symbol := range symbols {
		res[symbol] = results[i]
	}
	return res, nil
}

var timeFrameUnits = map[string]marketdata.TimeFrameUnit{
	"min":   marketdata.Min,
	"hour":  marketdata.Hour,
	"day":   marketdata.Day,
	"week":  marketdata.Week,
	"month": marketdata.Month,
}

// ParseTimeFrame accepts the Alpaca notation: 1Min, 15Min, 1Hour, 1Day, 1Week, 1Month.
func ParseTimeFrame(s string) (marketdata.TimeFrame, error) {
	i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if i <= 0 {
		return marketdata.TimeFrame{}, fmt.Errorf("invalid timeframe: %q", s)
	}

	n, err := strconv.Atoi(s[:i])
	if err != nil || n <= 0 {
		return marketdata.TimeFrame{}, fmt.Errorf("invalid timeframe amount: %q", s)
	}

	unit, ok := timeFrameUnits[strings.ToLower(s[i:])]
	if !ok {
		return marketdata.TimeFrame{}, fmt.Errorf("invalid timeframe unit: %q", s)
	}

	return marketdata.NewTimeFrame(n, unit), nil
}

func isCrypto(symbol string) bool {
	return strings.Contains(symbol, "/")
}
