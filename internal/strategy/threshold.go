package strategy

import (
	"context"

	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
)

// Threshold buys a fixed quantity while the open is below BuyBelow and cash
// exceeds MinCash, and sells it back while the open is above SellAbove.
type Threshold struct {
	symbol    string
	qty       int64
	buyBelow  decimal.Decimal
	sellAbove decimal.Decimal
	minCash   decimal.Decimal
}

func NewThreshold(symbol string, cfg config.Threshold) *Threshold {
	return &Threshold{
		symbol:    symbol,
		qty:       max(cfg.Qty, 1),
		buyBelow:  decimal.NewFromFloat(cfg.BuyBelow),
		sellAbove: decimal.NewFromFloat(cfg.SellAbove),
		minCash:   decimal.NewFromFloat(cfg.MinCash),
	}
}

func (s *Threshold) OnBar(_ context.Context, snap market.Snapshot, p Portfolio, o *Orders) error {
	bar, ok := snap.Get(s.symbol)
	if !ok {
		return nil
	}

	if bar.Open.LessThan(s.buyBelow) && p.Cash().GreaterThan(s.minCash) {
		o.Buy(s.symbol, s.qty)
	}

	if bar.Open.GreaterThan(s.sellAbove) && p.Position(s.symbol) > 0 {
		o.Sell(s.symbol, s.qty)
	}

	return nil
}
