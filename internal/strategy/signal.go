package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/indicator"
	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
)

const defaultMarketBuffer = 256

type tradingIndicator interface {
	GetSignal() (indicator.Signal, error)
}

// Signal trades one symbol on indicator signals. It opens a position sized by
// budget and confidence, and closes all of it on a confident sell signal or
// when the price reaches the take profit or stop loss ratio of the entry.
type Signal struct {
	log       *slog.Logger
	symbol    string
	cfg       config.Signal
	history   *market.History
	indicator tradingIndicator
	scaler    positionScaler
	entry     decimal.Decimal
}

func NewSignal(log *slog.Logger, symbol string, cfg config.Signal) (*Signal, error) {
	size := cfg.MarketBuffer
	if size <= 0 {
		size = defaultMarketBuffer
	}

	history := market.NewHistory(symbol, size)
	ind, err := indicator.New(cfg.IndRef, history)
	if err != nil {
		return nil, fmt.Errorf("failed to create indicator for %s: %w", symbol, err)
	}

	return newSignal(log, symbol, cfg, history, ind), nil
}

func newSignal(log *slog.Logger, symbol string, cfg config.Signal, history *market.History, ind tradingIndicator) *Signal {
	return &Signal{
		log:       log.With(slog.String("symbol", symbol)),
		symbol:    symbol,
		cfg:       cfg,
		history:   history,
		indicator: ind,
		scaler:    newScaler(cfg),
	}
}

// newScaler prefers a fixed position size over confidence scaling.
func newScaler(cfg config.Signal) positionScaler {
	if cfg.FixedSize > 0 {
		return &ConstScaler{Size: decimal.NewFromFloat(cfg.FixedSize)}
	}

	scale := cfg.PositionScale
	if scale <= 0 {
		scale = 1
	}
	return &LinearScaler{MaxScale: scale}
}

func (s *Signal) OnBar(_ context.Context, snap market.Snapshot, p Portfolio, o *Orders) error {
	bar, ok := snap.Get(s.symbol)
	if !ok {
		return nil
	}
	s.history.Receive(bar)

	pos := p.Position(s.symbol)
	if pos <= 0 {
		s.entry = decimal.Zero
	} else if s.entry.IsZero() {
		s.entry = bar.Close
	}

	if pos > 0 && s.needClose(bar) {
		s.log.Debug("closing position on exit ratio", slog.String("entry", s.entry.String()), slog.String("close", bar.Close.String()))
		o.Sell(s.symbol, pos)
		return nil
	}

	sig, err := s.indicator.GetSignal()
	if err != nil {
		return fmt.Errorf("failed to get signal from indicator: %w", err)
	}

	switch {
	case sig.Act == indicator.ActBuy && pos == 0 && sig.Confidence >= s.cfg.BuyConfidence:
		qty := shares(s.scaler.GetSize(s.funds(p), sig.Confidence), bar.Close)
		if qty == 0 {
			return nil
		}

		s.log.Debug("buy signal", slog.Float64("confidence", sig.Confidence), slog.Int64("qty", qty))
		o.Buy(s.symbol, qty)
		s.entry = bar.Close
	case sig.Act == indicator.ActSell && pos > 0 && sig.Confidence >= s.cfg.SellConfidence:
		s.log.Debug("sell signal", slog.Float64("confidence", sig.Confidence), slog.Int64("qty", pos))
		o.Sell(s.symbol, pos)
	}

	return nil
}

func (s *Signal) needClose(bar market.Bar) bool {
	if s.entry.IsZero() {
		return false
	}

	pct := bar.Close.Div(s.entry).InexactFloat64()
	return s.cfg.TakeProfit > 0 && pct >= s.cfg.TakeProfit ||
		s.cfg.StopLoss > 0 && pct <= s.cfg.StopLoss
}

func (s *Signal) funds(p Portfolio) decimal.Decimal {
	cash := decimal.Max(decimal.Zero, p.Cash())
	if s.cfg.Budget <= 0 {
		return cash
	}
	return decimal.Min(cash, decimal.NewFromInt(s.cfg.Budget))
}
