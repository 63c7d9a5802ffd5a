package indicator

import (
	"fmt"

	"github.com/gamma-omg/backtester/internal/config"
)

type MACDIndicator struct {
	cfg  config.MACD
	bars barsProvider
}

func NewMACD(cfg config.MACD, bars barsProvider) *MACDIndicator {
	return &MACDIndicator{
		cfg:  cfg,
		bars: bars,
	}
}

// GetSignal holds until enough bars are collected, then reports a buy or sell
// when the histogram crosses zero within the lookback and clears a threshold.
func (i *MACDIndicator) GetSignal() (Signal, error) {
	count := i.window()
	if !i.bars.HasBars(count) {
		return holdSignal, nil
	}

	hist, err := i.histogram(count)
	if err != nil {
		return Signal{}, fmt.Errorf("failed to calculate macd: %w", err)
	}

	last := hist[len(hist)-1]
	if !hasCrossOver(hist, i.cfg.CrossLookback) {
		return holdSignal, nil
	}

	if last > i.cfg.BuyThreshold {
		return Signal{
			Act:        ActBuy,
			Confidence: min(1, (last-i.cfg.BuyThreshold)/(i.cfg.BuyCap-i.cfg.BuyThreshold)),
		}, nil
	}

	if last < i.cfg.SellThreshold {
		return Signal{
			Act:        ActSell,
			Confidence: min(1, (last-i.cfg.SellThreshold)/(i.cfg.SellCap-i.cfg.SellThreshold)),
		}, nil
	}

	return holdSignal, nil
}

func (i *MACDIndicator) window() int {
	return max(i.cfg.Fast, i.cfg.Slow, i.cfg.Signal)
}

func (i *MACDIndicator) histogram(count int) ([]float64, error) {
	bars, err := i.bars.GetBars(count)
	if err != nil {
		return nil, fmt.Errorf("failed to get bars data: %w", err)
	}

	prices := closes(bars)
	fast := ema(prices, i.cfg.Fast)
	slow := ema(prices, i.cfg.Slow)

	line := make([]float64, count)
	for k := range count {
		line[k] = fast[k] - slow[k]
	}

	signal := ema(line, i.cfg.Signal)
	hist := make([]float64, count)
	for k := range count {
		hist[k] = line[k] - signal[k]
	}

	return hist, nil
}

func hasCrossOver(hist []float64, lookback int) bool {
	l := len(hist)
	if l < 2 {
		return false
	}

	n := min(lookback, l-1)
	for k := 1; k <= n; k++ {
		next := hist[l-k]
		prev := hist[l-k-1]
		if prev < 0 && next > 0 || prev > 0 && next < 0 {
			return true
		}
	}

	return false
}
