package indicator

import (
	"fmt"

	"github.com/gamma-omg/backtester/internal/config"
)

type RSIIndicator struct {
	cfg  config.RSI
	bars barsProvider
}

func NewRSI(cfg config.RSI, bars barsProvider) *RSIIndicator {
	return &RSIIndicator{
		cfg:  cfg,
		bars: bars,
	}
}

// GetSignal sells when the index (scaled to [0, 1]) reaches Overbought and
// buys when it falls to 1-Overbought.
func (i *RSIIndicator) GetSignal() (Signal, error) {
	if !i.bars.HasBars(i.cfg.Period) {
		return holdSignal, nil
	}

	bars, err := i.bars.GetBars(i.cfg.Period)
	if err != nil {
		return Signal{}, fmt.Errorf("failed to get data for rsi indicator: %w", err)
	}

	strength := rs(closes(bars))
	if len(strength) == 0 {
		return holdSignal, nil
	}

	last := rsi(strength[len(strength)-1])
	switch {
	case last <= 1-i.cfg.Overbought:
		return Signal{Act: ActBuy, Confidence: 1 - last}, nil
	case last >= i.cfg.Overbought:
		return Signal{Act: ActSell, Confidence: last}, nil
	default:
		return holdSignal, nil
	}
}

func rsi(strength float64) float64 {
	if strength < 0 {
		return 1
	}
	return 1 - 1/(1+strength)
}
