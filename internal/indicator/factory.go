package indicator

import (
	"fmt"

	"github.com/gamma-omg/backtester/internal/config"
)

// New builds the indicator described by ref over bars.
func New(ref config.IndicatorReference, bars barsProvider) (Indicator, error) {
	switch cfg := ref.Indicator.(type) {
	case config.MACD:
		return NewMACD(cfg, bars), nil
	case config.RSI:
		return NewRSI(cfg, bars), nil
	case config.Ensemble:
		children := make([]WeightedIndicator, len(cfg.Indicators))
		for i, c := range cfg.Indicators {
			child, err := New(c.IndRef, bars)
			if err != nil {
				return nil, fmt.Errorf("failed to create child indicator: %w", err)
			}

			children[i] = WeightedIndicator{
				Weight:    c.Weight,
				Indicator: child,
			}
		}
		return &EnsembleIndicator{Children: children}, nil
	default:
		return nil, fmt.Errorf("unknown indicator: %T", ref.Indicator)
	}
}
