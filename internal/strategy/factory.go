package strategy

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/gamma-omg/backtester/internal/config"
)

// FromConfig builds one strategy per configured symbol, run in symbol order.
func FromConfig(log *slog.Logger, refs map[string]config.StrategyReference) (Group, error) {
	var g Group
	for _, symbol := range slices.Sorted(maps.Keys(refs)) {
		s, err := create(log, symbol, refs[symbol])
		if err != nil {
			return nil, err
		}
		g = append(g, s)
	}
	return g, nil
}

func create(log *slog.Logger, symbol string, ref config.StrategyReference) (Strategy, error) {
	switch cfg := ref.Strategy.(type) {
	case config.Threshold:
		return NewThreshold(symbol, cfg), nil
	case config.Signal:
		return NewSignal(log, symbol, cfg)
	default:
		return nil, fmt.Errorf("unknown strategy for %s: %T", symbol, ref.Strategy)
	}
}
