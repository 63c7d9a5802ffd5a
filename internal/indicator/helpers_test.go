package indicator

import (
	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
)

func historyOf(closes ...float64) *market.History {
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{Close: decimal.NewFromFloat(c)}
	}
	return market.NewHistoryWithBars("TEST", bars)
}

type mockIndicator struct {
	signal Signal
	err    error
}

func (m *mockIndicator) GetSignal() (Signal, error) {
	return m.signal, m.err
}
