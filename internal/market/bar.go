package market

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Bar struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
	Bid    decimal.Decimal
	Ask    decimal.Decimal
}

// Snapshot holds the bars of every symbol for a single simulation step.
type Snapshot map[string]Bar

func (s Snapshot) Symbols() []string {
	symbols := make([]string, 0, len(s))
	for sym := range s {
		symbols = append(symbols, sym)
	}
	slices.Sort(symbols)
	return symbols
}

func (s Snapshot) Get(symbol string) (Bar, bool) {
	b, ok := s[symbol]
	return b, ok
}

// DateKey returns the calendar date of t in its own location, formatted as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
