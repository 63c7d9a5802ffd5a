package market

import "github.com/shopspring/decimal"

var two = decimal.NewFromInt(2)

// Spread fills in missing bid/ask prices around the close.
type Spread struct {
	Pct decimal.Decimal
}

func NewSpread(pct float64) Spread {
	return Spread{Pct: decimal.NewFromFloat(pct)}
}

func (s Spread) Quote(b Bar) Bar {
	half := s.Pct.Div(two)
	if b.Bid.IsZero() {
		b.Bid = b.Close.Mul(decimal.NewFromInt(1).Sub(half))
	}
	if b.Ask.IsZero() {
		b.Ask = b.Close.Mul(decimal.NewFromInt(1).Add(half))
	}
	return b
}

func (s Spread) QuoteAll(bars []Bar) []Bar {
	for i := range bars {
		bars[i] = s.Quote(bars[i])
	}
	return bars
}
