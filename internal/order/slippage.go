package order

import (
	"math"
	"math/rand/v2"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
)

const (
	DefaultSlippageBase = 0.001

	noiseScale = 0.75
	minSlip    = 0.01
)

// Slippage estimates execution prices from order size relative to bar volume
// plus gaussian noise. All randomness comes from the supplied generator.
type Slippage struct {
	rng  *rand.Rand
	base float64
}

func NewSlippage(rng *rand.Rand, base float64) *Slippage {
	return &Slippage{rng: rng, base: base}
}

func NewSeededSlippage(seed uint64, base float64) *Slippage {
	return NewSlippage(rand.New(rand.NewPCG(seed, seed)), base)
}

// Factor returns the multiplier applied to the quote price for o.
func (s *Slippage) Factor(o Order, bar market.Bar) float64 {
	ratio := 1.0
	if vol := bar.Volume.InexactFloat64(); vol > 0 {
		ratio = math.Min(math.Abs(float64(o.qty))/vol, 1.0)
	}

	pct := ratio * s.base
	noise := s.rng.NormFloat64() * noiseScale * pct

	slip := 1 - pct + noise
	if o.IsBuy() {
		slip = 1 + pct + noise
	}
	return math.Max(slip, minSlip)
}

func (s *Slippage) Price(o Order, bar market.Bar) decimal.Decimal {
	slip := decimal.NewFromFloat(s.Factor(o, bar))
	if o.IsBuy() {
		return bar.Ask.Mul(slip)
	}
	return bar.Bid.Mul(slip)
}
