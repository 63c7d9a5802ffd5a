package order

import (
	"testing"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/stretchr/testify/assert"
)

func TestSlippage_deterministic(t *testing.T) {
	bar := market.Bar{Bid: dec(99), Ask: dec(101), Volume: dec(1000)}
	orders := []Order{Market("X", 100), Market("X", -50), Limit("X", 700, dec(101)), Market("X", 5000)}

	s1 := NewSeededSlippage(42, DefaultSlippageBase)
	s2 := NewSeededSlippage(42, DefaultSlippageBase)
	for _, o := range orders {
		p1 := s1.Price(o, bar)
		p2 := s2.Price(o, bar)
		assert.True(t, p1.Equal(p2), "%s != %s", p1, p2)
	}
}

func TestSlippage_direction(t *testing.T) {
	bar := market.Bar{Bid: dec(100), Ask: dec(100), Volume: dec(10)}
	s := NewSeededSlippage(7, 0.01)

	// ratio is 1, so pct is 0.01 and noise sigma is 0.0075
	for range 1000 {
		buy := s.Factor(Market("X", 10), bar)
		sell := s.Factor(Market("X", -10), bar)
		assert.Greater(t, buy, 1.01-0.0075*6)
		assert.Less(t, sell, 0.99+0.0075*6)
	}
}

func TestSlippage_floor(t *testing.T) {
	bar := market.Bar{Bid: dec(100), Ask: dec(100), Volume: dec(1)}
	s := NewSeededSlippage(1, 10)

	for range 100 {
		f := s.Factor(Market("X", -5), bar)
		assert.GreaterOrEqual(t, f, minSlip)
	}
}

func TestSlippage_zeroVolume(t *testing.T) {
	bar := market.Bar{Bid: dec(50), Ask: dec(51)}
	s := NewSeededSlippage(3, DefaultSlippageBase)

	p := s.Price(Market("X", 1), bar)
	assert.InDelta(t, 51.0, p.InexactFloat64(), 51*0.001*6)
}

func TestSlippage_noSlipWithZeroBase(t *testing.T) {
	bar := market.Bar{Bid: dec(99), Ask: dec(101), Volume: dec(100)}
	s := NewSeededSlippage(9, 0)

	assert.True(t, s.Price(Market("X", 10), bar).Equal(dec(101)))
	assert.True(t, s.Price(Market("X", -10), bar).Equal(dec(99)))
}
