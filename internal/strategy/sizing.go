package strategy

import "github.com/shopspring/decimal"

type positionScaler interface {
	GetSize(budget decimal.Decimal, confidence float64) decimal.Decimal
}

type ConstScaler struct {
	Size decimal.Decimal
}

func (s *ConstScaler) GetSize(budget decimal.Decimal, _ float64) decimal.Decimal {
	return decimal.Min(budget, s.Size)
}

// LinearScaler spends budget × confidence × MaxScale, never more than budget.
type LinearScaler struct {
	MaxScale float64
}

func (s *LinearScaler) GetSize(budget decimal.Decimal, confidence float64) decimal.Decimal {
	return decimal.Min(budget, budget.Mul(decimal.NewFromFloat(confidence*s.MaxScale)))
}

// shares is the whole number of shares size buys at price.
func shares(size, price decimal.Decimal) int64 {
	if !price.IsPositive() || !size.IsPositive() {
		return 0
	}
	return size.Div(price).Floor().IntPart()
}
