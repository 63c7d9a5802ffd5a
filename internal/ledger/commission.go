package ledger

import "github.com/shopspring/decimal"

type fixedRateCommission struct {
	buyRate  decimal.Decimal
	sellRate decimal.Decimal
}

func newFixedRateCommission(buyPct, sellPct float64) *fixedRateCommission {
	return &fixedRateCommission{
		buyRate:  decimal.NewFromFloat(buyPct),
		sellRate: decimal.NewFromFloat(sellPct),
	}
}

func (c *fixedRateCommission) Fee(qty int64, notional decimal.Decimal) decimal.Decimal {
	if qty > 0 {
		return notional.Abs().Mul(c.buyRate)
	}
	return notional.Abs().Mul(c.sellRate)
}

type noCommission struct{}

func (c *noCommission) Fee(int64, decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}
