package indicator

import (
	"github.com/gamma-omg/backtester/internal/market"
)

func closes(bars []market.Bar) []float64 {
	res := make([]float64, len(bars))
	for i, b := range bars {
		res[i] = b.Close.InexactFloat64()
	}
	return res
}

func ema(data []float64, period int) []float64 {
	if len(data) < period {
		panic("not enough data to compute ema")
	}

	res := make([]float64, len(data))
	res[0] = data[0]

	a := 2.0 / (float64(period) + 1)
	for i, val := range data[1:] {
		res[i+1] = val*a + res[i]*(1-a)
	}

	return res
}

// rs returns the smoothed relative strength for every price change in prices.
// It is 1 for a flat series and -1 when there are gains but no losses.
func rs(prices []float64) []float64 {
	n := len(prices)
	if n < 2 {
		return []float64{}
	}

	gains := make([]float64, n-1)
	losses := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diff := prices[i] - prices[i-1]
		if diff > 0 {
			gains[i-1] = diff
		} else {
			losses[i-1] = -diff
		}
	}

	avgG := smooth(gains, float64(n))
	avgL := smooth(losses, float64(n))

	res := make([]float64, n-1)
	for i := range res {
		switch {
		case avgG[i] == 0 && avgL[i] == 0:
			res[i] = 1
		case avgL[i] == 0:
			res[i] = -1
		default:
			res[i] = avgG[i] / avgL[i]
		}
	}

	return res
}

// smooth seeds with the mean of values and applies Wilder smoothing over period.
func smooth(values []float64, period float64) []float64 {
	res := make([]float64, len(values))
	for _, v := range values {
		res[0] += v
	}
	res[0] /= float64(len(values))

	for i, v := range values[1:] {
		res[i+1] = (res[i]*(period-1) + v) / period
	}
	return res
}
