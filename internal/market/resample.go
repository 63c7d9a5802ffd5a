package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resample merges consecutive bars into buckets aligned to interval. Bars are
// expected in time order. A non-positive interval returns the input unchanged.
func Resample(bars []Bar, interval time.Duration) []Bar {
	if interval <= 0 || len(bars) == 0 {
		return bars
	}

	var res []Bar
	var cur *Bar
	var end time.Time
	for _, b := range bars {
		if cur != nil && !b.Time.Before(end) {
			res = append(res, *cur)
			cur = nil
		}

		if cur == nil {
			end = b.Time.Truncate(interval).Add(interval)
			cur = &Bar{
				Time: b.Time,
				Open: b.Open,
				High: b.High,
				Low:  b.Low,
			}
		}

		cur.Close = b.Close
		cur.Ask = b.Ask
		cur.Bid = b.Bid
		cur.High = decimal.Max(cur.High, b.High)
		cur.Low = decimal.Min(cur.Low, b.Low)
		cur.Volume = cur.Volume.Add(b.Volume)
	}

	if cur != nil {
		res = append(res, *cur)
	}
	return res
}
