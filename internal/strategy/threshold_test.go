package strategy

import (
	"context"
	"fmt"
	"testing"

	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreshold(t *testing.T) {
	cfg := config.Threshold{BuyBelow: 202, SellAbove: 203, Qty: 1, MinCash: 203}

	tbl := []struct {
		snap     market.Snapshot
		cash     float64
		position int64
		orders   []int64
	}{
		{snap: snapshot("AAPL", 201, 201), cash: 1000, orders: []int64{1}},
		{snap: snapshot("AAPL", 201, 201), cash: 203, orders: nil},
		{snap: snapshot("AAPL", 202.5, 201), cash: 1000, position: 1, orders: nil},
		{snap: snapshot("AAPL", 204, 201), cash: 1000, position: 1, orders: []int64{-1}},
		{snap: snapshot("AAPL", 204, 201), cash: 1000, position: 0, orders: nil},
		{snap: snapshot("MSFT", 100, 100), cash: 1000, position: 1, orders: nil},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			s := NewThreshold("AAPL", cfg)
			o, book := newTestOrders()

			err := s.OnBar(context.Background(), c.snap, newPortfolio(c.cash, map[string]int64{"AAPL": c.position}), o)
			require.NoError(t, err)

			var qty []int64
			for _, p := range book.Pending() {
				assert.Equal(t, "AAPL", p.Symbol())
				qty = append(qty, p.Qty())
			}
			assert.Equal(t, c.orders, qty)
		})
	}
}
