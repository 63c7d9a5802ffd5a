package strategy

import (
	"log/slog"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/gamma-omg/backtester/internal/order"
	"github.com/shopspring/decimal"
)

type mockPortfolio struct {
	cash      decimal.Decimal
	positions map[string]int64
}

func (m *mockPortfolio) Cash() decimal.Decimal {
	return m.cash
}

func (m *mockPortfolio) Position(symbol string) int64 {
	return m.positions[symbol]
}

func (m *mockPortfolio) Equity(market.Snapshot) decimal.Decimal {
	return m.cash
}

func (m *mockPortfolio) Symbols() []string {
	return nil
}

func newPortfolio(cash float64, positions map[string]int64) *mockPortfolio {
	return &mockPortfolio{cash: decimal.NewFromFloat(cash), positions: positions}
}

func newTestOrders() (*Orders, *order.Book) {
	book := order.NewBook(slog.New(slog.DiscardHandler))
	return NewOrders(book), book
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func snapshot(symbol string, open, close float64) market.Snapshot {
	return market.Snapshot{symbol: market.Bar{Open: dec(open), Close: dec(close), Volume: dec(1000)}}
}
