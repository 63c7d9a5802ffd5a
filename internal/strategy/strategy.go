package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/gamma-omg/backtester/internal/order"
	"github.com/shopspring/decimal"
)

// Portfolio is the read-only account view handed to strategies.
type Portfolio interface {
	Cash() decimal.Decimal
	Position(symbol string) int64
	Equity(snap market.Snapshot) decimal.Decimal
	Symbols() []string
}

type Strategy interface {
	OnBar(ctx context.Context, snap market.Snapshot, p Portfolio, o *Orders) error
}

type Func func(ctx context.Context, snap market.Snapshot, p Portfolio, o *Orders) error

func (f Func) OnBar(ctx context.Context, snap market.Snapshot, p Portfolio, o *Orders) error {
	return f(ctx, snap, p, o)
}

type submitter interface {
	Submit(o order.Order) order.Order
	Cancel(id uint64) bool
}

// Orders is the order entry surface of a strategy. Quantities are always
// positive; the sell variants negate them.
type Orders struct {
	book submitter
}

func NewOrders(book submitter) *Orders {
	return &Orders{book: book}
}

func (o *Orders) Buy(symbol string, qty int64) uint64 {
	return o.book.Submit(order.Market(symbol, qty)).ID()
}

func (o *Orders) Sell(symbol string, qty int64) uint64 {
	return o.book.Submit(order.Market(symbol, -qty)).ID()
}

func (o *Orders) LimitBuy(symbol string, qty int64, price decimal.Decimal) uint64 {
	return o.book.Submit(order.Limit(symbol, qty, price)).ID()
}

func (o *Orders) LimitSell(symbol string, qty int64, price decimal.Decimal) uint64 {
	return o.book.Submit(order.Limit(symbol, -qty, price)).ID()
}

func (o *Orders) StopBuy(symbol string, qty int64, price decimal.Decimal) uint64 {
	return o.book.Submit(order.Stop(symbol, qty, price)).ID()
}

func (o *Orders) StopSell(symbol string, qty int64, price decimal.Decimal) uint64 {
	return o.book.Submit(order.Stop(symbol, -qty, price)).ID()
}

func (o *Orders) Cancel(id uint64) bool {
	return o.book.Cancel(id)
}

// Group runs strategies in order. Every member sees the bar even if an
// earlier one fails; the failures are joined.
type Group []Strategy

func (g Group) OnBar(ctx context.Context, snap market.Snapshot, p Portfolio, o *Orders) error {
	var errs []error
	for i, s := range g {
		if err := s.OnBar(ctx, snap, p, o); err != nil {
			errs = append(errs, fmt.Errorf("strategy %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
