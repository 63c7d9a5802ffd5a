package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Type int

const (
	TypeMarket Type = iota
	TypeLimit
	TypeStop
)

func (t Type) String() string {
	switch t {
	case TypeMarket:
		return "market"
	case TypeLimit:
		return "limit"
	case TypeStop:
		return "stop"
	default:
		return fmt.Sprintf("type_%d", int(t))
	}
}

// Order is a request to trade qty contracts of symbol. Positive qty buys,
// negative qty sells. Orders are built with Market, Limit or Stop only.
type Order struct {
	id     uint64
	symbol string
	qty    int64
	typ    Type
	price  decimal.Decimal
}

func Market(symbol string, qty int64) Order {
	return Order{symbol: symbol, qty: qty, typ: TypeMarket}
}

func Limit(symbol string, qty int64, price decimal.Decimal) Order {
	return Order{symbol: symbol, qty: qty, typ: TypeLimit, price: price}
}

func Stop(symbol string, qty int64, price decimal.Decimal) Order {
	return Order{symbol: symbol, qty: qty, typ: TypeStop, price: price}
}

func (o Order) ID() uint64 {
	return o.id
}

func (o Order) Symbol() string {
	return o.symbol
}

func (o Order) Qty() int64 {
	return o.qty
}

func (o Order) Type() Type {
	return o.typ
}

// Price is the limit or stop trigger price. Market orders carry zero.
func (o Order) Price() decimal.Decimal {
	return o.price
}

func (o Order) IsBuy() bool {
	return o.qty > 0
}

func (o Order) withQty(qty int64) Order {
	o.qty = qty
	return o
}

func (o Order) String() string {
	if o.typ == TypeMarket {
		return fmt.Sprintf("#%d %s %s %d", o.id, o.typ, o.symbol, o.qty)
	}
	return fmt.Sprintf("#%d %s %s %d @ %s", o.id, o.typ, o.symbol, o.qty, o.price)
}
