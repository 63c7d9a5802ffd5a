package ledger

import (
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/gamma-omg/backtester/internal/order"
	"github.com/shopspring/decimal"
)

// Pricer decides the price an executed order is booked at.
type Pricer interface {
	Price(o order.Order, bar market.Bar) decimal.Decimal
}

type ClosePricer struct{}

func (ClosePricer) Price(_ order.Order, bar market.Bar) decimal.Decimal {
	return bar.Close
}

type commissionCharger interface {
	Fee(qty int64, notional decimal.Decimal) decimal.Decimal
}

type Fill struct {
	OrderID uint64
	Symbol  string
	Qty     int64
	Price   decimal.Decimal
	Fee     decimal.Decimal
	Time    time.Time
}

// Cost is the signed cash outflow of the fill, fee included.
func (f Fill) Cost() decimal.Decimal {
	return f.Price.Mul(decimal.NewFromInt(f.Qty)).Add(f.Fee)
}

type Option func(*Ledger)

func WithPricer(p Pricer) Option {
	return func(l *Ledger) {
		l.pricer = p
	}
}

func WithCommission(buyRate, sellRate float64) Option {
	return func(l *Ledger) {
		l.commission = newFixedRateCommission(buyRate, sellRate)
	}
}

// Ledger tracks cash and whole-share positions of a single portfolio.
type Ledger struct {
	log        *slog.Logger
	cash       decimal.Decimal
	positions  map[string]int64
	pricer     Pricer
	commission commissionCharger
}

func New(log *slog.Logger, cash decimal.Decimal, opts ...Option) *Ledger {
	l := &Ledger{
		log:        log,
		cash:       cash,
		positions:  make(map[string]int64),
		pricer:     ClosePricer{},
		commission: &noCommission{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Apply books every executed order against the bar of its symbol in snap.
// Orders without a bar are skipped.
func (l *Ledger) Apply(executed []order.Order, snap market.Snapshot) []Fill {
	fills := make([]Fill, 0, len(executed))
	for _, o := range executed {
		bar, ok := snap[o.Symbol()]
		if !ok {
			l.log.Warn("executed order has no bar", slog.String("order", o.String()))
			continue
		}

		price := l.pricer.Price(o, bar)
		notional := price.Mul(decimal.NewFromInt(o.Qty()))
		f := Fill{
			OrderID: o.ID(),
			Symbol:  o.Symbol(),
			Qty:     o.Qty(),
			Price:   price,
			Fee:     l.commission.Fee(o.Qty(), notional),
			Time:    bar.Time,
		}

		l.cash = l.cash.Sub(f.Cost())
		l.positions[f.Symbol] += f.Qty
		fills = append(fills, f)

		l.log.Debug("order filled",
			slog.Uint64("id", f.OrderID),
			slog.String("symbol", f.Symbol),
			slog.Int64("qty", f.Qty),
			slog.String("price", f.Price.String()),
			slog.String("fee", f.Fee.String()))
	}
	return fills
}

func (l *Ledger) Cash() decimal.Decimal {
	return l.cash
}

func (l *Ledger) Position(symbol string) int64 {
	return l.positions[symbol]
}

func (l *Ledger) Positions() map[string]int64 {
	return maps.Clone(l.positions)
}

func (l *Ledger) Symbols() []string {
	return slices.Sorted(maps.Keys(l.positions))
}

// Equity values positions at the close of their bar in snap. Symbols absent
// from snap contribute nothing.
func (l *Ledger) Equity(snap market.Snapshot) decimal.Decimal {
	total := l.cash
	for _, sym := range l.Symbols() {
		bar, ok := snap[sym]
		if !ok {
			continue
		}
		total = total.Add(bar.Close.Mul(decimal.NewFromInt(l.positions[sym])))
	}
	return total
}

func (l *Ledger) AddCash(amount decimal.Decimal) {
	l.cash = l.cash.Add(amount)
}

// Split multiplies the position by ratio (new shares per old share) rounding
// half away from zero. Cash is left untouched.
func (l *Ledger) Split(symbol string, ratio decimal.Decimal) {
	pos, ok := l.positions[symbol]
	if !ok {
		return
	}

	l.positions[symbol] = decimal.NewFromInt(pos).Mul(ratio).Round(0).IntPart()
}

func (l *Ledger) View() View {
	return View{l: l}
}

// View exposes the read side of a Ledger.
type View struct {
	l *Ledger
}

func (v View) Cash() decimal.Decimal {
	return v.l.Cash()
}

func (v View) Position(symbol string) int64 {
	return v.l.Position(symbol)
}

func (v View) Symbols() []string {
	return v.l.Symbols()
}

func (v View) Equity(snap market.Snapshot) decimal.Decimal {
	return v.l.Equity(snap)
}
