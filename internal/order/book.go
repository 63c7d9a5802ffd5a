package order

import (
	"log/slog"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
)

const DefaultVolumeFraction = 0.2

// MissingSymbolPolicy decides what happens to an order whose symbol has no bar
// in the processed snapshot.
type MissingSymbolPolicy int

const (
	DropMissing MissingSymbolPolicy = iota
	KeepMissing
)

type BookOption func(*Book)

func WithVolumeFraction(f float64) BookOption {
	return func(b *Book) {
		b.fraction = decimal.NewFromFloat(f)
	}
}

func WithMissingSymbolPolicy(p MissingSymbolPolicy) BookOption {
	return func(b *Book) {
		b.missing = p
	}
}

// Book holds submitted orders until they execute or are discarded.
type Book struct {
	log      *slog.Logger
	pending  []Order
	nextID   uint64
	fraction decimal.Decimal
	missing  MissingSymbolPolicy
}

func NewBook(log *slog.Logger, opts ...BookOption) *Book {
	b := &Book{
		log:      log,
		fraction: decimal.NewFromFloat(DefaultVolumeFraction),
		missing:  DropMissing,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Book) Submit(o Order) Order {
	b.nextID++
	o.id = b.nextID
	b.pending = append(b.pending, o)
	return o
}

func (b *Book) Cancel(id uint64) bool {
	for i, o := range b.pending {
		if o.id == id {
			b.pending = append(b.pending[:i], b.pending[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Book) Clear() {
	b.pending = nil
}

func (b *Book) Pending() []Order {
	res := make([]Order, len(b.pending))
	copy(res, b.pending)
	return res
}

// Process matches pending orders against snap and returns the executed ones.
// Market and triggered stop orders fill up to the available volume and lose
// the rest. Limit orders fill up to the available volume and keep the rest
// pending under the same id.
func (b *Book) Process(snap market.Snapshot) []Order {
	var executed []Order
	var requeue []Order

	for _, o := range b.pending {
		bar, ok := snap[o.symbol]
		if !ok {
			if b.missing == KeepMissing {
				requeue = append(requeue, o)
				continue
			}

			b.log.Debug("order dropped: no bar for symbol", slog.String("order", o.String()))
			continue
		}

		avail := AvailableVolume(bar, b.fraction)

		switch o.typ {
		case TypeMarket:
			executed = appendFill(executed, o, avail)
		case TypeStop:
			if !stopTriggered(o, bar) {
				requeue = append(requeue, o)
				continue
			}
			executed = appendFill(executed, o, avail)
		case TypeLimit:
			if !limitTriggered(o, bar) {
				requeue = append(requeue, o)
				continue
			}

			filled := clamp(o.qty, avail)
			executed = appendFill(executed, o, avail)
			if rest := o.qty - filled; rest != 0 {
				requeue = append(requeue, o.withQty(rest))
			}
		}
	}

	b.pending = requeue
	return executed
}

// AvailableVolume is the whole number of contracts tradable against bar.
func AvailableVolume(bar market.Bar, fraction decimal.Decimal) int64 {
	if !bar.Volume.IsPositive() {
		return 0
	}
	return bar.Volume.Mul(fraction).Floor().IntPart()
}

func appendFill(executed []Order, o Order, avail int64) []Order {
	qty := clamp(o.qty, avail)
	if qty == 0 {
		return executed
	}
	return append(executed, o.withQty(qty))
}

func clamp(qty, avail int64) int64 {
	return max(-avail, min(avail, qty))
}

func limitTriggered(o Order, bar market.Bar) bool {
	return o.qty > 0 && bar.Ask.LessThanOrEqual(o.price) ||
		o.qty < 0 && bar.Bid.GreaterThanOrEqual(o.price)
}

func stopTriggered(o Order, bar market.Bar) bool {
	return o.qty > 0 && bar.High.GreaterThanOrEqual(o.price) ||
		o.qty < 0 && bar.Low.LessThanOrEqual(o.price)
}
