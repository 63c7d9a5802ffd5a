package indicator

import (
	"fmt"

	"github.com/gamma-omg/backtester/internal/market"
)

type Action int

const (
	ActBuy  Action = 1
	ActHold Action = 0
	ActSell Action = -1
)

type Signal struct {
	Act        Action
	Confidence float64
}

var holdSignal = Signal{Act: ActHold, Confidence: 1.0}

func (a Action) String() string {
	switch a {
	case ActBuy:
		return "buy"
	case ActHold:
		return "hold"
	case ActSell:
		return "sell"
	default:
		return fmt.Sprintf("action_%d", int(a))
	}
}

type Indicator interface {
	GetSignal() (Signal, error)
}

type barsProvider interface {
	GetBars(count int) ([]market.Bar, error)
	HasBars(count int) bool
}
