package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gamma-omg/backtester/internal/engine"
	"github.com/shopspring/decimal"
)

type JsonReport struct {
	StartCash string                `json:"start_cash"`
	EndCash   string                `json:"end_cash"`
	Equity    string                `json:"equity"`
	ReturnPct float64               `json:"return_pct"`
	Steps     int                   `json:"steps"`
	Positions map[string]int64      `json:"positions,omitempty"`
	Symbols   map[string]JsonSymbol `json:"symbols,omitempty"`
}

// JsonSymbol summarizes the trading of one symbol.
type JsonSymbol struct {
	Bought int64      `json:"bought"`
	Sold   int64      `json:"sold"`
	Spend  string     `json:"spend"`
	Gain   string     `json:"gain"`
	Fees   string     `json:"fees"`
	Fills  []JsonFill `json:"fills,omitempty"`
}

type JsonFill struct {
	OrderID uint64    `json:"order_id"`
	Time    time.Time `json:"time,omitzero"`
	Qty     int64     `json:"qty"`
	Price   string    `json:"price"`
	Fee     string    `json:"fee,omitempty"`
}

type symbolTotals struct {
	bought, sold int64
	spend, gain  decimal.Decimal
	fees         decimal.Decimal
	fills        []JsonFill
}

func NewJsonReport(r engine.Result) JsonReport {
	rep := JsonReport{
		StartCash: r.StartCash.String(),
		EndCash:   r.EndCash.String(),
		Equity:    r.Equity.String(),
		Steps:     r.Steps,
		Positions: r.Positions,
		Symbols:   map[string]JsonSymbol{},
	}
	if !r.StartCash.IsZero() {
		rep.ReturnPct = r.Equity.Sub(r.StartCash).Div(r.StartCash).InexactFloat64()
	}

	totals := map[string]*symbolTotals{}
	for _, f := range r.Fills {
		t, ok := totals[f.Symbol]
		if !ok {
			t = &symbolTotals{}
			totals[f.Symbol] = t
		}

		notional := f.Price.Mul(decimal.NewFromInt(f.Qty)).Abs()
		if f.Qty > 0 {
			t.bought += f.Qty
			t.spend = t.spend.Add(notional)
		} else {
			t.sold -= f.Qty
			t.gain = t.gain.Add(notional)
		}
		t.fees = t.fees.Add(f.Fee)

		jf := JsonFill{
			OrderID: f.OrderID,
			Time:    f.Time,
			Qty:     f.Qty,
			Price:   f.Price.String(),
		}
		if !f.Fee.IsZero() {
			jf.Fee = f.Fee.String()
		}
		t.fills = append(t.fills, jf)
	}

	for symbol, t := range totals {
		rep.Symbols[symbol] = JsonSymbol{
			Bought: t.bought,
			Sold:   t.sold,
			Spend:  t.spend.String(),
			Gain:   t.gain.String(),
			Fees:   t.fees.String(),
			Fills:  t.fills,
		}
	}

	return rep
}

func WriteJson(w io.Writer, r engine.Result) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(NewJsonReport(r)); err != nil {
		return fmt.Errorf("failed to write json report: %w", err)
	}

	return nil
}
