package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gamma-omg/backtester/internal/engine"
	"github.com/gamma-omg/backtester/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func testResult() engine.Result {
	t0 := time.Date(2025, 6, 25, 13, 30, 0, 0, time.UTC)
	return engine.Result{
		Steps:     3,
		StartCash: dec(10000),
		EndCash:   dec(8515),
		Equity:    dec(10015),
		Positions: map[string]int64{"MSFT": 0, "AAPL": 10},
		Fills: []ledger.Fill{
			{OrderID: 1, Symbol: "AAPL", Qty: 10, Price: dec(150), Fee: dec(1.5), Time: t0},
			{OrderID: 2, Symbol: "MSFT", Qty: 2, Price: dec(400), Time: t0},
			{OrderID: 3, Symbol: "MSFT", Qty: -2, Price: dec(410), Time: t0.Add(time.Minute)},
		},
		Curve: []engine.Point{
			{Time: t0, Cash: dec(7698.5), Equity: dec(9998.5)},
			{Time: t0.Add(time.Minute), Cash: dec(8518.5), Equity: dec(10018.5)},
			{Time: t0.Add(2 * time.Minute), Cash: dec(8515), Equity: dec(10015)},
		},
	}
}

func TestWriteText(t *testing.T) {
	var buff bytes.Buffer
	require.NoError(t, WriteText(&buff, testResult()))

	assert.Equal(t, `Starting cash: 10000.00
Ending cash: 8515.00
Total equity: 10015.00
Positions:
  AAPL: 10
  MSFT: 0
`, buff.String())
}

func TestWriteJson(t *testing.T) {
	var buff bytes.Buffer
	require.NoError(t, WriteJson(&buff, testResult()))

	assert.JSONEq(t, `
{
	"start_cash": "10000",
	"end_cash": "8515",
	"equity": "10015",
	"return_pct": 0.0015,
	"steps": 3,
	"positions": {"AAPL": 10, "MSFT": 0},
	"symbols": {
		"AAPL": {
			"bought": 10,
			"sold": 0,
			"spend": "1500",
			"gain": "0",
			"fees": "1.5",
			"fills": [
				{"order_id": 1, "time": "2025-06-25T13:30:00Z", "qty": 10, "price": "150", "fee": "1.5"}
			]
		},
		"MSFT": {
			"bought": 2,
			"sold": 2,
			"spend": "800",
			"gain": "820",
			"fees": "0",
			"fills": [
				{"order_id": 2, "time": "2025-06-25T13:30:00Z", "qty": 2, "price": "400"},
				{"order_id": 3, "time": "2025-06-25T13:31:00Z", "qty": -2, "price": "410"}
			]
		}
	}
}`, buff.String())
}

func TestWriteJson_emptyResult(t *testing.T) {
	var buff bytes.Buffer
	require.NoError(t, WriteJson(&buff, engine.Result{}))

	assert.JSONEq(t, `{"start_cash": "0", "end_cash": "0", "equity": "0", "return_pct": 0, "steps": 0}`, buff.String())
}

func TestWriteToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "report.txt")

	require.NoError(t, WriteToFile(path, testResult(), WriteText))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total equity: 10015.00")
}

func TestChartWriter(t *testing.T) {
	var buff bytes.Buffer
	require.NoError(t, ChartWriter(320, 120)(&buff, testResult()))

	assert.True(t, bytes.HasPrefix(buff.Bytes(), []byte("\x89PNG")))
}

func TestChartWriter_emptyCurve(t *testing.T) {
	var buff bytes.Buffer
	require.Error(t, ChartWriter(0, 0)(&buff, engine.Result{}))
}
