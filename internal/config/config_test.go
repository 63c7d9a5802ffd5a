package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_Backtest(t *testing.T) {
	cfg, err := Read(strings.NewReader(`
backtest:
    cash: 10000
    seed: 42
    volume_fraction: 0.5
    missing_symbols: keep
    fill_price: slippage
    slippage_base: 0.002
    spread: 0.001
    buy_commission: 0.002
    sell_commission: 0.0015
    clear_pending: true
    interval: 5m
    start: 2014-09-12T11:45:26.000Z
    end: 2020-12-31T08:30:12.000Z
    data:
        AAPL: /var/data/aapl.csv
        MSFT: /var/data/msft.csv
    actions:
        AAPL:
            dividends:
                "2020-08-07": 0.82
            splits:
                "2020-08-31": 4
        MSFT:
            dividends_file: /var/data/msft_dividends.csv
`))

	require.NoError(t, err)

	b := cfg.Backtest
	start, err := time.Parse("2006-01-02T15:04:05.000Z", "2014-09-12T11:45:26.000Z")
	require.NoError(t, err)
	end, err := time.Parse("2006-01-02T15:04:05.000Z", "2020-12-31T08:30:12.000Z")
	require.NoError(t, err)

	assert.Equal(t, 10000.0, b.Cash)
	assert.Equal(t, uint64(42), b.Seed)
	assert.Equal(t, 0.5, b.VolumeFraction)
	assert.Equal(t, MissingKeep, b.MissingSymbols)
	assert.Equal(t, FillSlippage, b.FillPrice)
	assert.Equal(t, 0.002, b.SlippageBase)
	assert.Equal(t, 0.001, b.Spread)
	assert.Equal(t, 0.002, b.BuyCommission)
	assert.Equal(t, 0.0015, b.SellCommission)
	assert.True(t, b.ClearPending)
	assert.Equal(t, 5*time.Minute, b.Interval)
	assert.Equal(t, start, b.Start)
	assert.Equal(t, end, b.End)
	assert.Equal(t, "/var/data/aapl.csv", b.Data["AAPL"])
	assert.Equal(t, "/var/data/msft.csv", b.Data["MSFT"])
	assert.Equal(t, 0.82, b.Actions["AAPL"].Dividends["2020-08-07"])
	assert.Equal(t, 4.0, b.Actions["AAPL"].Splits["2020-08-31"])
	assert.Equal(t, "/var/data/msft_dividends.csv", b.Actions["MSFT"].DividendsFile)
}

func TestRead_defaults(t *testing.T) {
	cfg, err := Read(strings.NewReader(`
backtest:
    cash: 500
`))

	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.Backtest.VolumeFraction)
	assert.Equal(t, 0.001, cfg.Backtest.SlippageBase)
	assert.Equal(t, FillClose, cfg.Backtest.FillPrice)
	assert.Equal(t, MissingDrop, cfg.Backtest.MissingSymbols)
}

func TestRead_emptyConfig(t *testing.T) {
	cfg, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, FillClose, cfg.Backtest.FillPrice)
}

func TestRead_invalid(t *testing.T) {
	tbl := []string{
		"backtest:\n    cash: -1\n",
		"backtest:\n    volume_fraction: 1.5\n",
		"backtest:\n    fill_price: mid\n",
		"backtest:\n    missing_symbols: ignore\n",
		"backtest:\n    start: 2020-01-02T00:00:00Z\n    end: 2020-01-01T00:00:00Z\n",
		"strategies:\n    AAPL:\n        martingale:\n            qty: 1\n",
		"strategies:\n    AAPL:\n        signal:\n            indicator:\n                bollinger:\n                    period: 3\n",
		"backtest: [1, 2]\n",
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			_, err := Read(strings.NewReader(c))
			require.Error(t, err)
		})
	}
}

func TestRead_Threshold(t *testing.T) {
	cfg, err := Read(strings.NewReader(`
strategies:
    AAPL:
        threshold:
            buy_below: 180
            sell_above: 200
            qty: 10
            min_cash: 1000
`))

	require.NoError(t, err)

	th, ok := cfg.Strategies["AAPL"].Strategy.(Threshold)
	require.True(t, ok)

	assert.Equal(t, 180.0, th.BuyBelow)
	assert.Equal(t, 200.0, th.SellAbove)
	assert.Equal(t, int64(10), th.Qty)
	assert.Equal(t, 1000.0, th.MinCash)
}

func TestRead_Signal(t *testing.T) {
	cfg, err := Read(strings.NewReader(`
strategies:
    BTC:
        signal:
            budget: 1000
            buy_confidence: 0.8
            sell_confidence: 0.7
            take_profit: 1.05
            stop_loss: 0.97
            position_scale: 1
            fixed_size: 250
            market_buffer: 1024
            indicator:
                macd:
                    fast: 8
                    slow: 12
                    signal: 10
                    buy_threshold: 10.1
                    buy_cap: 100.9
                    sell_threshold: -5.5
                    sell_cap: -200.4
                    cross_lookback: 3
`))

	require.NoError(t, err)

	btc, ok := cfg.Strategies["BTC"].Strategy.(Signal)
	require.True(t, ok)

	assert.Equal(t, int64(1000), btc.Budget)
	assert.Equal(t, 0.8, btc.BuyConfidence)
	assert.Equal(t, 0.7, btc.SellConfidence)
	assert.Equal(t, 1.05, btc.TakeProfit)
	assert.Equal(t, 0.97, btc.StopLoss)
	assert.Equal(t, 1.0, btc.PositionScale)
	assert.Equal(t, 250.0, btc.FixedSize)
	assert.Equal(t, 1024, btc.MarketBuffer)

	macd, ok := btc.IndRef.Indicator.(MACD)
	require.True(t, ok)

	assert.Equal(t, 8, macd.Fast)
	assert.Equal(t, 12, macd.Slow)
	assert.Equal(t, 10, macd.Signal)
	assert.Equal(t, 10.1, macd.BuyThreshold)
	assert.Equal(t, -5.5, macd.SellThreshold)
	assert.Equal(t, 100.9, macd.BuyCap)
	assert.Equal(t, -200.4, macd.SellCap)
	assert.Equal(t, 3, macd.CrossLookback)
}

func TestRead_Ensemble(t *testing.T) {
	cfg, err := Read(strings.NewReader(`
strategies:
    ETH:
        signal:
            budget: 500
            indicator:
                ensemble:
                    indicators:
                        - weight: 0.7
                          indicator:
                              rsi:
                                  period: 14
                                  overbought: 0.7
                        - weight: 0.3
                          indicator:
                              macd:
                                  fast: 12
                                  slow: 26
                                  signal: 9
`))

	require.NoError(t, err)

	s, ok := cfg.Strategies["ETH"].Strategy.(Signal)
	require.True(t, ok)

	ens, ok := s.IndRef.Indicator.(Ensemble)
	require.True(t, ok)
	require.Len(t, ens.Indicators, 2)

	assert.Equal(t, 0.7, ens.Indicators[0].Weight)
	rsi, ok := ens.Indicators[0].IndRef.Indicator.(RSI)
	require.True(t, ok)
	assert.Equal(t, 14, rsi.Period)
	assert.Equal(t, 0.7, rsi.Overbought)

	assert.Equal(t, 0.3, ens.Indicators[1].Weight)
	macd, ok := ens.Indicators[1].IndRef.Indicator.(MACD)
	require.True(t, ok)
	assert.Equal(t, 26, macd.Slow)
}

func TestRead_ReportAndFetch(t *testing.T) {
	cfg, err := Read(strings.NewReader(`
report:
    json: out/report.json
    chart: out/equity.png
    chart_width: 1200
    chart_height: 400
alpaca:
    base_url: https://data.alpaca.markets
fetch:
    symbols: [AAPL, BTC/USD]
    start: 2024-01-02T00:00:00Z
    end: 2024-02-01T00:00:00Z
    timeframe: 1Hour
    dir: data
`))

	require.NoError(t, err)
	assert.Equal(t, "out/report.json", cfg.Report.Json)
	assert.Equal(t, "", cfg.Report.Text)
	assert.Equal(t, "out/equity.png", cfg.Report.Chart)
	assert.Equal(t, 1200, cfg.Report.ChartWidth)
	assert.Equal(t, 400, cfg.Report.ChartHeight)
	assert.Equal(t, "https://data.alpaca.markets", cfg.Alpaca.BaseUrl)
	assert.Equal(t, []string{"AAPL", "BTC/USD"}, cfg.Fetch.Symbols)
	assert.Equal(t, "1Hour", cfg.Fetch.TimeFrame)
	assert.Equal(t, "data", cfg.Fetch.Dir)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), cfg.Fetch.Start)
}

func TestReadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backtest:\n    cash: 250\n"), 0o644))

	cfg, err := ReadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 250.0, cfg.Backtest.Cash)

	_, err = ReadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestAlpaca_LoadEnv(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("APCA_API_KEY_ID=file-key\nAPCA_API_SECRET_KEY=file-secret\n"), 0o644))

	t.Setenv(envApiKey, "")
	t.Setenv(envSecret, "")
	t.Setenv(envBaseUrl, "https://env.example")
	require.NoError(t, os.Unsetenv(envApiKey))
	require.NoError(t, os.Unsetenv(envSecret))

	a := Alpaca{Secret: "yaml-secret"}
	require.NoError(t, a.LoadEnv(envPath))

	assert.Equal(t, "file-key", a.ApiKey)
	assert.Equal(t, "yaml-secret", a.Secret)
	assert.Equal(t, "https://env.example", a.BaseUrl)
}

func TestAlpaca_LoadEnvMissingFile(t *testing.T) {
	t.Setenv(envApiKey, "env-key")

	a := Alpaca{}
	require.NoError(t, a.LoadEnv(filepath.Join(t.TempDir(), ".env")))
	assert.Equal(t, "env-key", a.ApiKey)
}
