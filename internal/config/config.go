package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	FillClose    = "close"
	FillSlippage = "slippage"

	MissingDrop = "drop"
	MissingKeep = "keep"
)

type Config struct {
	Backtest   Backtest                     `yaml:"backtest"`
	Strategies map[string]StrategyReference `yaml:"strategies"`
	Report     Report                       `yaml:"report"`
	Alpaca     Alpaca                       `yaml:"alpaca"`
	Fetch      Fetch                        `yaml:"fetch"`
}

func Read(r io.Reader) (*Config, error) {
	var cfg Config
	d := yaml.NewDecoder(r)
	err := d.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	cfg.Backtest.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

func (c *Config) Validate() error {
	var errs []error
	b := c.Backtest
	if b.Cash < 0 {
		errs = append(errs, fmt.Errorf("negative starting cash: %v", b.Cash))
	}
	if b.VolumeFraction <= 0 || b.VolumeFraction > 1 {
		errs = append(errs, fmt.Errorf("volume_fraction must be in (0, 1]: %v", b.VolumeFraction))
	}
	if b.FillPrice != FillClose && b.FillPrice != FillSlippage {
		errs = append(errs, fmt.Errorf("unknown fill_price: %s", b.FillPrice))
	}
	if b.MissingSymbols != MissingDrop && b.MissingSymbols != MissingKeep {
		errs = append(errs, fmt.Errorf("unknown missing_symbols policy: %s", b.MissingSymbols))
	}
	if !b.Start.IsZero() && !b.End.IsZero() && !b.Start.Before(b.End) {
		errs = append(errs, errors.New("start must be before end"))
	}
	for symbol, s := range c.Strategies {
		if s.Strategy == nil {
			errs = append(errs, fmt.Errorf("missing strategy for %s", symbol))
		}
	}

	return errors.Join(errs...)
}

type Backtest struct {
	Cash           float64                     `yaml:"cash"`
	Seed           uint64                      `yaml:"seed"`
	VolumeFraction float64                     `yaml:"volume_fraction"`
	MissingSymbols string                      `yaml:"missing_symbols"`
	FillPrice      string                      `yaml:"fill_price"`
	SlippageBase   float64                     `yaml:"slippage_base"`
	Spread         float64                     `yaml:"spread"`
	BuyCommission  float64                     `yaml:"buy_commission"`
	SellCommission float64                     `yaml:"sell_commission"`
	ClearPending   bool                        `yaml:"clear_pending"`
	Interval       time.Duration               `yaml:"interval"`
	Start          time.Time                   `yaml:"start"`
	End            time.Time                   `yaml:"end"`
	Data           map[string]string           `yaml:"data"`
	Actions        map[string]CorporateActions `yaml:"actions"`
}

func (b *Backtest) setDefaults() {
	if b.VolumeFraction == 0 {
		b.VolumeFraction = 0.2
	}
	if b.SlippageBase == 0 {
		b.SlippageBase = 0.001
	}
	if b.FillPrice == "" {
		b.FillPrice = FillClose
	}
	if b.MissingSymbols == "" {
		b.MissingSymbols = MissingDrop
	}
}

// CorporateActions of one symbol, inline by date or from date,value csv files.
type CorporateActions struct {
	Dividends     map[string]float64 `yaml:"dividends"`
	Splits        map[string]float64 `yaml:"splits"`
	DividendsFile string             `yaml:"dividends_file"`
	SplitsFile    string             `yaml:"splits_file"`
}

type Report struct {
	Json        string `yaml:"json"`
	Text        string `yaml:"text"`
	Chart       string `yaml:"chart"`
	ChartWidth  int    `yaml:"chart_width"`
	ChartHeight int    `yaml:"chart_height"`
}

type Fetch struct {
	Symbols   []string  `yaml:"symbols"`
	Start     time.Time `yaml:"start"`
	End       time.Time `yaml:"end"`
	TimeFrame string    `yaml:"timeframe"`
	Dir       string    `yaml:"dir"`
}

// strategy configs

type StrategyReference struct {
	Strategy Strategy
}

type Strategy interface{}

type Threshold struct {
	BuyBelow  float64 `yaml:"buy_below"`
	SellAbove float64 `yaml:"sell_above"`
	Qty       int64   `yaml:"qty"`
	MinCash   float64 `yaml:"min_cash"`
}

type Signal struct {
	Budget         int64              `yaml:"budget"`
	BuyConfidence  float64            `yaml:"buy_confidence"`
	SellConfidence float64            `yaml:"sell_confidence"`
	TakeProfit     float64            `yaml:"take_profit"`
	StopLoss       float64            `yaml:"stop_loss"`
	PositionScale  float64            `yaml:"position_scale"`
	FixedSize      float64            `yaml:"fixed_size"`
	MarketBuffer   int                `yaml:"market_buffer"`
	IndRef         IndicatorReference `yaml:"indicator"`
}

func (w *StrategyReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid strategy yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "threshold":
		var th Threshold
		if err := value.Content[1].Decode(&th); err != nil {
			return fmt.Errorf("failed parsing threshold strategy config: %w", err)
		}
		w.Strategy = th
	case "signal":
		var s Signal
		if err := value.Content[1].Decode(&s); err != nil {
			return fmt.Errorf("failed parsing signal strategy config: %w", err)
		}
		w.Strategy = s
	default:
		return fmt.Errorf("unknown strategy type: %s", key)
	}

	return nil
}

// indicator configs

type MACD struct {
	Fast          int     `yaml:"fast"`
	Slow          int     `yaml:"slow"`
	Signal        int     `yaml:"signal"`
	BuyThreshold  float64 `yaml:"buy_threshold"`
	BuyCap        float64 `yaml:"buy_cap"`
	SellThreshold float64 `yaml:"sell_threshold"`
	SellCap       float64 `yaml:"sell_cap"`
	CrossLookback int     `yaml:"cross_lookback"`
}

type RSI struct {
	Period     int     `yaml:"period"`
	Overbought float64 `yaml:"overbought"`
}

type WeightedIndicator struct {
	Weight float64            `yaml:"weight"`
	IndRef IndicatorReference `yaml:"indicator"`
}

type Ensemble struct {
	Indicators []WeightedIndicator `yaml:"indicators"`
}

type Indicator interface{}

type IndicatorReference struct {
	Indicator Indicator
}

func (w *IndicatorReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid indicator yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "macd":
		var macd MACD
		if err := value.Content[1].Decode(&macd); err != nil {
			return fmt.Errorf("failed parsing macd indicator config: %w", err)
		}
		w.Indicator = macd
	case "rsi":
		var rsi RSI
		if err := value.Content[1].Decode(&rsi); err != nil {
			return fmt.Errorf("failed parsing rsi indicator config: %w", err)
		}
		w.Indicator = rsi
	case "ensemble":
		var ensemble Ensemble
		if err := value.Content[1].Decode(&ensemble); err != nil {
			return fmt.Errorf("failed parsing ensemble indicator config: %w", err)
		}
		w.Indicator = ensemble
	default:
		return fmt.Errorf("unknown indicator type: %s", key)
	}

	return nil
}
