package engine

import (
	"fmt"

	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/ledger"
	"github.com/gamma-omg/backtester/internal/order"
	"github.com/shopspring/decimal"
)

// OptionsFromConfig translates backtest settings into engine options.
func OptionsFromConfig(cfg config.Backtest) (Options, error) {
	opts := Options{
		Cash: decimal.NewFromFloat(cfg.Cash),
		Book: []order.BookOption{order.WithVolumeFraction(cfg.VolumeFraction)},
		Ledger: []ledger.Option{
			ledger.WithCommission(cfg.BuyCommission, cfg.SellCommission),
		},
		ClearPending: cfg.ClearPending,
	}

	switch cfg.MissingSymbols {
	case config.MissingDrop, "":
		opts.Book = append(opts.Book, order.WithMissingSymbolPolicy(order.DropMissing))
	case config.MissingKeep:
		opts.Book = append(opts.Book, order.WithMissingSymbolPolicy(order.KeepMissing))
	default:
		return Options{}, fmt.Errorf("unknown missing symbols policy: %s", cfg.MissingSymbols)
	}

	switch cfg.FillPrice {
	case config.FillClose, "":
	case config.FillSlippage:
		opts.Ledger = append(opts.Ledger, ledger.WithPricer(order.NewSeededSlippage(cfg.Seed, cfg.SlippageBase)))
	default:
		return Options{}, fmt.Errorf("unknown fill price mode: %s", cfg.FillPrice)
	}

	return opts, nil
}
