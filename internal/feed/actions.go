package feed

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
)

var actionColumns = []string{"date", "value"}

func (f *Feed) AddDividends(symbol string, byDate map[string]decimal.Decimal) error {
	return addActions(f.dividends, symbol, byDate)
}

func (f *Feed) AddSplits(symbol string, byDate map[string]decimal.Decimal) error {
	return addActions(f.splits, symbol, byDate)
}

func (f *Feed) LoadDividendsCSV(symbol, path string) error {
	return f.loadActions(f.dividends, symbol, path)
}

func (f *Feed) LoadSplitsCSV(symbol, path string) error {
	return f.loadActions(f.splits, symbol, path)
}

// Dividend returns the per-share payout of symbol on the calendar date of t.
func (f *Feed) Dividend(symbol string, t time.Time) (decimal.Decimal, bool) {
	v, ok := f.dividends[symbol][market.DateKey(t)]
	return v, ok
}

// Split returns the split ratio of symbol on the calendar date of t.
func (f *Feed) Split(symbol string, t time.Time) (decimal.Decimal, bool) {
	v, ok := f.splits[symbol][market.DateKey(t)]
	return v, ok
}

// ActionSymbols lists symbols with at least one dividend or split.
func (f *Feed) ActionSymbols() []string {
	set := make(map[string]struct{})
	for s := range f.dividends {
		set[s] = struct{}{}
	}
	for s := range f.splits {
		set[s] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

func addActions(dst map[string]map[string]decimal.Decimal, symbol string, byDate map[string]decimal.Decimal) error {
	if len(byDate) == 0 {
		return nil
	}

	normalized := make(map[string]decimal.Decimal, len(byDate))
	for raw, v := range byDate {
		t, err := parseTime(raw)
		if err != nil {
			return fmt.Errorf("invalid corporate action date %q for %s: %w", raw, symbol, err)
		}
		normalized[market.DateKey(t)] = v
	}

	if dst[symbol] == nil {
		dst[symbol] = make(map[string]decimal.Decimal, len(normalized))
	}
	maps.Copy(dst[symbol], normalized)
	return nil
}

func (f *Feed) loadActions(dst map[string]map[string]decimal.Decimal, symbol, path string) error {
	file, err := os.Open(path)
	if err != nil {
		f.log.Warn("corporate action data unavailable", "path", path, "error", err)
		return nil
	}
	defer file.Close()

	byDate, err := readActions(path, file)
	if err != nil {
		return fmt.Errorf("failed to load corporate actions for %s: %w", symbol, err)
	}

	return addActions(dst, symbol, byDate)
}

func readActions(source string, r io.Reader) (map[string]decimal.Decimal, error) {
	rows := newCsvRows(source, r)
	res := make(map[string]decimal.Decimal)
	for {
		rec, err := rows.next(len(actionColumns))
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, err
		}

		date := strings.TrimSpace(rec[0])
		if _, err := parseTime(date); err != nil {
			return nil, rows.formatErr(actionColumns[0], date, err)
		}

		raw := strings.TrimSpace(rec[1])
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, rows.formatErr(actionColumns[1], raw, err)
		}
		res[date] = v
	}
}
