package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
)

var barColumns = []string{"timestamp", "open", "high", "low", "close", "volume"}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	time.DateTime,
	time.DateOnly,
}

var (
	errColumnCount     = errors.New("unexpected number of columns")
	errUnsupportedTime = errors.New("unsupported time format")
)

// csvRows iterates data rows of a csv stream, skipping the header line.
type csvRows struct {
	source  string
	rdr     *csv.Reader
	line    int
	started bool
}

func newCsvRows(source string, r io.Reader) *csvRows {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1
	rdr.TrimLeadingSpace = true
	return &csvRows{source: source, rdr: rdr}
}

// next returns io.EOF once the stream is exhausted.
func (c *csvRows) next(columns int) ([]string, error) {
	for {
		rec, err := c.rdr.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				c.line = perr.Line
			}
			return nil, &DataFormatError{Source: c.source, Line: c.line, Err: err}
		}

		c.line, _ = c.rdr.FieldPos(0)
		if !c.started {
			c.started = true
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < columns {
			return nil, &DataFormatError{
				Source: c.source,
				Line:   c.line,
				Err:    fmt.Errorf("%w: got %d, want %d", errColumnCount, len(rec), columns),
			}
		}
		return rec, nil
	}
}

func (c *csvRows) formatErr(column, value string, err error) error {
	return &DataFormatError{Source: c.source, Line: c.line, Column: column, Value: value, Err: err}
}

func readBars(source string, r io.Reader) ([]market.Bar, error) {
	rows := newCsvRows(source, r)

	var bars []market.Bar
	for {
		rec, err := rows.next(len(barColumns))
		if err == io.EOF {
			return bars, nil
		}
		if err != nil {
			return nil, err
		}

		ts, err := parseTime(rec[0])
		if err != nil {
			return nil, rows.formatErr(barColumns[0], rec[0], err)
		}

		var values [5]decimal.Decimal
		for i := range values {
			raw := strings.TrimSpace(rec[i+1])
			values[i], err = decimal.NewFromString(raw)
			if err != nil {
				return nil, rows.formatErr(barColumns[i+1], raw, err)
			}
		}

		bars = append(bars, market.Bar{
			Time:   ts,
			Open:   values[0],
			High:   values[1],
			Low:    values[2],
			Close:  values[3],
			Volume: values[4],
		})
	}
}

// parseTime accepts unix seconds or one of timeLayouts.
func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if sec, err := strconv.ParseFloat(raw, 64); err == nil {
		if math.IsNaN(sec) || math.IsInf(sec, 0) || sec < -(1<<63) || sec >= 1<<63 {
			return time.Time{}, errUnsupportedTime
		}
		whole := int64(sec)
		nanos := int64((sec - float64(whole)) * float64(time.Second))
		return time.Unix(whole, nanos).UTC(), nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errUnsupportedTime
}
