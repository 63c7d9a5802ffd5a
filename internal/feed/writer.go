package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/gamma-omg/backtester/internal/market"
)

// CSVWriter writes bars in the format understood by Feed.Read.
type CSVWriter struct {
	w           *csv.Writer
	writeHeader bool
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv.NewWriter(w), true}
}

func (d *CSVWriter) Write(bar market.Bar) error {
	if d.writeHeader {
		if err := d.w.Write(barColumns); err != nil {
			return fmt.Errorf("failed to write bars csv header: %w", err)
		}
		d.writeHeader = false
	}

	err := d.w.Write([]string{
		bar.Time.Format(time.RFC3339),
		bar.Open.String(),
		bar.High.String(),
		bar.Low.String(),
		bar.Close.String(),
		bar.Volume.String()})
	if err != nil {
		return fmt.Errorf("failed to write bar: %w", err)
	}

	d.w.Flush()
	return d.w.Error()
}

func (d *CSVWriter) WriteAll(bars []market.Bar) error {
	for _, b := range bars {
		if err := d.Write(b); err != nil {
			return err
		}
	}
	return nil
}
