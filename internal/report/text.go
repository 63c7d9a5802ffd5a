package report

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/gamma-omg/backtester/internal/engine"
)

// WriteText prints starting cash, ending cash, total equity and the final
// positions, in that order.
func WriteText(w io.Writer, r engine.Result) error {
	_, err := fmt.Fprintf(w, "Starting cash: %s\nEnding cash: %s\nTotal equity: %s\nPositions:\n",
		r.StartCash.StringFixed(2),
		r.EndCash.StringFixed(2),
		r.Equity.StringFixed(2))
	if err != nil {
		return fmt.Errorf("failed to write text report: %w", err)
	}

	for _, symbol := range slices.Sorted(maps.Keys(r.Positions)) {
		if _, err := fmt.Fprintf(w, "  %s: %d\n", symbol, r.Positions[symbol]); err != nil {
			return fmt.Errorf("failed to write text report: %w", err)
		}
	}

	return nil
}
