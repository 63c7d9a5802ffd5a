package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gamma-omg/backtester/internal/engine"
)

type writeFunc func(w io.Writer, r engine.Result) error

// WriteToFile creates path, along with its directory, and writes r with fn.
func WriteToFile(path string, r engine.Result, fn writeFunc) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close report file: %w", cerr))
		}
	}()

	return fn(f, r)
}
