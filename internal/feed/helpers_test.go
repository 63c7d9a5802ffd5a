package feed

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func writeCsv(t *testing.T, path, src string) string {
	t.Helper()

	fullPath := filepath.Join(t.TempDir(), path)
	err := os.WriteFile(fullPath, []byte(src), 0o644)
	require.NoError(t, err)
	return fullPath
}

func newTestFeed(opts ...Option) *Feed {
	return New(slog.New(slog.DiscardHandler), opts...)
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
