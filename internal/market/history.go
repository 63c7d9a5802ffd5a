package market

import (
	"errors"
	"fmt"
)

var ErrInsufficientData = errors.New("insufficient data")

// History keeps the most recent bars of a single symbol in a ring buffer.
type History struct {
	Symbol string
	bars   []Bar
	head   int
	count  int
}

func NewHistory(symbol string, size int) *History {
	return &History{
		Symbol: symbol,
		bars:   make([]Bar, max(size, 1)),
		head:   -1,
	}
}

func NewHistoryWithBars(symbol string, bars []Bar) *History {
	h := NewHistory(symbol, len(bars))
	for _, b := range bars {
		h.Receive(b)
	}
	return h
}

func (h *History) Receive(bar Bar) {
	h.head = (h.head + 1) % len(h.bars)
	h.bars[h.head] = bar
	h.count = min(h.count+1, len(h.bars))
}

// GetBars returns the last count bars, oldest first.
func (h *History) GetBars(count int) ([]Bar, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid argument: %d", count)
	}
	if count > len(h.bars) {
		return nil, errors.New("requested bars count is greater than history capacity")
	}
	if count > h.count {
		return nil, ErrInsufficientData
	}

	res := make([]Bar, count)
	start := h.head - count + 1
	for i := range count {
		res[i] = h.bars[(start+i+len(h.bars))%len(h.bars)]
	}
	return res, nil
}

func (h *History) GetLastBar() (Bar, error) {
	if h.count == 0 {
		return Bar{}, ErrInsufficientData
	}
	return h.bars[h.head], nil
}

func (h *History) HasBars(count int) bool {
	return h.count >= count
}

func (h *History) Len() int {
	return h.count
}
