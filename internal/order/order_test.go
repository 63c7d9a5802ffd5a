package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	m := Market("AAPL", 5)
	assert.Equal(t, TypeMarket, m.Type())
	assert.True(t, m.Price().IsZero())
	assert.True(t, m.IsBuy())

	l := Limit("AAPL", -5, dec(10))
	assert.Equal(t, TypeLimit, l.Type())
	assert.True(t, l.Price().Equal(dec(10)))
	assert.False(t, l.IsBuy())

	s := Stop("AAPL", 3, dec(12))
	assert.Equal(t, TypeStop, s.Type())
	assert.Equal(t, int64(3), s.Qty())
	assert.Equal(t, uint64(0), s.ID())
}

func TestString(t *testing.T) {
	assert.Equal(t, "#0 market AAPL 5", Market("AAPL", 5).String())
	assert.Equal(t, "#0 limit AAPL -5 @ 10.5", Limit("AAPL", -5, dec(10.5)).String())
	assert.Equal(t, "type_7", Type(7).String())
}
