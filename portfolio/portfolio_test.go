package portfolio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priceMap map[string]float64

func (m priceMap) Price(s string) (float64, bool) {
	p, ok := m[s]
	return p, ok
}

func TestScenarioBuySellRoundTrip(t *testing.T) {
	t.Parallel()

	p := New(DefaultCash)

	require.NoError(t, p.Buy("AAPL", 10, 180))
	assert.Equal(t, 8200.0, p.Cash())
	assert.Equal(t, map[string]int{"AAPL": 10}, p.Holdings())

	err := p.Buy("AAPL", 1000, 180)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 8200.0, p.Cash())
	assert.Equal(t, map[string]int{"AAPL": 10}, p.Holdings())

	require.NoError(t, p.Sell("AAPL", 5, 190))
	assert.Equal(t, 9150.0, p.Cash())
	assert.Equal(t, map[string]int{"AAPL": 5}, p.Holdings())

	err = p.Sell("AAPL", 10, 190)
	assert.ErrorIs(t, err, ErrInsufficientHoldings)
	assert.Equal(t, 9150.0, p.Cash())
	assert.Equal(t, 5, p.Quantity("AAPL"))

	require.NoError(t, p.Sell("AAPL", 5, 190))
	assert.Equal(t, 10100.0, p.Cash())
	assert.Empty(t, p.Holdings())
	assert.Empty(t, p.Symbols())
}

func TestBuyExactCash(t *testing.T) {
	t.Parallel()

	p := New(1000)
	require.NoError(t, p.Buy("GOOG", 10, 100))
	assert.Zero(t, p.Cash())
	assert.Equal(t, 10, p.Quantity("GOOG"))
}

func TestSellUnknownSymbol(t *testing.T) {
	t.Parallel()

	p := New(1000)
	err := p.Sell("TSLA", 1, 200)
	assert.ErrorIs(t, err, ErrInsufficientHoldings)
	assert.Equal(t, 1000.0, p.Cash())
}

func TestOrderValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		symbol string
		qty    int
		price  float64
		want   error
	}{
		{"zero qty", "AAPL", 0, 10, ErrInvalidQuantity},
		{"negative qty", "AAPL", -3, 10, ErrInvalidQuantity},
		{"zero price", "AAPL", 1, 0, ErrInvalidPrice},
		{"negative price", "AAPL", 1, -1, ErrInvalidPrice},
		{"nan price", "AAPL", 1, math.NaN(), ErrInvalidPrice},
		{"inf price", "AAPL", 1, math.Inf(1), ErrInvalidPrice},
		{"empty symbol", "", 1, 10, ErrInvalidSymbol},
		{"lowercase symbol", "aapl", 1, 10, ErrInvalidSymbol},
		{"comma in symbol", "BRK,B", 1, 10, ErrInvalidSymbol},
		{"space in symbol", "BRK B", 1, 10, ErrInvalidSymbol},
		{"newline in symbol", "AAPL\n", 1, 10, ErrInvalidSymbol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(1000)
			require.NoError(t, p.Buy("AAPL", 1, 10))

			assert.ErrorIs(t, p.Buy(tt.symbol, tt.qty, tt.price), tt.want)
			assert.ErrorIs(t, p.Sell(tt.symbol, tt.qty, tt.price), tt.want)
			assert.Equal(t, 990.0, p.Cash())
			assert.Equal(t, map[string]int{"AAPL": 1}, p.Holdings())
		})
	}
}

func TestInvalidQuantityIsNotInsufficientFunds(t *testing.T) {
	t.Parallel()

	err := New(0).Buy("AAPL", 0, 10)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.NotErrorIs(t, err, ErrInsufficientFunds)
}

func TestBuyRejectsHoldingOverflow(t *testing.T) {
	t.Parallel()

	p, err := Restore(1e20, nil)
	require.NoError(t, err)
	require.NoError(t, p.Buy("AAPL", math.MaxInt, 1))
	cash := p.Cash()

	err = p.Buy("AAPL", 1, 1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, cash, p.Cash())
	assert.Equal(t, math.MaxInt, p.Quantity("AAPL"))

	_, err = Restore(p.Cash(), p.Holdings())
	assert.NoError(t, err)
}

func TestValue(t *testing.T) {
	t.Parallel()

	p, err := Restore(500, map[string]int{"AAPL": 2, "GOOG": 3, "GONE": 100})
	require.NoError(t, err)

	prices := priceMap{"AAPL": 180, "GOOG": 120}
	assert.Equal(t, 500.0+2*180+3*120, p.Value(prices))
	assert.Equal(t, 500.0, p.Value(priceMap{}))
}

func TestRestoreValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cash     float64
		holdings map[string]int
	}{
		{"negative cash", -1, nil},
		{"nan cash", math.NaN(), nil},
		{"inf cash", math.Inf(1), nil},
		{"zero qty", 10, map[string]int{"AAPL": 0}},
		{"negative qty", 10, map[string]int{"AAPL": -2}},
		{"empty symbol", 10, map[string]int{"": 2}},
		{"comma symbol", 10, map[string]int{"BRK,B": 1}},
		{"space symbol", 10, map[string]int{"BRK B": 1}},
		{"lowercase symbol", 10, map[string]int{"aapl": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore(tt.cash, tt.holdings)
			assert.ErrorIs(t, err, ErrInvalidState)
		})
	}
}

func TestRestoreCopiesHoldings(t *testing.T) {
	t.Parallel()

	in := map[string]int{"AAPL": 4}
	p, err := Restore(1, in)
	require.NoError(t, err)

	in["AAPL"] = 99
	assert.Equal(t, 4, p.Quantity("AAPL"))

	out := p.Holdings()
	out["AAPL"] = 1
	assert.Equal(t, 4, p.Quantity("AAPL"))
}

func TestNewPanicsOnNegativeCash(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { New(-5) })
}

func TestEqual(t *testing.T) {
	t.Parallel()

	a, _ := Restore(10, map[string]int{"AAPL": 1})
	b, _ := Restore(10, map[string]int{"AAPL": 1})
	c, _ := Restore(10, map[string]int{"AAPL": 2})
	d, _ := Restore(11, map[string]int{"AAPL": 1})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.False(t, a.Equal(New(10)))
}
