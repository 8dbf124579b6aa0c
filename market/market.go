// market/market.go
package market

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// MinPrice is the floor applied after every tick.
const MinPrice = 1.0

// MaxStep bounds the per-tick random move in either direction.
const MaxStep = 5.0

var (
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrInvalidStock  = errors.New("invalid stock")
)

type Stock struct {
	Symbol string
	Price  float64
}

func (s Stock) String() string {
	return fmt.Sprintf("%s : $%.2f", s.Symbol, s.Price)
}

// DefaultStocks is the fixed seed set every new market starts with.
func DefaultStocks() []Stock {
	return []Stock{
		{Symbol: "AAPL", Price: 180},
		{Symbol: "GOOG", Price: 120},
		{Symbol: "TSLA", Price: 200},
	}
}

// Market is the in-memory symbol -> price table. It is owned by a single
// session and is not safe for concurrent use.
type Market struct {
	stocks []Stock
	index  map[string]int
	rng    *rand.Rand
}

// New returns a market seeded with DefaultStocks. A nil rng gets a
// time-seeded source.
func New(rng *rand.Rand) *Market {
	m, err := NewWithStocks(rng, DefaultStocks())
	if err != nil {
		panic(err)
	}
	return m
}

// NewWithStocks builds a market from an explicit listing, kept in the given order.
func NewWithStocks(rng *rand.Rand, stocks []Stock) (*Market, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	m := &Market{
		stocks: make([]Stock, 0, len(stocks)),
		index:  make(map[string]int, len(stocks)),
		rng:    rng,
	}
	for _, s := range stocks {
		if err := validStock(s); err != nil {
			return nil, err
		}
		if _, dup := m.index[s.Symbol]; dup {
			return nil, fmt.Errorf("%w: duplicate symbol %q", ErrInvalidStock, s.Symbol)
		}
		m.index[s.Symbol] = len(m.stocks)
		m.stocks = append(m.stocks, s)
	}
	return m, nil
}

func validStock(s Stock) error {
	if err := CheckSymbol(s.Symbol); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidStock, err)
	}
	if !(s.Price > 0) || math.IsInf(s.Price, 1) {
		return fmt.Errorf("%w: %s price %v must be positive", ErrInvalidStock, s.Symbol, s.Price)
	}
	return nil
}

// Price looks up the current price. ok is false for unlisted symbols.
func (m *Market) Price(symbol string) (float64, bool) {
	i, ok := m.index[symbol]
	if !ok {
		return 0, false
	}
	return m.stocks[i].Price, true
}

// Quote is Price with an ErrUnknownSymbol error for unlisted symbols.
func (m *Market) Quote(symbol string) (float64, error) {
	p, ok := m.Price(symbol)
	if !ok {
		return 0, fmt.Errorf("quote %q: %w", symbol, ErrUnknownSymbol)
	}
	return p, nil
}

// Tick moves every price by a uniform step in [-MaxStep, +MaxStep] and clamps
// the result to MinPrice. New prices are computed before any is stored.
func (m *Market) Tick() {
	if len(m.stocks) == 0 {
		return
	}

	next := make([]float64, len(m.stocks))
	for i, s := range m.stocks {
		p := s.Price + (m.rng.Float64()*2-1)*MaxStep
		if p < MinPrice {
			p = MinPrice
		}
		next[i] = p
	}
	for i := range m.stocks {
		m.stocks[i].Price = next[i]
	}
}

// List returns a copy of the listing in insertion order.
func (m *Market) List() []Stock {
	out := make([]Stock, len(m.stocks))
	copy(out, m.stocks)
	return out
}

func (m *Market) Len() int { return len(m.stocks) }
