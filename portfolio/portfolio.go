// Package portfolio holds a cash balance and share holdings and enforces the
// buy/sell rules: cash never goes negative, and a holding that reaches zero
// is removed.
package portfolio

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rustyeddy/papertrader/market"
)

// DefaultCash is the endowment of a brand new portfolio.
const DefaultCash = 10000.0

var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInvalidPrice         = errors.New("price must be positive")
	ErrInvalidSymbol        = market.ErrInvalidSymbol
	ErrInvalidState         = errors.New("invalid portfolio state")
)

// PriceSource supplies current prices for valuation. market.Market
// satisfies it.
type PriceSource interface {
	Price(symbol string) (float64, bool)
}

type Portfolio struct {
	cash     float64
	holdings map[string]int
}

// New returns a portfolio holding only cash. It panics on a negative or
// non-finite amount; use Restore for untrusted input.
func New(cash float64) *Portfolio {
	p, err := Restore(cash, nil)
	if err != nil {
		panic(err)
	}
	return p
}

// Restore rebuilds a portfolio from persisted state, checking the same
// invariants Buy and Sell maintain.
func Restore(cash float64, holdings map[string]int) (*Portfolio, error) {
	if math.IsNaN(cash) || math.IsInf(cash, 0) || cash < 0 {
		return nil, fmt.Errorf("%w: cash %v", ErrInvalidState, cash)
	}
	p := &Portfolio{cash: cash, holdings: make(map[string]int, len(holdings))}
	for sym, qty := range holdings {
		if err := market.CheckSymbol(sym); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
		if qty <= 0 {
			return nil, fmt.Errorf("%w: %s quantity %d", ErrInvalidState, sym, qty)
		}
		p.holdings[sym] = qty
	}
	return p, nil
}

func (p *Portfolio) Cash() float64 { return p.cash }

// Quantity returns the shares held in symbol, zero when none.
func (p *Portfolio) Quantity(symbol string) int { return p.holdings[symbol] }

// Holdings returns a copy of the symbol -> quantity map.
func (p *Portfolio) Holdings() map[string]int {
	out := make(map[string]int, len(p.holdings))
	for s, q := range p.holdings {
		out[s] = q
	}
	return out
}

// Symbols returns the held symbols in sorted order.
func (p *Portfolio) Symbols() []string {
	out := make([]string, 0, len(p.holdings))
	for s := range p.holdings {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func checkOrder(symbol string, qty int, price float64) error {
	if err := market.CheckSymbol(symbol); err != nil {
		return err
	}
	if qty <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}
	if !(price > 0) || math.IsInf(price, 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidPrice, price)
	}
	return nil
}

// Buy spends qty*price of cash on symbol. Nothing changes when the cost
// exceeds the available cash or the holding would overflow int.
func (p *Portfolio) Buy(symbol string, qty int, price float64) error {
	if err := checkOrder(symbol, qty, price); err != nil {
		return fmt.Errorf("buy %s: %w", symbol, err)
	}

	held := p.holdings[symbol]
	if qty > math.MaxInt-held {
		return fmt.Errorf("buy %d %s: holding %d would overflow: %w", qty, symbol, held, ErrInvalidQuantity)
	}

	cost := float64(qty) * price
	if cost > p.cash {
		return fmt.Errorf("buy %d %s: cost %.2f exceeds cash %.2f: %w", qty, symbol, cost, p.cash, ErrInsufficientFunds)
	}

	p.cash -= cost
	p.holdings[symbol] = held + qty
	return nil
}

// Sell credits qty*price of cash and reduces the holding, dropping it at
// zero. Nothing changes when fewer than qty shares are held.
func (p *Portfolio) Sell(symbol string, qty int, price float64) error {
	if err := checkOrder(symbol, qty, price); err != nil {
		return fmt.Errorf("sell %s: %w", symbol, err)
	}

	held, ok := p.holdings[symbol]
	if !ok || held < qty {
		return fmt.Errorf("sell %d %s: holding %d: %w", qty, symbol, held, ErrInsufficientHoldings)
	}

	p.cash += float64(qty) * price
	if left := held - qty; left > 0 {
		p.holdings[symbol] = left
	} else {
		delete(p.holdings, symbol)
	}
	return nil
}

// Value is cash plus every holding marked at its current price. Holdings
// without a price contribute nothing.
func (p *Portfolio) Value(prices PriceSource) float64 {
	total := p.cash
	for _, sym := range p.Symbols() {
		if px, ok := prices.Price(sym); ok {
			total += float64(p.holdings[sym]) * px
		}
	}
	return total
}

// Equal reports whether two portfolios hold the same cash and holdings.
func (p *Portfolio) Equal(o *Portfolio) bool {
	if p.cash != o.cash || len(p.holdings) != len(o.holdings) {
		return false
	}
	for s, q := range p.holdings {
		if o.holdings[s] != q {
			return false
		}
	}
	return true
}
