// journal/journal.go
package journal

import (
	"errors"
	"fmt"
	"math"

	"github.com/rustyeddy/papertrader/market"
)

var ErrMalformedRecord = errors.New("malformed record")

// Kind is the side of an executed trade.
type Kind string

const (
	Buy  Kind = "BUY"
	Sell Kind = "SELL"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Buy, Sell:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrMalformedRecord, s)
}

// TradeRecord is one executed trade. Price is the quote at execution time.
type TradeRecord struct {
	Kind     Kind
	Symbol   string
	Quantity int
	Price    float64
}

// Total is the cash moved by the trade.
func (t TradeRecord) Total() float64 {
	return float64(t.Quantity) * t.Price
}

// Validate checks that t can be written and read back. Failures wrap
// ErrMalformedRecord.
func (t TradeRecord) Validate() error {
	if _, err := ParseKind(string(t.Kind)); err != nil {
		return err
	}
	if err := market.CheckSymbol(t.Symbol); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	if t.Quantity <= 0 {
		return fmt.Errorf("%w: bad quantity %d", ErrMalformedRecord, t.Quantity)
	}
	if !(t.Price > 0) || math.IsInf(t.Price, 1) {
		return fmt.Errorf("%w: bad price %v", ErrMalformedRecord, t.Price)
	}
	return nil
}

func (t TradeRecord) String() string {
	return fmt.Sprintf("%s %d of %s @ $%.2f", t.Kind, t.Quantity, t.Symbol, t.Price)
}

// Ledger is the append-only trade history of one user.
type Ledger struct {
	records []TradeRecord
}

func NewLedger(records ...TradeRecord) *Ledger {
	l := &Ledger{records: make([]TradeRecord, 0, len(records))}
	l.records = append(l.records, records...)
	return l
}

// Record appends t after every earlier record. Invalid records are
// refused and the ledger is left unchanged.
func (l *Ledger) Record(t TradeRecord) error {
	if err := t.Validate(); err != nil {
		return err
	}
	l.records = append(l.records, t)
	return nil
}

// All returns a copy of the records in the order they were recorded.
func (l *Ledger) All() []TradeRecord {
	out := make([]TradeRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Ledger) Len() int { return len(l.records) }
