package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// EncodeLine renders t as KIND,SYMBOL,QUANTITY,PRICE.
func EncodeLine(t TradeRecord) string {
	return strings.Join([]string{
		string(t.Kind),
		t.Symbol,
		strconv.Itoa(t.Quantity),
		FormatAmount(t.Price),
	}, ",")
}

// DecodeLine is the inverse of EncodeLine. Every failure wraps
// ErrMalformedRecord.
func DecodeLine(line string) (TradeRecord, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return TradeRecord{}, fmt.Errorf("%w: want 4 fields, got %d", ErrMalformedRecord, len(fields))
	}

	kind, err := ParseKind(fields[0])
	if err != nil {
		return TradeRecord{}, err
	}

	qty, err := strconv.Atoi(fields[2])
	if err != nil {
		return TradeRecord{}, fmt.Errorf("%w: bad quantity %q", ErrMalformedRecord, fields[2])
	}

	price, err := ParseAmount(fields[3])
	if err != nil {
		return TradeRecord{}, fmt.Errorf("%w: bad price %q", ErrMalformedRecord, fields[3])
	}

	t := TradeRecord{Kind: kind, Symbol: fields[1], Quantity: qty, Price: price}
	if err := t.Validate(); err != nil {
		return TradeRecord{}, err
	}
	return t, nil
}

// Encode writes one line per record. An empty ledger writes nothing. A
// record Decode would reject fails the encode before anything is written.
func Encode(w io.Writer, l *Ledger) error {
	for i, t := range l.records {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}

	bw := bufio.NewWriter(w)
	for _, t := range l.records {
		if _, err := bw.WriteString(EncodeLine(t) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads a ledger written by Encode. Blank lines are skipped; any
// other bad line fails the whole decode.
func Decode(r io.Reader) (*Ledger, error) {
	l := NewLedger()
	sc := bufio.NewScanner(r)

	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		t, err := DecodeLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if err := l.Record(t); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("line %d: %w: %w", n+1, ErrMalformedRecord, err)
		}
		return nil, err
	}
	return l, nil
}
