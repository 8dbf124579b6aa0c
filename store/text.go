package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/portfolio"
)

// EncodePortfolio writes cash on the first line followed by one
// SYMBOL,QUANTITY line per holding, sorted by symbol.
func EncodePortfolio(w io.Writer, p *portfolio.Portfolio) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(journal.FormatAmount(p.Cash()) + "\n"); err != nil {
		return err
	}
	for _, sym := range p.Symbols() {
		if _, err := fmt.Fprintf(bw, "%s,%d\n", sym, p.Quantity(sym)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodePortfolio reads what EncodePortfolio wrote. Blank lines are
// ignored.
func DecodePortfolio(r io.Reader) (*portfolio.Portfolio, error) {
	sc := bufio.NewScanner(r)

	var (
		cash     float64
		seenCash bool
		holdings = map[string]int{}
		n        int
	)
	for sc.Scan() {
		n++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}

		if !seenCash {
			c, err := journal.ParseAmount(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: cash: %w", n, err)
			}
			cash, seenCash = c, true
			continue
		}

		sym, qtyStr, ok := strings.Cut(line, ",")
		if !ok || sym == "" || strings.Contains(qtyStr, ",") {
			return nil, fmt.Errorf("line %d: want SYMBOL,QUANTITY, got %q", n, line)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			return nil, fmt.Errorf("line %d: quantity: %w", n, err)
		}
		if _, dup := holdings[sym]; dup {
			return nil, fmt.Errorf("line %d: duplicate holding %s", n, sym)
		}
		holdings[sym] = qty
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", n+1, err)
	}
	if !seenCash {
		return nil, errors.New("missing cash line")
	}

	return portfolio.Restore(cash, holdings)
}
