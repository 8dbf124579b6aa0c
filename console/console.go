// Package console is the interactive menu shell around a trading session.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rustyeddy/papertrader/session"
)

const menu = `
1) Show Market
2) Update Market
3) Buy Stock
4) Sell Stock
5) Portfolio
6) Transactions
7) Save
0) Exit
Choose: `

// errEOF ends the loop when input runs out mid-prompt.
var errEOF = errors.New("end of input")

type Console struct {
	in  *bufio.Scanner
	out io.Writer
	s   *session.Session
}

func New(in io.Reader, out io.Writer, s *session.Session) *Console {
	return &Console{in: bufio.NewScanner(in), out: out, s: s}
}

// Run shows the menu until the user exits or input ends. Both save the
// session first.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printf("%s", menu)
		choice, err := c.readLine()
		if errors.Is(err, errEOF) {
			c.printf("\n")
			c.save(ctx)
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			c.showMarket()
		case "2":
			c.s.Tick()
			c.printf("Market updated.\n")
		case "3":
			err = c.trade(true)
		case "4":
			err = c.trade(false)
		case "5":
			c.showPortfolio()
		case "6":
			c.showTransactions()
		case "7":
			c.save(ctx)
		case "0":
			c.save(ctx)
			c.printf("Goodbye.\n")
			return nil
		default:
			c.printf("Unknown option %q.\n", choice)
		}

		if errors.Is(err, errEOF) {
			c.printf("\n")
			c.save(ctx)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", errEOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) showMarket() {
	c.printf("\n=== Market Prices ===\n")
	for _, st := range c.s.Market.List() {
		c.printf("%s\n", st)
	}
}

func (c *Console) trade(buy bool) error {
	c.printf("Symbol: ")
	line, err := c.readLine()
	if err != nil {
		return err
	}
	symbol := strings.ToUpper(line)
	if symbol == "" {
		c.printf("Symbol required.\n")
		return nil
	}
	if _, ok := c.s.Market.Price(symbol); !ok {
		c.printf("Unknown symbol %s.\n", symbol)
		return nil
	}

	c.printf("Qty: ")
	line, err = c.readLine()
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(line)
	if err != nil || qty <= 0 {
		c.printf("Quantity must be a positive whole number.\n")
		return nil
	}

	verb := "Bought"
	exec := c.s.Buy
	if !buy {
		verb = "Sold"
		exec = c.s.Sell
	}

	rec, err := exec(symbol, qty)
	switch session.ReasonCode(err) {
	case "":
		c.printf("%s: %s\n", verb, rec)
	case session.ReasonInsufficientFunds:
		c.printf("Not enough cash.\n")
	case session.ReasonInsufficientHoldings:
		c.printf("Not enough shares.\n")
	default:
		c.printf("Trade failed: %v\n", err)
	}
	return nil
}

func (c *Console) showPortfolio() {
	p := c.s.Portfolio
	c.printf("Cash: $%.2f\n", p.Cash())
	for _, sym := range p.Symbols() {
		qty := p.Quantity(sym)
		if px, ok := c.s.Market.Price(sym); ok {
			c.printf("  %-6s %6d @ $%.2f = $%.2f\n", sym, qty, px, float64(qty)*px)
		} else {
			c.printf("  %-6s %6d (not listed)\n", sym, qty)
		}
	}
	c.printf("Total Value: $%.2f\n", c.s.Value())
}

func (c *Console) showTransactions() {
	recs := c.s.Ledger.All()
	if len(recs) == 0 {
		c.printf("No transactions.\n")
		return
	}
	for _, t := range recs {
		c.printf("%s\n", t)
	}
}

func (c *Console) save(ctx context.Context) {
	if err := c.s.Save(ctx); err != nil {
		c.printf("Error saving: %v\n", err)
		return
	}
	c.printf("Saved.\n")
}
