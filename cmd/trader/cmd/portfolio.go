package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrader/session"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show a user's saved portfolio",
	Long: `Print cash, holdings and total value of a saved portfolio, marked at
the seed prices. Nothing is written back.

Example:
  trader portfolio -u alice`,
	Args: cobra.NoArgs,
	RunE: runPortfolio,
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	s, origin, st, err := openSession(cmd.Context(), cmd, userName, false)
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	if origin == session.Fresh {
		fmt.Fprintf(out, "No saved portfolio for %s; showing a new account.\n", s.User)
	}

	fmt.Fprintf(out, "Cash: $%.2f\n", s.Cash())
	for _, sym := range s.Portfolio.Symbols() {
		qty := s.Portfolio.Quantity(sym)
		if px, ok := s.Market.Price(sym); ok {
			fmt.Fprintf(out, "  %-6s %6d @ $%.2f = $%.2f\n", sym, qty, px, float64(qty)*px)
		} else {
			fmt.Fprintf(out, "  %-6s %6d (not listed)\n", sym, qty)
		}
	}
	fmt.Fprintf(out, "Total Value: $%.2f\n", s.Value())
	return nil
}
