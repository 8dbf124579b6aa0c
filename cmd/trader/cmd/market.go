package cmd

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrader/market"
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Show the simulated market listing",
	Long: `Print the seed listing, optionally after advancing the random walk.

Examples:
  trader market
  trader market --ticks 20 --seed 42`,
	Args: cobra.NoArgs,
	RunE: runMarket,
}

var (
	marketTicks int
	marketSeed  int64
)

func init() {
	rootCmd.AddCommand(marketCmd)

	marketCmd.Flags().IntVarP(&marketTicks, "ticks", "n", 0, "price updates to apply before printing")
	marketCmd.Flags().Int64Var(&marketSeed, "seed", 0, "random seed (0 = time based)")
}

func runMarket(cmd *cobra.Command, args []string) error {
	if marketTicks < 0 {
		return fmt.Errorf("--ticks must not be negative")
	}

	var rng *rand.Rand
	if marketSeed != 0 {
		rng = rand.New(rand.NewSource(marketSeed))
	}
	m := market.New(rng)
	for i := 0; i < marketTicks; i++ {
		m.Tick()
	}

	out := cmd.OutOrStdout()
	for _, s := range m.List() {
		fmt.Fprintln(out, s)
	}
	return nil
}
