package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrader/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Export a user's trade ledger",
	Long: `Print the saved trade ledger for a user.

Formats:
  text - one trade per line, as shown in the console
  csv  - spreadsheet friendly, with a running sequence number
  org  - org-mode outline for note taking

Examples:
  trader history -u alice
  trader history -u alice --format csv > alice.csv`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyFormat string

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVarP(&historyFormat, "format", "f", "text", "output format: text, csv or org")
}

func runHistory(cmd *cobra.Command, args []string) error {
	switch historyFormat {
	case "text", "csv", "org":
	default:
		return fmt.Errorf("unknown format %q (want text, csv or org)", historyFormat)
	}

	s, _, st, err := openSession(cmd.Context(), cmd, userName, false)
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	switch historyFormat {
	case "csv":
		return journal.WriteCSV(out, s.Ledger)
	case "org":
		_, err := fmt.Fprint(out, journal.FormatLedgerOrg(s.Ledger))
		return err
	}

	if s.Ledger.Len() == 0 {
		fmt.Fprintln(out, "No transactions.")
		return nil
	}
	for _, t := range s.Ledger.All() {
		fmt.Fprintln(out, t)
	}
	return nil
}
