package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrader/console"
	"github.com/rustyeddy/papertrader/session"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive trading console",
	Long: `Load (or create) a user's portfolio and open the trading menu.

State is saved on "Save" and on exit.

Example:
  trader shell -u alice`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

var shellDiscardCorrupt bool

func init() {
	rootCmd.AddCommand(shellCmd)

	shellCmd.Flags().BoolVar(&shellDiscardCorrupt, "discard-corrupt", false, "start fresh if saved state is corrupt")
}

func runShell(cmd *cobra.Command, args []string) error {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "=== Simple Stock Trading Platform ===")

	user := userName
	if user == "" {
		fmt.Fprint(out, "Enter username: ")
		line, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		user = strings.TrimSpace(line)
	}

	s, origin, st, err := openSession(cmd.Context(), cmd, user, shellDiscardCorrupt)
	if err != nil {
		return err
	}
	defer st.Close()

	switch origin {
	case session.Restored:
		fmt.Fprintln(out, "Loaded existing user.")
	case session.Fresh:
		fmt.Fprintln(out, "New user created.")
	case session.Recovered:
		fmt.Fprintln(out, "Saved state was corrupt and has been discarded; starting fresh.")
	}

	return console.New(in, out, s).Run(cmd.Context())
}
