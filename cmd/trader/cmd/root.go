package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrader/config"
	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/session"
	"github.com/rustyeddy/papertrader/store"
)

var rootCmd = &cobra.Command{
	Use:   "trader",
	Short: "A paper stock trading console",
	Long: `Trader is a single-user paper trading console.

It provides:
  - A small simulated market with random-walk prices
  - Buying and selling against a cash balance
  - A per-user trade ledger
  - Portfolio and ledger persistence between sessions (text files or SQLite)

Run "trader shell -u <name>" to start trading.`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	envFile  string
	userName string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file with TRADER_* settings")
	rootCmd.PersistentFlags().StringVarP(&userName, "user", "u", "", "username whose state to use")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile, envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	return cfg.Log.NewLogger(cmd.ErrOrStderr())
}

func openStore(cfg *config.Config) (store.Store, error) {
	st, err := store.Open(cfg.Storage.Type, cfg.Storage.Dir, cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Type, err)
	}
	return st, nil
}

// openSession loads user's state from the configured store. The caller
// closes the returned store.
func openSession(ctx context.Context, cmd *cobra.Command, user string, discardCorrupt bool) (*session.Session, session.Origin, store.Store, error) {
	if user == "" {
		return nil, session.Fresh, nil, errors.New("a username is required (--user)")
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, session.Fresh, nil, err
	}
	log, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, session.Fresh, nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, session.Fresh, nil, err
	}

	s, origin, err := session.Open(ctx, st, user, session.Options{
		StartingCash:   cfg.Account.StartingCash,
		DiscardCorrupt: discardCorrupt || cfg.Session.DiscardCorrupt,
		Market:         market.New(nil),
		Logger:         log,
	})
	if errors.Is(err, store.ErrCorruptState) {
		_ = st.Close()
		return nil, origin, nil, fmt.Errorf("saved state for %q is corrupt (use --discard-corrupt to start over): %w", user, err)
	}
	if err != nil {
		_ = st.Close()
		return nil, origin, nil, err
	}
	return s, origin, st, nil
}
