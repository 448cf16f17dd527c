package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boothworks/voterscan/internal/config"
	"github.com/boothworks/voterscan/internal/session"
	"github.com/boothworks/voterscan/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "voterscan",
	Short: "Voter list document scanner",
	Long:  "Uploads scanned voter-list pages, extracts structured records via Claude vision, and answers questions grounded in the extracted data. Run without a subcommand to open the interactive session.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

// initCoordinator opens the session store, migrates it and restores
// the persisted session.
func initCoordinator(cmd *cobra.Command) (*session.Coordinator, store.Store, error) {
	ctx := cmd.Context()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, eris.Wrap(err, "migrate store")
	}

	coord := session.NewCoordinator(st)
	coord.Load(ctx)
	return coord, st, nil
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
