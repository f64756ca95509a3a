package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"SMARTTRIP_BACK-END/internal/config"
	"SMARTTRIP_BACK-END/internal/logger"
	"SMARTTRIP_BACK-END/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the database schema",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(store.Up), string(store.Down)},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.Log, os.Stderr)

	if cfg.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}

	dir := store.Direction(args[0])
	if err := store.Migrate(cfg.GetDSN(), dir); err != nil {
		return err
	}
	log.Info().Str("direction", args[0]).Msg("migrations complete")
	return nil
}
