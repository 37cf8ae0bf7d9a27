package main

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/pocket_ledger_app/internal/platform/config"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger := newLogger(cfg.LogLevel)

			dialect, dsn, err := database.Target(cfg)
			if err != nil {
				return err
			}

			if !statusOnly {
				if err := database.RunMigrations(dialect, dsn, logger); err != nil {
					return err
				}
			}

			version, dirty, err := database.MigrationVersion(dialect, dsn)
			if err != nil {
				return err
			}
			logger.Info("Schema version",
				slog.String("dialect", string(dialect)),
				slog.Uint64("version", uint64(version)),
				slog.Bool("dirty", dirty))
			return nil
		},
	}

	cmd.Flags().BoolVar(&statusOnly, "status", false, "only report the applied schema version")
	return cmd
}
