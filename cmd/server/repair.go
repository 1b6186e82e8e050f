package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/emporium-commerce/emporium/internal/config"
	"github.com/emporium-commerce/emporium/internal/customer"
	"github.com/emporium-commerce/emporium/internal/database"
)

func repairPasswordHashesCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "repair-password-hashes",
		Short: "Restore customer password hashes recorded in notes",
		Long: `Finds customers without a password hash whose notes carry a
"legacy_password_hash:<bcrypt hash>" line and moves the hash into place.
Customers that already have a hash are never changed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadDatabase()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			setupLogger(cfg.LogLevel)

			ctx := cmd.Context()
			db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBTimeout)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer db.Close()

			report, err := customer.RepairPasswordHashes(ctx, customer.NewRepository(db.Pool()), dryRun)
			if err != nil {
				return err
			}

			slog.Info("password hash repair finished",
				"dryRun", dryRun,
				"scanned", report.Scanned,
				"repaired", report.Repaired,
				"skipped", report.Skipped,
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")

	return cmd
}
