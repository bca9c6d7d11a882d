package commands

import (
	"fmt"

	"finance-app/internal/config"
	"finance-app/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCommand(open dbOpener) *cobra.Command {
	var (
		noSeed         bool
		migrationsPath string
		seedsPath      string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and seed the default categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			db, err := open(cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			sqlDB, err := db.DB.DB()
			if err != nil {
				return fmt.Errorf("failed to get sql.DB: %w", err)
			}

			opts := database.MigrateOptions{
				MigrationsPath: firstNonEmpty(migrationsPath, cfg.Database.MigrationsPath),
				SeedsPath:      firstNonEmpty(seedsPath, cfg.Database.SeedsPath),
				Seed:           !noSeed,
			}
			if err := database.Migrate(cmd.Context(), sqlDB, opts); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "apply schema migrations only")
	cmd.Flags().StringVar(&migrationsPath, "migrations", "", "migrations directory (default from MIGRATIONS_PATH)")
	cmd.Flags().StringVar(&seedsPath, "seeds", "", "seeds directory (default from SEEDS_PATH)")

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
