package commands

import (
	"fmt"
	"os"

	"finance-app/internal/config"
	"finance-app/internal/database"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// dbOpener connects to the configured database
type dbOpener func(cfg *config.Config) (*database.DB, error)

func openDatabase(cfg *config.Config) (*database.DB, error) {
	return database.New(&cfg.Database)
}

// NewRootCommand creates the importctl command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "importctl",
		Short: "Preview bank statement imports and manage the finance database",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(envFile, cmd.Flags().Changed("env-file"))
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading configuration")

	rootCmd.AddCommand(newPreviewCommand(openDatabase))
	rootCmd.AddCommand(newMigrateCommand(openDatabase))

	return rootCmd
}

// loadEnvFile tolerates a missing default file but not a missing explicit one
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return fmt.Errorf("env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
