package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"finance-app/internal/config"
	"finance-app/internal/logging"
	"finance-app/internal/repositories"
	"finance-app/internal/services"

	"github.com/spf13/cobra"
)

// ErrInvalidStructure is returned after printing a result that failed the column check
var ErrInvalidStructure = errors.New("file structure is invalid")

func newPreviewCommand(open dbOpener) *cobra.Command {
	var (
		offline bool
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Run the import pipeline on a local spreadsheet and print the result as JSON",
		Long: `Reads an .xlsx or .xls bank statement, validates its columns, normalizes
every row and suggests categories. Against the configured database the
current categories are used and already stored transactions are flagged as
duplicates. With --offline no database is contacted: no categories are
suggested and nothing is flagged as duplicate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, open, args[0], offline, compact)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "skip the database: empty category snapshot, no duplicate lookups")
	cmd.Flags().BoolVar(&compact, "compact", false, "print JSON on a single line")

	return cmd
}

func runPreview(cmd *cobra.Command, open dbOpener, path string, offline, compact bool) error {
	cfg := config.Load()
	logger := logging.New(cfg, cmd.ErrOrStderr())

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var (
		categoryRepo    repositories.CategoryRepositoryInterface
		transactionRepo repositories.TransactionRepositoryInterface
	)
	if !offline {
		db, err := open(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		categoryRepo = repositories.NewCategoryRepository(db.DB)
		transactionRepo = repositories.NewTransactionRepository(db.DB)
	}

	importService := services.NewImportServiceFromConfig(cfg.Import, categoryRepo, transactionRepo, nil, logger)

	ctx := cmd.Context()
	if cfg.Import.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Import.Timeout)
		defer cancel()
	}

	result, err := importService.Preview(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if !result.Success {
		return ErrInvalidStructure
	}
	return nil
}
