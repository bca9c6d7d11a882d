package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finance-app/internal/models"
	"finance-app/internal/repositories"
)

const (
	DefaultTransactionLimit = 100
	MaxTransactionLimit     = 1000
)

var (
	ErrNothingToCommit     = errors.New("no transactions to commit")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNoTransactionIDs    = errors.New("at least one transaction id is required")
	ErrTransactionConflict = errors.New("another transaction has the same date, amount and partner")
)

// TransactionService persists reviewed import rows and serves stored transactions
type TransactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		metrics:         metrics,
		logger:          logger,
	}
}

// CommitImport stores every valid row not flagged as a duplicate in one
// database transaction. Rows failing validation are reported in Rejected and,
// like rows whose natural key already exists, counted as skipped.
func (s *TransactionService) CommitImport(ctx context.Context, rows []models.NormalizedTransaction) (*models.CommitResult, error) {
	if len(rows) == 0 {
		return nil, ErrNothingToCommit
	}

	start := time.Now()
	batch := make([]models.Transaction, 0, len(rows))
	rejected := []models.SkippedRow{}
	flagged := 0
	for i := range rows {
		if rows[i].IsDuplicate {
			flagged++
			continue
		}

		txn := rows[i].ToTransaction()
		if txn.Currency == "" {
			txn.Currency = models.DefaultCurrency
		}
		if err := txn.Validate(); err != nil {
			rejected = append(rejected, models.SkippedRow{RowNumber: rows[i].RowNumber, Reason: err.Error()})
			continue
		}
		batch = append(batch, *txn)
	}

	created, err := s.transactionRepo.CreateSkippingExisting(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to commit transactions: %w", err)
	}
	if created == nil {
		created = []models.Transaction{}
	}

	result := &models.CommitResult{
		CreatedCount: len(created),
		SkippedCount: flagged + len(rejected) + len(batch) - len(created),
		Rejected:     rejected,
		Transactions: created,
	}

	s.metrics.RecordProcessingTime(MetricTransactionsCommit, time.Since(start))
	s.metrics.RecordGauge(MetricTransactionsCommit, float64(result.CreatedCount), map[string]string{"outcome": "created"})
	s.metrics.RecordGauge(MetricTransactionsCommit, float64(result.SkippedCount), map[string]string{"outcome": "skipped"})
	s.logger.Info("import committed",
		slog.Int("received", len(rows)),
		slog.Int("created", result.CreatedCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("rejected", len(rejected)),
	)

	return result, nil
}

func (s *TransactionService) List(ctx context.Context, offset, limit int) ([]models.Transaction, int64, error) {
	return s.list(ctx, models.TransactionFilters{}, offset, limit)
}

func (s *TransactionService) ListUncategorized(ctx context.Context, offset, limit int) ([]models.Transaction, int64, error) {
	return s.list(ctx, models.TransactionFilters{Uncategorized: true}, offset, limit)
}

func (s *TransactionService) list(ctx context.Context, filters models.TransactionFilters, offset, limit int) ([]models.Transaction, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	if limit > MaxTransactionLimit {
		limit = MaxTransactionLimit
	}
	filters.Offset = offset
	filters.Limit = limit

	transactions, total, err := s.transactionRepo.GetWithFilters(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, total, nil
}

func (s *TransactionService) Get(ctx context.Context, id uint) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

// Update changes the editable fields of one transaction and returns it as
// stored. A new category must exist; a new partner name must not collide
// with another transaction's natural key.
func (s *TransactionService) Update(ctx context.Context, id uint, update models.TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return transaction, nil
	}

	if update.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *update.CategoryID); err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to get category: %w", err)
		}
	}

	if update.PartnerName != nil && *update.PartnerName != transaction.PartnerName {
		existingID, found, err := s.transactionRepo.FindByKey(ctx, transaction.TransactionDate, transaction.Amount, *update.PartnerName)
		if err != nil {
			return nil, fmt.Errorf("failed to check natural key: %w", err)
		}
		if found && existingID != id {
			return nil, fmt.Errorf("%w: transaction %d", ErrTransactionConflict, existingID)
		}
	}

	update.ApplyTo(transaction)
	if err := transaction.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	if err := s.transactionRepo.Update(ctx, transaction); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.logger.Info("transaction updated", slog.Uint64("transaction_id", uint64(id)))
	return transaction, nil
}

func (s *TransactionService) Delete(ctx context.Context, id uint) error {
	if err := s.transactionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.logger.Info("transaction deleted", slog.Uint64("transaction_id", uint64(id)))
	return nil
}

// AssignCategory sets the category of the given transactions; a nil
// categoryID clears it. Unknown ids are ignored.
func (s *TransactionService) AssignCategory(ctx context.Context, ids []uint, categoryID *uint) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoTransactionIDs
	}

	if categoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *categoryID); err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return 0, ErrCategoryNotFound
			}
			return 0, fmt.Errorf("failed to get category: %w", err)
		}
	}

	updated, err := s.transactionRepo.UpdateCategory(ctx, ids, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to assign category: %w", err)
	}

	s.logger.Info("category assigned",
		slog.Int("requested", len(ids)),
		slog.Int64("updated", updated),
	)
	return updated, nil
}
