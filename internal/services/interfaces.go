package services

import (
	"context"
	"io"
	"time"

	"finance-app/internal/models"
)

// ImportServiceInterface turns uploaded spreadsheets into reviewable import previews
type ImportServiceInterface interface {
	// Preview parses the spreadsheet and runs it through the import pipeline.
	// Nothing is persisted.
	Preview(ctx context.Context, filename string, r io.Reader) (*models.ImportResult, error)
}

// CategoryServiceInterface manages categories and the keywords that select them
type CategoryServiceInterface interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name, categoryType string) (*models.Category, error)
	ListKeywords(ctx context.Context, offset, limit int) ([]models.CategoryKeyword, int64, error)
	GetKeyword(ctx context.Context, id uint) (*models.CategoryKeyword, error)
	AddKeyword(ctx context.Context, categoryID uint, keyword string) (*models.CategoryKeyword, error)
	UpdateKeyword(ctx context.Context, id uint, keyword string) (*models.CategoryKeyword, error)
	DeleteKeyword(ctx context.Context, id uint) error
	DeleteKeywordsByCategory(ctx context.Context, categoryID uint) (int64, error)
}

// TransactionServiceInterface persists reviewed import rows and serves stored transactions
type TransactionServiceInterface interface {
	CommitImport(ctx context.Context, rows []models.NormalizedTransaction) (*models.CommitResult, error)
	List(ctx context.Context, offset, limit int) ([]models.Transaction, int64, error)
	ListUncategorized(ctx context.Context, offset, limit int) ([]models.Transaction, int64, error)
	Get(ctx context.Context, id uint) (*models.Transaction, error)
	Update(ctx context.Context, id uint, update models.TransactionUpdate) (*models.Transaction, error)
	Delete(ctx context.Context, id uint) error
	AssignCategory(ctx context.Context, ids []uint, categoryID *uint) (int64, error)
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() CircuitBreakerState
	Reset()
	GetFailureCount() int
}
