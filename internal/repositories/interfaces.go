package repositories

import (
	"context"
	"time"

	"finance-app/internal/models"

	"github.com/shopspring/decimal"
)

// CategoryRepositoryInterface defines the contract for category and keyword persistence
type CategoryRepositoryInterface interface {
	// ListWithKeywords returns every category with its keywords preloaded, ordered by id
	ListWithKeywords(ctx context.Context) ([]models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)

	CreateKeyword(ctx context.Context, keyword *models.CategoryKeyword) error
	GetKeywordByID(ctx context.Context, id uint) (*models.CategoryKeyword, error)
	ListKeywords(ctx context.Context, offset, limit int) ([]models.CategoryKeyword, int64, error)
	FindKeywords(ctx context.Context, keyword string) ([]models.CategoryKeyword, error)
	UpdateKeyword(ctx context.Context, keyword *models.CategoryKeyword) error
	DeleteKeyword(ctx context.Context, id uint) error
	DeleteKeywordsByCategory(ctx context.Context, categoryID uint) (int64, error)
}

// TransactionRepositoryInterface defines the contract for transaction persistence
type TransactionRepositoryInterface interface {
	// FindByKey looks up a transaction by its natural key (date, amount, partner name)
	FindByKey(ctx context.Context, date time.Time, amount decimal.Decimal, partnerName string) (uint, bool, error)
	Create(ctx context.Context, transaction *models.Transaction) error
	// CreateSkippingExisting inserts the transactions in one database transaction and
	// returns the ones actually created; rows colliding with the natural key are left out.
	CreateSkippingExisting(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error)
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	GetWithFilters(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, int64, error)
	// Update writes the editable fields of transaction back to its row
	Update(ctx context.Context, transaction *models.Transaction) error
	Delete(ctx context.Context, id uint) error
	UpdateCategory(ctx context.Context, ids []uint, categoryID *uint) (int64, error)
}
