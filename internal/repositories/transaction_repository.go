package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-app/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

const defaultPageSize = 100

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// FindByKey returns the id of the transaction matching date, amount and partner name exactly
func (r *transactionRepository) FindByKey(ctx context.Context, date time.Time, amount decimal.Decimal, partnerName string) (uint, bool, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).
		Select("id").
		Where("transaction_date = ? AND amount = ? AND partner_name = ?", models.DateOnly(date), amount, partnerName).
		Order("id ASC").
		Take(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to look up transaction by key: %w", err)
	}
	return transaction.ID, true, nil
}

// Create creates a new transaction
func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateSkippingExisting inserts all transactions in a single database transaction.
// The natural key unique index decides what already exists.
func (r *transactionRepository) CreateSkippingExisting(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error) {
	created := make([]models.Transaction, 0, len(transactions))
	if len(transactions) == 0 {
		return created, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range transactions {
			txn := transactions[i]
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&txn)
			if result.Error != nil {
				return fmt.Errorf("failed to create transaction: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				continue
			}
			created = append(created, txn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetByID retrieves a transaction by ID
func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.WithContext(ctx).First(&transaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// GetWithFilters retrieves transactions matching the filters, newest first
func (r *transactionRepository) GetWithFilters(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Transaction{})

	if filters.StartDate != nil {
		query = query.Where("transaction_date >= ?", models.DateOnly(*filters.StartDate))
	}
	if filters.EndDate != nil {
		query = query.Where("transaction_date <= ?", models.DateOnly(*filters.EndDate))
	}
	if filters.Direction != "" {
		query = query.Where("direction = ?", filters.Direction)
	}
	if filters.Uncategorized {
		query = query.Where("category_id IS NULL")
	} else if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.PartnerName != "" {
		query = query.Where("LOWER(partner_name) LIKE LOWER(?)", "%"+filters.PartnerName+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	if err := query.
		Order("transaction_date DESC, id DESC").
		Offset(filters.Offset).Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get transactions with filters: %w", err)
	}

	return transactions, total, nil
}

// Update saves category, partner name, description and expense category of transaction
func (r *transactionRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	result := r.db.WithContext(ctx).Model(transaction).
		Select("category_id", "partner_name", "description", "expense_category", "updated_at").
		Updates(transaction)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// Delete removes a transaction by ID
func (r *transactionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Transaction{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// UpdateCategory assigns categoryID (or clears it when nil) on the given transactions
func (r *transactionRepository) UpdateCategory(ctx context.Context, ids []uint, categoryID *uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"category_id": categoryID,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update transaction categories: %w", result.Error)
	}
	return result.RowsAffected, nil
}
