package dto

import (
	"finance-app/internal/models"
)

// Transaction Request DTOs

// PaginationParams contains offset pagination parameters
type PaginationParams struct {
	Offset int `query:"offset"`
	Limit  int `query:"limit"`
}

// CommitTransactionsRequest carries the reviewed preview rows to persist
type CommitTransactionsRequest struct {
	Transactions []models.NormalizedTransaction `json:"transactions" validate:"required,min=1"`
}

// BulkCategoryRequest assigns one category to many transactions.
// A null category_id clears the assignment.
type BulkCategoryRequest struct {
	TransactionIDs []uint `json:"transaction_ids" validate:"required,min=1,dive,gt=0"`
	CategoryID     *uint  `json:"category_id" validate:"omitempty,gt=0"`
}

// UpdateTransactionRequest edits one stored transaction. Omitted or null
// fields are left unchanged.
type UpdateTransactionRequest struct {
	CategoryID      *uint   `json:"category_id" validate:"omitempty,gt=0"`
	PartnerName     *string `json:"partner_name" validate:"omitempty,max=200"`
	Description     *string `json:"description" validate:"omitempty,max=500"`
	ExpenseCategory *string `json:"expense_category" validate:"omitempty,max=200"`
}

// ToUpdate converts the request into the service's update set
func (r UpdateTransactionRequest) ToUpdate() models.TransactionUpdate {
	return models.TransactionUpdate{
		CategoryID:      r.CategoryID,
		PartnerName:     r.PartnerName,
		Description:     r.Description,
		ExpenseCategory: r.ExpenseCategory,
	}
}

// Transaction Response DTOs

// TransactionListResponse represents a paginated list of transactions
type TransactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
	Offset       int                  `json:"offset"`
	Limit        int                  `json:"limit"`
}

// BulkCategoryResponse reports how many transactions were re-categorized
type BulkCategoryResponse struct {
	UpdatedCount int64 `json:"updated_count"`
	CategoryID   *uint `json:"category_id"`
}
