package handlers

import (
	"context"
	"net/http"

	"finance-app/internal/dto"
	"finance-app/internal/errors"
	"finance-app/internal/models"
	"finance-app/internal/services"

	"github.com/labstack/echo/v4"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CommitTransactions persists reviewed preview rows
// @Summary Commit an import
// @Description Store every reviewed preview row that is not flagged as duplicate. Rows colliding with stored transactions are skipped.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body dto.CommitTransactionsRequest true "Reviewed preview rows"
// @Success 201 {object} models.CommitResult "Created and skipped counts, rejected rows with reasons"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid body or TRANSACTION_002 - Nothing to commit"
// @Failure 413 {object} errors.ErrorResponse "SYSTEM_008 - Request body too large"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions/bulk [post]
func (h *TransactionHandler) CommitTransactions(c echo.Context) error {
	var req dto.CommitTransactionsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	result, err := h.transactionService.CommitImport(c.Request().Context(), req.Transactions)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, result)
}

// ListTransactions lists stored transactions, newest first
// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Param offset query int false "Rows to skip (alias: skip)" default(0)
// @Param limit query int false "Page size (max 1000)" default(100)
// @Success 200 {object} dto.TransactionListResponse
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	return h.list(c, h.transactionService.List)
}

// ListUncategorized lists transactions without a category, newest first
// @Summary List uncategorized transactions
// @Tags Transactions
// @Produce json
// @Param offset query int false "Rows to skip (alias: skip)" default(0)
// @Param limit query int false "Page size (max 1000)" default(100)
// @Success 200 {object} dto.TransactionListResponse
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions/uncategorized [get]
func (h *TransactionHandler) ListUncategorized(c echo.Context) error {
	return h.list(c, h.transactionService.ListUncategorized)
}

type listFunc func(ctx context.Context, offset, limit int) ([]models.Transaction, int64, error)

func (h *TransactionHandler) list(c echo.Context, fetch listFunc) error {
	page := getPagination(c)

	transactions, total, err := fetch(c.Request().Context(), page.Offset, page.Limit)
	if err != nil {
		return SendSystemError(c, err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	return c.JSON(http.StatusOK, dto.TransactionListResponse{
		Transactions: transactions,
		Total:        total,
		Offset:       page.Offset,
		Limit:        page.Limit,
	})
}

// GetTransaction retrieves a specific transaction by ID
// @Summary Get transaction by ID
// @Tags Transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} errors.ErrorResponse "TRANSACTION_004 - Invalid transaction ID"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.TransactionInvalidID, errors.WithDetails(err.Error()))
	}

	transaction, err := h.transactionService.Get(c.Request().Context(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction edits the category, partner name, description or expense category of a transaction
// @Summary Update transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} errors.ErrorResponse "TRANSACTION_004 - Invalid transaction ID or VALIDATION_001 - Invalid request body"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found or CATEGORY_001 - Category not found"
// @Failure 409 {object} errors.ErrorResponse "TRANSACTION_005 - Natural key collision"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.TransactionInvalidID, errors.WithDetails(err.Error()))
	}

	var req dto.UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	transaction, err := h.transactionService.Update(c.Request().Context(), id, req.ToUpdate())
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction removes a transaction
// @Summary Delete transaction
// @Tags Transactions
// @Param id path int true "Transaction ID"
// @Success 204 "Deleted"
// @Failure 400 {object} errors.ErrorResponse "TRANSACTION_004 - Invalid transaction ID"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.TransactionInvalidID, errors.WithDetails(err.Error()))
	}

	if err := h.transactionService.Delete(c.Request().Context(), id); err != nil {
		return sendServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AssignCategory sets or clears the category of many transactions
// @Summary Bulk category assignment
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body dto.BulkCategoryRequest true "Transaction ids and category"
// @Success 200 {object} dto.BulkCategoryResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body"
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001 - Category not found"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions/bulk/category [put]
func (h *TransactionHandler) AssignCategory(c echo.Context) error {
	var req dto.BulkCategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	updated, err := h.transactionService.AssignCategory(c.Request().Context(), req.TransactionIDs, req.CategoryID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BulkCategoryResponse{
		UpdatedCount: updated,
		CategoryID:   req.CategoryID,
	})
}
