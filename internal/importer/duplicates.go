package importer

import (
	"context"
	"fmt"
	"time"

	"finance-app/internal/models"

	"github.com/shopspring/decimal"
)

// CategorySource supplies the category snapshot a run matches against
type CategorySource interface {
	ListWithKeywords(ctx context.Context) ([]models.Category, error)
}

// DuplicateFinder looks up a persisted transaction by its natural key
type DuplicateFinder interface {
	FindByKey(ctx context.Context, date time.Time, amount decimal.Decimal, partnerName string) (uint, bool, error)
}

// NoDuplicates is a DuplicateFinder for runs without a transaction store
type NoDuplicates struct{}

// FindByKey never finds anything
func (NoDuplicates) FindByKey(context.Context, time.Time, decimal.Decimal, string) (uint, bool, error) {
	return 0, false, nil
}

// detectDuplicates flags every row whose (date, amount, partner name) already
// exists and returns the duplicate list. Rows are updated in place.
func detectDuplicates(ctx context.Context, rows []models.NormalizedTransaction, finder DuplicateFinder) ([]models.DuplicateInfo, error) {
	duplicates := []models.DuplicateInfo{}

	for i := range rows {
		row := &rows[i]
		row.IsDuplicate = false
		row.ExistingTransactionID = nil

		id, found, err := finder.FindByKey(ctx, row.TransactionDate.Time, row.Amount, row.PartnerName)
		if err != nil {
			return nil, fmt.Errorf("duplicate lookup for row %d: %w", row.RowNumber, err)
		}
		if !found {
			continue
		}

		existing := id
		row.IsDuplicate = true
		row.ExistingTransactionID = &existing
		duplicates = append(duplicates, models.DuplicateInfo{
			RowNumber:             row.RowNumber,
			PartnerName:           row.PartnerName,
			Amount:                row.Amount,
			TransactionDate:       row.TransactionDate,
			ExistingTransactionID: id,
		})
	}

	return duplicates, nil
}
