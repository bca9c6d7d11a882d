package importer

import (
	"finance-app/internal/models"

	"github.com/shopspring/decimal"
)

func computeStatistics(rows []models.NormalizedTransaction) *models.ImportStatistics {
	stats := &models.ImportStatistics{
		TotalTransactions: len(rows),
		Currencies:        make(map[string]int),
		Directions:        make(map[string]int),
		AmountSummary: models.AmountSummary{
			Total:     decimal.Zero,
			MinAmount: decimal.Zero,
			MaxAmount: decimal.Zero,
		},
	}

	for i, row := range rows {
		date := row.TransactionDate
		if stats.DateRange.Earliest == nil || date.Before(stats.DateRange.Earliest.Time) {
			d := date
			stats.DateRange.Earliest = &d
		}
		if stats.DateRange.Latest == nil || date.After(stats.DateRange.Latest.Time) {
			d := date
			stats.DateRange.Latest = &d
		}

		summary := &stats.AmountSummary
		summary.Total = summary.Total.Add(row.Amount)
		switch row.Amount.Sign() {
		case 1:
			summary.PositiveCount++
		case -1:
			summary.NegativeCount++
		}
		if i == 0 || row.Amount.LessThan(summary.MinAmount) {
			summary.MinAmount = row.Amount
		}
		if i == 0 || row.Amount.GreaterThan(summary.MaxAmount) {
			summary.MaxAmount = row.Amount
		}

		stats.Currencies[row.Currency]++
		if row.Direction != "" {
			stats.Directions[row.Direction]++
		}
		if row.SuggestedCategory != nil {
			stats.CategorizedCount++
		}
	}

	return stats
}
