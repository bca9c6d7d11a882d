package models

import (
	"time"
)

// TransactionFilters contains filtering options for transaction queries
type TransactionFilters struct {
	StartDate     *time.Time
	EndDate       *time.Time
	Direction     string
	CategoryID    *uint
	Uncategorized bool
	PartnerName   string
	Offset        int
	Limit         int
}
