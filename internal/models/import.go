package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date that encodes as YYYY-MM-DD
type Date struct {
	time.Time
}

// NewDate returns the Date of t's calendar day
func NewDate(t time.Time) Date {
	return Date{Time: DateOnly(t)}
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		d.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		// Accept full timestamps as well
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", s, err)
		}
	}
	d.Time = DateOnly(parsed)
	return nil
}

// String returns the date in YYYY-MM-DD form
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// NormalizedTransaction is one spreadsheet row converted to the canonical import record
type NormalizedTransaction struct {
	RowNumber             int             `json:"row_number"`
	TransactionDate       Date            `json:"transaction_date"`
	BookingDate           *Date           `json:"booking_date"`
	TransactionType       string          `json:"transaction_type"`
	Direction             string          `json:"direction"`
	PartnerName           string          `json:"partner_name"`
	PartnerAccount        string          `json:"partner_account"`
	ExpenseCategoryLabel  string          `json:"expense_category"`
	Description           string          `json:"description"`
	AccountName           string          `json:"account_name"`
	AccountNumber         string          `json:"account_number"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	SuggestedCategory     *CategoryRef    `json:"suggested_category"`
	IsDuplicate           bool            `json:"is_duplicate"`
	ExistingTransactionID *uint           `json:"existing_transaction_id,omitempty"`
}

// ToTransaction converts the import record into a persistable transaction
func (n *NormalizedTransaction) ToTransaction() *Transaction {
	txn := &Transaction{
		TransactionDate: DateOnly(n.TransactionDate.Time),
		TransactionType: n.TransactionType,
		Direction:       n.Direction,
		PartnerName:     n.PartnerName,
		PartnerAccount:  n.PartnerAccount,
		ExpenseCategory: n.ExpenseCategoryLabel,
		Description:     n.Description,
		AccountName:     n.AccountName,
		AccountNumber:   n.AccountNumber,
		Amount:          n.Amount,
		Currency:        n.Currency,
	}

	if n.BookingDate != nil && !n.BookingDate.IsZero() {
		booking := DateOnly(n.BookingDate.Time)
		txn.BookingDate = &booking
	}

	if n.SuggestedCategory != nil {
		id := n.SuggestedCategory.ID
		txn.CategoryID = &id
	}

	return txn
}

// DuplicateInfo describes an import row that already exists in the store
type DuplicateInfo struct {
	RowNumber             int             `json:"row_number"`
	PartnerName           string          `json:"partner_name"`
	Amount                decimal.Decimal `json:"amount"`
	TransactionDate       Date            `json:"transaction_date"`
	ExistingTransactionID uint            `json:"existing_transaction_id"`
}

// SkippedRow is a row that failed its transform and was left out of the result
type SkippedRow struct {
	RowNumber int    `json:"row_number"`
	Reason    string `json:"reason"`
}

// DateRange holds the earliest and latest transaction dates of an import
type DateRange struct {
	Earliest *Date `json:"earliest"`
	Latest   *Date `json:"latest"`
}

// AmountSummary aggregates the signed amounts of an import
type AmountSummary struct {
	Total         decimal.Decimal `json:"total"`
	PositiveCount int             `json:"positive_count"`
	NegativeCount int             `json:"negative_count"`
	MinAmount     decimal.Decimal `json:"min_amount"`
	MaxAmount     decimal.Decimal `json:"max_amount"`
}

// ImportStatistics summarizes the processed rows of an import
type ImportStatistics struct {
	TotalTransactions int            `json:"total_transactions"`
	DateRange         DateRange      `json:"date_range"`
	AmountSummary     AmountSummary  `json:"amount_summary"`
	Currencies        map[string]int `json:"currencies"`
	Directions        map[string]int `json:"directions"`
	CategorizedCount  int            `json:"categorized_count"`
}

// ImportResult is the outcome of one import pipeline run
type ImportResult struct {
	Success          bool                    `json:"success"`
	Message          string                  `json:"message"`
	Rows             []NormalizedTransaction `json:"rows"`
	DuplicateCount   int                     `json:"duplicate_count"`
	Duplicates       []DuplicateInfo         `json:"duplicates"`
	Warnings         []string                `json:"warnings"`
	Errors           []string                `json:"errors"`
	AvailableColumns []string                `json:"available_columns,omitempty"`
	SkippedRows      []SkippedRow            `json:"skipped_rows"`
	EmptyRowsRemoved int                     `json:"empty_rows_removed"`
	Statistics       *ImportStatistics       `json:"statistics,omitempty"`
}

// CommitResult is the outcome of persisting reviewed import rows.
// SkippedCount covers flagged duplicates, natural key collisions and the
// rows listed in Rejected.
type CommitResult struct {
	CreatedCount int           `json:"created_count"`
	SkippedCount int           `json:"skipped_count"`
	Rejected     []SkippedRow  `json:"rejected"`
	Transactions []Transaction `json:"transactions"`
}
