package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction directions after mapping from the bank's labels
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// DefaultCurrency is applied when a row carries no currency code
const DefaultCurrency = "HUF"

var (
	ErrTransactionDateRequired = errors.New("transaction date is required")
	ErrInvalidDirection        = errors.New("direction must be 'incoming' or 'outgoing'")
	ErrInvalidCurrency         = errors.New("currency must be a 3 letter code")
)

// Transaction represents a persisted bank transaction
type Transaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	TransactionDate time.Time       `gorm:"type:date;not null;uniqueIndex:idx_transactions_natural_key,priority:1" json:"transaction_date"`
	BookingDate     *time.Time      `gorm:"type:date" json:"booking_date,omitempty"`
	TransactionType string          `gorm:"type:varchar(100);not null;default:''" json:"transaction_type"`
	Direction       string          `gorm:"type:varchar(10);not null" json:"direction"`
	PartnerName     string          `gorm:"type:varchar(200);not null;default:'';uniqueIndex:idx_transactions_natural_key,priority:3" json:"partner_name"`
	PartnerAccount  string          `gorm:"type:varchar(100)" json:"partner_account"`
	ExpenseCategory string          `gorm:"type:varchar(200)" json:"expense_category"`
	Description     string          `gorm:"type:varchar(500)" json:"description"`
	AccountName     string          `gorm:"type:varchar(100)" json:"account_name"`
	AccountNumber   string          `gorm:"type:varchar(50)" json:"account_number"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null;uniqueIndex:idx_transactions_natural_key,priority:2" json:"amount"`
	Currency        string          `gorm:"type:varchar(3);not null;default:'HUF'" json:"currency"`
	CategoryID      *uint           `gorm:"index" json:"category_id,omitempty"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`

	// Associations
	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()

	if t.Currency == "" {
		t.Currency = DefaultCurrency
	}

	t.TransactionDate = DateOnly(t.TransactionDate)
	if t.BookingDate != nil {
		booking := DateOnly(*t.BookingDate)
		t.BookingDate = &booking
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

// BeforeUpdate hook for Transaction
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.TransactionDate.IsZero() {
		return ErrTransactionDateRequired
	}
	if !IsValidDirection(t.Direction) {
		return ErrInvalidDirection
	}
	if len(t.Currency) != 3 {
		return ErrInvalidCurrency
	}
	return nil
}

// TransactionUpdate holds the editable fields of a stored transaction.
// Nil fields are left unchanged.
type TransactionUpdate struct {
	CategoryID      *uint
	PartnerName     *string
	Description     *string
	ExpenseCategory *string
}

// IsEmpty reports whether the update changes nothing
func (u TransactionUpdate) IsEmpty() bool {
	return u.CategoryID == nil && u.PartnerName == nil && u.Description == nil && u.ExpenseCategory == nil
}

// ApplyTo copies the set fields onto t
func (u TransactionUpdate) ApplyTo(t *Transaction) {
	if u.CategoryID != nil {
		id := *u.CategoryID
		t.CategoryID = &id
	}
	if u.PartnerName != nil {
		t.PartnerName = *u.PartnerName
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.ExpenseCategory != nil {
		t.ExpenseCategory = *u.ExpenseCategory
	}
}

// IsIncoming returns true for money received
func (t *Transaction) IsIncoming() bool {
	return t.Direction == DirectionIncoming
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// IsValidDirection checks if the direction is one of the two mapped values
func IsValidDirection(direction string) bool {
	switch direction {
	case DirectionIncoming, DirectionOutgoing:
		return true
	default:
		return false
	}
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
