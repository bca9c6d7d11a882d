package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

// Category types
const (
	CategoryTypeIncome  = "income"
	CategoryTypeExpense = "expense"
)

// MaxKeywordLength is the longest keyword a category may register
const MaxKeywordLength = 100

var (
	ErrInvalidCategoryType = errors.New("category type must be 'income' or 'expense'")
	ErrCategoryNameEmpty   = errors.New("category name is required")
	ErrKeywordEmpty        = errors.New("keyword cannot be empty")
	ErrKeywordTooLong      = errors.New("keyword must be at most 100 characters")
)

// Category is a user-facing income or expense bucket that transactions are assigned to
type Category struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Type      string            `gorm:"type:varchar(10);not null" json:"type"`
	CreatedAt time.Time         `gorm:"not null" json:"created_at"`
	Keywords  []CategoryKeyword `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"keywords,omitempty"`
}

// CategoryKeyword is an uppercase partner-name fragment that implies a category
type CategoryKeyword struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CategoryID uint   `gorm:"not null;index" json:"category_id"`
	Keyword    string `gorm:"type:varchar(100);not null;index" json:"keyword"`
}

// CategoryRef is the lightweight category reference attached to import rows
type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// BeforeCreate hook for Category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	return c.Validate()
}

// Validate validates the category fields
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrCategoryNameEmpty
	}
	if !IsValidCategoryType(c.Type) {
		return ErrInvalidCategoryType
	}
	return nil
}

// Ref returns the reference form of the category
func (c *Category) Ref() CategoryRef {
	return CategoryRef{ID: c.ID, Name: c.Name, Type: c.Type}
}

// TableName returns the table name for Category
func (c *Category) TableName() string {
	return "categories"
}

// BeforeSave hook for CategoryKeyword
func (k *CategoryKeyword) BeforeSave(tx *gorm.DB) error {
	return ValidateKeyword(k.Keyword)
}

// TableName returns the table name for CategoryKeyword
func (k *CategoryKeyword) TableName() string {
	return "category_keywords"
}

// IsValidCategoryType checks if the category type is valid
func IsValidCategoryType(categoryType string) bool {
	switch categoryType {
	case CategoryTypeIncome, CategoryTypeExpense:
		return true
	default:
		return false
	}
}

// ValidateKeyword checks the length rules of a keyword after trimming
func ValidateKeyword(keyword string) error {
	trimmed := strings.TrimSpace(keyword)
	if trimmed == "" {
		return ErrKeywordEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxKeywordLength {
		return ErrKeywordTooLong
	}
	return nil
}
