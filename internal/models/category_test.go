package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCategory_Validate(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		wantErr  error
	}{
		{"income", Category{Name: "Munkabér", Type: CategoryTypeIncome}, nil},
		{"expense", Category{Name: "Bankköltség", Type: CategoryTypeExpense}, nil},
		{"blank name", Category{Name: "  ", Type: CategoryTypeExpense}, ErrCategoryNameEmpty},
		{"unknown type", Category{Name: "Megtakarítás", Type: "savings"}, ErrInvalidCategoryType},
		{"type is case sensitive", Category{Name: "Kamat", Type: "Income"}, ErrInvalidCategoryType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.category.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCategory_BeforeCreate(t *testing.T) {
	c := &Category{Name: "Kamat", Type: CategoryTypeIncome}

	require.NoError(t, c.BeforeCreate(&gorm.DB{}))
	assert.False(t, c.CreatedAt.IsZero())

	invalid := &Category{Name: "Kamat", Type: "other"}
	assert.ErrorIs(t, invalid.BeforeCreate(&gorm.DB{}), ErrInvalidCategoryType)
}

func TestCategory_Ref(t *testing.T) {
	c := Category{ID: 7, Name: "Szórakozás", Type: CategoryTypeExpense}

	assert.Equal(t, CategoryRef{ID: 7, Name: "Szórakozás", Type: CategoryTypeExpense}, c.Ref())
}

func TestValidateKeyword(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		wantErr error
	}{
		{"plain", "NETFLIX", nil},
		{"surrounding spaces are trimmed", "  spar  ", nil},
		{"exactly max runes", strings.Repeat("É", MaxKeywordLength), nil},
		{"empty", "", ErrKeywordEmpty},
		{"only whitespace", " \t ", ErrKeywordEmpty},
		{"too long", strings.Repeat("A", MaxKeywordLength+1), ErrKeywordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKeyword(tt.keyword)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCategoryKeyword_BeforeSave(t *testing.T) {
	assert.NoError(t, (&CategoryKeyword{Keyword: "TESCO"}).BeforeSave(&gorm.DB{}))
	assert.ErrorIs(t, (&CategoryKeyword{Keyword: ""}).BeforeSave(&gorm.DB{}), ErrKeywordEmpty)
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "categories", (&Category{}).TableName())
	assert.Equal(t, "category_keywords", (&CategoryKeyword{}).TableName())
	assert.Equal(t, "transactions", (&Transaction{}).TableName())
}
