package validation

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keywordPayload struct {
	CategoryID uint   `json:"category_id" validate:"required"`
	Keyword    string `json:"keyword" validate:"required,keyword"`
}

type categoryPayload struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required,category_type"`
}

type rowPayload struct {
	Direction string `json:"direction" validate:"required,direction"`
	Currency  string `json:"currency" validate:"currency_code"`
}

func TestValidator_CustomTags(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		payload interface{}
		field   string
		valid   bool
	}{
		{"keyword ok", keywordPayload{CategoryID: 1, Keyword: " netflix "}, "", true},
		{"keyword blank", keywordPayload{CategoryID: 1, Keyword: "   "}, "keyword", false},
		{"keyword too long", keywordPayload{CategoryID: 1, Keyword: strings.Repeat("á", 101)}, "keyword", false},
		{"keyword at limit", keywordPayload{CategoryID: 1, Keyword: strings.Repeat("á", 100)}, "", true},
		{"income category", categoryPayload{Name: "Kamat", Type: "income"}, "", true},
		{"unknown category type", categoryPayload{Name: "Kamat", Type: "savings"}, "type", false},
		{"outgoing row", rowPayload{Direction: "outgoing", Currency: "HUF"}, "", true},
		{"optional currency", rowPayload{Direction: "incoming"}, "", true},
		{"raw direction label", rowPayload{Direction: "Kimenő", Currency: "HUF"}, "direction", false},
		{"long currency", rowPayload{Direction: "incoming", Currency: "HUFF"}, "currency", false},
		{"numeric currency", rowPayload{Direction: "incoming", Currency: "348"}, "currency", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.payload)
			if tt.valid {
				assert.NoError(t, err)
				return
			}

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field(), "json tag names are reported")
		})
	}
}

func TestGetValidator_ReturnsSingleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
	assert.NotNil(t, GetValidator().GetValidate())
}
