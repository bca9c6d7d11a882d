package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSchema_AllColumnsPresent(t *testing.T) {
	report := ValidateSchema(RequiredColumns)

	assert.True(t, report.Valid())
	assert.Empty(t, report.Errors())
	assert.Empty(t, report.Warnings())
}

func TestValidateSchema_TrimsLabels(t *testing.T) {
	header := make([]string, len(RequiredColumns))
	for i, c := range RequiredColumns {
		header[len(header)-1-i] = "  " + c + "\t"
	}

	report := ValidateSchema(header)

	assert.True(t, report.Valid(), "order and surrounding whitespace do not matter")
}

func TestValidateSchema_MissingColumns(t *testing.T) {
	report := ValidateSchema([]string{"Tranzakció dátuma", "Összeg", "Bejövő/Kimenő", "Pénznem"})

	assert.False(t, report.Valid())
	assert.Equal(t, []string{
		ColBookingDate,
		ColType,
		ColPartnerName,
		ColPartnerAccount,
		ColExpenseCategory,
		ColDescription,
		ColAccountName,
		ColAccountNumber,
	}, report.Missing)

	errs := report.Errors()
	assert.Len(t, errs, 1, "missing columns are aggregated into one error")
	for _, col := range report.Missing {
		assert.Contains(t, errs[0], col)
	}
	assert.NotContains(t, errs[0], ColAmount)
}

func TestValidateSchema_UnknownColumnsAreWarnings(t *testing.T) {
	header := append(append([]string{}, RequiredColumns...), "Egyenleg", " Megjegyzés ", "Egyenleg", "")

	report := ValidateSchema(header)

	assert.True(t, report.Valid())
	assert.Equal(t, []string{"Egyenleg", "Megjegyzés"}, report.Unknown)
	assert.Len(t, report.Warnings(), 1)
	assert.Contains(t, report.Warnings()[0], "Egyenleg")
}
