package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRecords_Clean(t *testing.T) {
	records := []rawRecord{
		{transactionDate: "2024-01-01", amount: "-100", direction: "Kimenő", currency: "HUF"},
		{transactionDate: "2024-01-02", amount: "2500,50", direction: "Bejövő", currency: "EUR"},
	}

	assert.Empty(t, validateRecords(records))
}

func TestValidateRecords_Warnings(t *testing.T) {
	records := []rawRecord{
		{transactionDate: "2024-01-01", amount: "abc", direction: "Kimenő", currency: "HUF"},
		{transactionDate: "", amount: "-100", direction: "Vegyes", currency: "FORINT"},
		{transactionDate: "2024-01-03", amount: "", direction: "Vegyes", currency: "FORINT"},
		{transactionDate: "2024-01-04", amount: "12 Ft", direction: "", currency: ""},
	}

	warnings := validateRecords(records)
	require.Len(t, warnings, 7)

	assert.Contains(t, warnings[0], "2 non-numeric")
	assert.Contains(t, warnings[0], "abc")
	assert.Contains(t, warnings[0], "12 Ft")
	assert.Equal(t, "Invalid currency codes: FORINT", warnings[1])
	assert.Contains(t, warnings[2], "Vegyes")
	assert.Equal(t, "Tranzakció dátuma column has 1 empty values", warnings[3])
	assert.Equal(t, "Összeg column has 1 empty values", warnings[4])
	assert.Equal(t, "Bejövő/Kimenő column has 1 empty values", warnings[5])
	assert.Equal(t, "Pénznem column has 1 empty values", warnings[6])
}

func TestValidateRecords_LimitsAmountSamples(t *testing.T) {
	var records []rawRecord
	for i := 0; i < 8; i++ {
		records = append(records, rawRecord{transactionDate: "2024-01-01", amount: "x", direction: "Kimenő", currency: "HUF"})
	}

	warnings := validateRecords(records)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "8 non-numeric values: x, x, x, x, x")
	assert.NotContains(t, warnings[0], "x, x, x, x, x, x")
}

func TestValidateRecords_ReportsAmbiguousSeparators(t *testing.T) {
	records := []rawRecord{
		{transactionDate: "2024-01-01", amount: "-12.500", direction: "Kimenő", currency: "HUF"},
		{transactionDate: "2024-01-02", amount: "-12.500,00", direction: "Kimenő", currency: "HUF"},
	}

	warnings := validateRecords(records)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "1 non-numeric")
	assert.Contains(t, warnings[0], "-12.500")
}
