package importer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"finance-app/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// txRow describes one sheet line by column label
type txRow map[string]string

func tableFrom(header []string, rows ...txRow) *Table {
	table := &Table{Header: header}
	for i, r := range rows {
		cells := make([]string, len(header))
		for j, h := range header {
			cells[j] = r[h]
		}
		table.Rows = append(table.Rows, RawRow{Line: i + 1, Cells: cells})
	}
	return table
}

func validRow(partner, amount, date string) txRow {
	return txRow{
		ColTransactionDate: date,
		ColBookingDate:     date,
		ColType:            "Kártyatranzakció",
		ColDirection:       DirectionLabelOutgoing,
		ColPartnerName:     partner,
		ColPartnerAccount:  "HU42117730161111101800000000",
		ColExpenseCategory: "Egyéb",
		ColDescription:     "Vásárlás",
		ColAccountName:     "Főszámla",
		ColAccountNumber:   "11773016-11111018",
		ColAmount:          amount,
		ColCurrency:        "HUF",
	}
}

func buildWorkbook(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func headerRow() []interface{} {
	out := make([]interface{}, len(RequiredColumns))
	for i, c := range RequiredColumns {
		out[i] = c
	}
	return out
}

// memoryFinder is an in-memory DuplicateFinder keyed by the natural key
type memoryFinder struct {
	existing map[string]uint
	calls    int
	err      error
}

func newMemoryFinder() *memoryFinder {
	return &memoryFinder{existing: make(map[string]uint)}
}

func naturalKey(date time.Time, amount decimal.Decimal, partner string) string {
	return fmt.Sprintf("%s|%s|%s", models.DateOnly(date).Format(models.DateLayout), amount.String(), partner)
}

func (m *memoryFinder) add(id uint, date string, amount string, partner string) {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		panic(err)
	}
	m.existing[naturalKey(d, decimal.RequireFromString(amount), partner)] = id
}

func (m *memoryFinder) FindByKey(_ context.Context, date time.Time, amount decimal.Decimal, partner string) (uint, bool, error) {
	m.calls++
	if m.err != nil {
		return 0, false, m.err
	}
	id, ok := m.existing[naturalKey(date, amount, partner)]
	return id, ok, nil
}

func category(id uint, name, typ string, keywords ...string) models.Category {
	c := models.Category{ID: id, Name: name, Type: typ}
	for i, kw := range keywords {
		c.Keywords = append(c.Keywords, models.CategoryKeyword{ID: id*100 + uint(i), CategoryID: id, Keyword: kw})
	}
	return c
}
