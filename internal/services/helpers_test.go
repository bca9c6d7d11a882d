package services

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"finance-app/internal/importer"
	"finance-app/internal/models"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// statementLine returns a complete data row for the given partner, amount and date
func statementLine(partner, amount, date string) []interface{} {
	return []interface{}{
		date, date, "Kártyatranzakció", importer.DirectionLabelOutgoing, partner,
		"HU42117730161111101800000000", "Egyéb", "Vásárlás", "Főszámla",
		"11773016-11111018", amount, "HUF",
	}
}

func statementHeader() []interface{} {
	header := make([]interface{}, len(importer.RequiredColumns))
	for i, c := range importer.RequiredColumns {
		header[i] = c
	}
	return header
}

// spreadsheet renders rows into an in-memory xlsx file
func spreadsheet(t *testing.T, rows ...[]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func testCategory(id uint, name, categoryType string, keywords ...string) models.Category {
	c := models.Category{ID: id, Name: name, Type: categoryType}
	for i, kw := range keywords {
		c.Keywords = append(c.Keywords, models.CategoryKeyword{ID: id*10 + uint(i), CategoryID: id, Keyword: kw})
	}
	return c
}

func uintPtr(v uint) *uint {
	return &v
}
