package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"finance-app/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	ErrMissingDate = errors.New("transaction date is empty")
	ErrInvalidDate = errors.New("transaction date could not be parsed")
)

// Accepted textual date layouts, tried in order
var dateLayouts = []string{
	"2006-01-02",
	"2006.01.02.",
	"2006.01.02",
	"2006. 01. 02.",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006.01.02. 15:04:05",
	"2006.01.02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Excel serials outside this window are treated as plain numbers, not dates
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465 // 9999-12-31
)

// normalizeRecord coerces a raw record into the canonical transaction shape.
// Only an unusable transaction date fails the row; everything else degrades
// to a default and is reported through the returned warnings.
func normalizeRecord(rec rawRecord, defaultCurrency string) (*models.NormalizedTransaction, []string, error) {
	txDate, err := parseDate(rec.transactionDate)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	row := &models.NormalizedTransaction{
		RowNumber:            rec.line,
		TransactionDate:      models.NewDate(txDate),
		TransactionType:      rec.transactionType,
		Direction:            mapDirection(rec.direction),
		PartnerName:          rec.partnerName,
		PartnerAccount:       rec.partnerAccount,
		ExpenseCategoryLabel: rec.expenseCategory,
		Description:          rec.description,
		AccountName:          rec.accountName,
		AccountNumber:        rec.accountNumber,
		Currency:             strings.ToUpper(rec.currency),
	}

	if rec.bookingDate != "" {
		booking, err := parseDate(rec.bookingDate)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Row %d: booking date %q could not be parsed", rec.line, rec.bookingDate))
		} else {
			d := models.NewDate(booking)
			row.BookingDate = &d
		}
	}

	if amount, ok := parseAmount(rec.amount); ok {
		row.Amount = amount
	} else {
		row.Amount = decimal.Zero
	}

	if row.Currency == "" {
		row.Currency = defaultCurrency
	}

	return row, warnings, nil
}

// parseDate accepts ISO and Hungarian layouts as well as Excel date serials
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrMissingDate
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial < minExcelSerial || serial > maxExcelSerial {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		return models.DateOnly(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return models.DateOnly(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// parseAmount reads a signed amount in plain ("-1490.5"), Hungarian
// ("-1 490,50", "1.234,56") or English ("1,234.56") notation. With both
// separators present the last one is the decimal mark and the other must
// group thousands. A lone separator followed by exactly three digits after a
// short non-zero integer part ("1,234", "12.500") reads either way and is
// rejected so the soft validator reports it.
func parseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero, false
	}

	if strings.ContainsAny(s, "eE") && !strings.Contains(s, ",") {
		d, err := decimal.NewFromString(s)
		return d, err == nil
	}

	sign := ""
	switch s[0] {
	case '-':
		sign, s = "-", s[1:]
	case '+':
		s = s[1:]
	}

	intPart, frac, ok := splitAmount(s)
	if !ok || !isDigits(intPart) || !isDigits(frac) || intPart+frac == "" {
		return decimal.Zero, false
	}
	if intPart == "" {
		intPart = "0"
	}
	if frac != "" {
		intPart += "." + frac
	}

	d, err := decimal.NewFromString(sign + intPart)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// splitAmount separates an unsigned amount into its integer and fraction
// digits, removing thousands separators
func splitAmount(s string) (intPart, frac string, ok bool) {
	dot, comma := strings.LastIndexByte(s, '.'), strings.LastIndexByte(s, ',')

	switch {
	case dot < 0 && comma < 0:
		return s, "", true

	case dot >= 0 && comma >= 0:
		dec, group := dot, byte(',')
		if comma > dot {
			dec, group = comma, '.'
		}
		if strings.IndexByte(s, s[dec]) != dec || !thousandsGrouped(s[:dec], group) {
			return "", "", false
		}
		return strings.ReplaceAll(s[:dec], string(group), ""), s[dec+1:], true
	}

	sep := byte('.')
	if comma >= 0 {
		sep = ','
	}
	if strings.Count(s, string(sep)) > 1 {
		if !thousandsGrouped(s, sep) {
			return "", "", false
		}
		return strings.ReplaceAll(s, string(sep), ""), "", true
	}

	i := strings.IndexByte(s, sep)
	intPart, frac = s[:i], s[i+1:]
	if len(frac) == 3 && len(intPart) <= 3 && strings.TrimLeft(intPart, "0") != "" {
		return "", "", false
	}
	return intPart, frac, true
}

// thousandsGrouped reports whether s is a 1-3 digit lead followed by
// three digit groups joined by sep
func thousandsGrouped(s string, sep byte) bool {
	groups := strings.Split(s, string(sep))
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// mapDirection translates the bank's direction label. Unknown labels are
// returned unchanged so the soft validator can report them.
func mapDirection(raw string) string {
	switch {
	case raw == DirectionLabelIncoming, strings.EqualFold(raw, models.DirectionIncoming):
		return models.DirectionIncoming
	case raw == DirectionLabelOutgoing, strings.EqualFold(raw, models.DirectionOutgoing):
		return models.DirectionOutgoing
	default:
		return raw
	}
}
