package importer

import "strings"

// Column labels of the bank's transaction export. They are matched exactly
// after trimming surrounding whitespace.
const (
	ColTransactionDate = "Tranzakció dátuma"
	ColBookingDate     = "Könyvelés dátuma"
	ColType            = "Típus"
	ColDirection       = "Bejövő/Kimenő"
	ColPartnerName     = "Partner neve"
	ColPartnerAccount  = "Partner számlaszáma/azonosítója"
	ColExpenseCategory = "Költési kategória"
	ColDescription     = "Közlemény"
	ColAccountName     = "Számla név"
	ColAccountNumber   = "Számla szám"
	ColAmount          = "Összeg"
	ColCurrency        = "Pénznem"
)

// Direction labels used in the Bejövő/Kimenő column
const (
	DirectionLabelIncoming = "Bejövő"
	DirectionLabelOutgoing = "Kimenő"
)

// RequiredColumns lists every column an import file must carry, in report order
var RequiredColumns = []string{
	ColTransactionDate,
	ColBookingDate,
	ColType,
	ColDirection,
	ColPartnerName,
	ColPartnerAccount,
	ColExpenseCategory,
	ColDescription,
	ColAccountName,
	ColAccountNumber,
	ColAmount,
	ColCurrency,
}

// criticalColumns are checked for blank cells by the soft validator
var criticalColumns = []string{
	ColTransactionDate,
	ColAmount,
	ColDirection,
	ColCurrency,
}

// columnMap resolves a trimmed column label to its position in the header
type columnMap map[string]int

func newColumnMap(header []string) columnMap {
	m := make(columnMap, len(header))
	for i, label := range header {
		label = strings.TrimSpace(label)
		if _, exists := m[label]; !exists {
			m[label] = i
		}
	}
	return m
}

// rawRecord is a row with its cells bound to named fields but not yet coerced
type rawRecord struct {
	line            int
	transactionDate string
	bookingDate     string
	transactionType string
	direction       string
	partnerName     string
	partnerAccount  string
	expenseCategory string
	description     string
	accountName     string
	accountNumber   string
	amount          string
	currency        string
}

func (m columnMap) cell(row RawRow, label string) string {
	idx, ok := m[label]
	if !ok || idx >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[idx])
}

func (m columnMap) record(row RawRow) rawRecord {
	return rawRecord{
		line:            row.Line,
		transactionDate: m.cell(row, ColTransactionDate),
		bookingDate:     m.cell(row, ColBookingDate),
		transactionType: m.cell(row, ColType),
		direction:       m.cell(row, ColDirection),
		partnerName:     m.cell(row, ColPartnerName),
		partnerAccount:  m.cell(row, ColPartnerAccount),
		expenseCategory: m.cell(row, ColExpenseCategory),
		description:     m.cell(row, ColDescription),
		accountName:     m.cell(row, ColAccountName),
		accountNumber:   m.cell(row, ColAccountNumber),
		amount:          m.cell(row, ColAmount),
		currency:        m.cell(row, ColCurrency),
	}
}

// field returns the raw value of a critical column by label
func (r rawRecord) field(label string) string {
	switch label {
	case ColTransactionDate:
		return r.transactionDate
	case ColAmount:
		return r.amount
	case ColDirection:
		return r.direction
	case ColCurrency:
		return r.currency
	default:
		return ""
	}
}
