package importer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf16"

	"github.com/extrame/xls"
	"github.com/richardlehane/mscfb"
)

// BIFF8 record identifiers
const (
	recFormula    = 0x0006
	recEOF        = 0x000A
	recBoundSheet = 0x0085
	recMulRK      = 0x00BD
	recLabelSST   = 0x00FD
	recNumber     = 0x0203
	recLabel      = 0x0204
	recBoolErr    = 0x0205
	recString     = 0x0207
	recRK         = 0x027E
	recBOF        = 0x0809
)

var errNoWorkbookStream = errors.New("no workbook stream in compound file")

// xlsCell is one populated cell of the first worksheet. Text cells only
// carry their position; their content lives in the shared string table.
type xlsCell struct {
	row, col int
	value    string
	text     bool
}

// readXLS returns the first worksheet of a BIFF8 workbook as unformatted
// values, matching what readXLSX yields for the same sheet: numbers in plain
// notation and dates as Excel serials. Strings come from extrame/xls, which
// decodes the shared string table; numeric and formula cells are taken from
// the record stream because its cell accessor returns display text.
func readXLS(data []byte) (rows [][]string, err error) {
	// The BIFF decoder panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("malformed xls stream: %v", r)
		}
	}()

	stream, err := workbookStream(data)
	if err != nil {
		return nil, err
	}
	cells, err := scanFirstSheet(stream)
	if err != nil {
		return nil, err
	}

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, errNoWorkbookStream
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}

	for _, c := range cells {
		for len(rows) <= c.row {
			rows = append(rows, nil)
		}
		if n := len(rows[c.row]); n <= c.col {
			rows[c.row] = append(rows[c.row], make([]string, c.col+1-n)...)
		}
		if c.text {
			rows[c.row][c.col] = sheet.Row(c.row).Col(c.col)
		} else {
			rows[c.row][c.col] = c.value
		}
	}
	return rows, nil
}

func workbookStream(data []byte) ([]byte, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != "Workbook" && entry.Name != "Book" {
			continue
		}
		buf := make([]byte, entry.Size)
		if _, err := io.ReadFull(entry, buf); err != nil {
			return nil, fmt.Errorf("read workbook stream: %w", err)
		}
		return buf, nil
	}
	return nil, errNoWorkbookStream
}

// biffRecord returns the record starting at off and the offset of the next one
func biffRecord(stream []byte, off int) (id uint16, body []byte, next int, ok bool) {
	if off+4 > len(stream) {
		return 0, nil, 0, false
	}
	id = binary.LittleEndian.Uint16(stream[off:])
	size := int(binary.LittleEndian.Uint16(stream[off+2:]))
	next = off + 4 + size
	if next > len(stream) {
		return 0, nil, 0, false
	}
	return id, stream[off+4 : next], next, true
}

// firstSheetOffset reads the globals substream up to its EOF and returns the
// stream position of the first BOUNDSHEET's BOF
func firstSheetOffset(stream []byte) (int, error) {
	for off := 0; ; {
		id, body, next, ok := biffRecord(stream, off)
		if !ok || id == recEOF {
			return 0, errors.New("workbook has no sheets")
		}
		if id == recBoundSheet && len(body) >= 4 {
			return int(binary.LittleEndian.Uint32(body)), nil
		}
		off = next
	}
}

func scanFirstSheet(stream []byte) ([]xlsCell, error) {
	start, err := firstSheetOffset(stream)
	if err != nil {
		return nil, err
	}

	id, _, off, ok := biffRecord(stream, start)
	if !ok || id != recBOF {
		return nil, fmt.Errorf("sheet offset %d does not point at a BOF record", start)
	}

	var cells []xlsCell
	// index into cells of a formula whose string result follows in a STRING record
	pendingString := -1
	// embedded substreams (charts) carry their own BOF/EOF pairs
	depth := 1

	for depth > 0 {
		id, body, next, ok := biffRecord(stream, off)
		if !ok {
			return nil, errors.New("worksheet substream is truncated")
		}
		off = next

		switch id {
		case recBOF:
			depth++
			continue
		case recEOF:
			depth--
			continue
		}
		if depth > 1 {
			continue
		}

		switch id {
		case recNumber:
			if len(body) < 14 {
				continue
			}
			f := math.Float64frombits(binary.LittleEndian.Uint64(body[6:14]))
			cells = append(cells, valueCell(body, formatNumber(f)))
		case recRK:
			if len(body) < 10 {
				continue
			}
			cells = append(cells, valueCell(body, formatNumber(decodeRK(binary.LittleEndian.Uint32(body[6:10])))))
		case recMulRK:
			if len(body) < 6 {
				continue
			}
			row := int(binary.LittleEndian.Uint16(body[0:2]))
			first := int(binary.LittleEndian.Uint16(body[2:4]))
			for i, p := 0, 4; p+6 <= len(body)-2; i, p = i+1, p+6 {
				rk := binary.LittleEndian.Uint32(body[p+2 : p+6])
				cells = append(cells, xlsCell{row: row, col: first + i, value: formatNumber(decodeRK(rk))})
			}
		case recFormula:
			if len(body) < 14 {
				continue
			}
			cell, stringFollows := formulaCell(body)
			cells = append(cells, cell)
			pendingString = -1
			if stringFollows {
				pendingString = len(cells) - 1
			}
		case recString:
			if pendingString >= 0 {
				cells[pendingString].value = decodeXLUnicodeString(body)
				pendingString = -1
			}
		case recBoolErr:
			if len(body) < 8 {
				continue
			}
			v := ""
			if body[7] == 0 {
				v = "FALSE"
				if body[6] != 0 {
					v = "TRUE"
				}
			}
			cells = append(cells, valueCell(body, v))
		case recLabelSST, recLabel:
			if len(body) < 4 {
				continue
			}
			cells = append(cells, xlsCell{
				row:  int(binary.LittleEndian.Uint16(body[0:2])),
				col:  int(binary.LittleEndian.Uint16(body[2:4])),
				text: true,
			})
		}
	}

	return cells, nil
}

func valueCell(body []byte, value string) xlsCell {
	return xlsCell{
		row:   int(binary.LittleEndian.Uint16(body[0:2])),
		col:   int(binary.LittleEndian.Uint16(body[2:4])),
		value: value,
	}
}

// formulaCell reads a FORMULA record's cached result. A result tagged 0xFFFF
// in its top bytes is not a number: type 0 means a STRING record follows,
// 1 is a boolean, 2 an error and 3 an empty string.
func formulaCell(body []byte) (xlsCell, bool) {
	result := body[6:14]
	if result[6] != 0xFF || result[7] != 0xFF {
		f := math.Float64frombits(binary.LittleEndian.Uint64(result))
		return valueCell(body, formatNumber(f)), false
	}

	switch result[0] {
	case 0:
		return valueCell(body, ""), true
	case 1:
		if result[2] != 0 {
			return valueCell(body, "TRUE"), false
		}
		return valueCell(body, "FALSE"), false
	default:
		return valueCell(body, ""), false
	}
}

// decodeRK unpacks the compressed RK number representation
func decodeRK(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// decodeXLUnicodeString reads a character count, an option byte and the
// characters, stored as UTF-16 when the low option bit is set and as Latin-1
// otherwise
func decodeXLUnicodeString(body []byte) string {
	if len(body) < 3 {
		return ""
	}
	n := int(binary.LittleEndian.Uint16(body[0:2]))
	chars := body[3:]

	if body[2]&0x01 == 0 {
		if n > len(chars) {
			n = len(chars)
		}
		runes := make([]rune, n)
		for i := 0; i < n; i++ {
			runes[i] = rune(chars[i])
		}
		return string(runes)
	}

	if n*2 > len(chars) {
		n = len(chars) / 2
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(chars[i*2:])
	}
	return string(utf16.Decode(units))
}
