package importer

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
	"unicode/utf16"
)

// Cell kinds understood by buildXLS besides string, int and float64
type (
	// xlsDate is a day serial stored as RK with a built-in date format;
	// adjacent dates in a row are written as one MULRK record
	xlsDate int32
	// xlsAmount is an integer stored as RK with a custom "#,##0 Ft" format
	xlsAmount int32
	// xlsFormula is a formula cell holding a cached float64, string or bool result
	xlsFormula struct{ result interface{} }
)

const (
	xfGeneral uint16 = iota
	xfDate
	xfCustom
)

const (
	recRow    = 0x0208
	recXF     = 0x00E0
	recFormat = 0x041E
	recSST    = 0x00FC

	cfbSector     = 512
	cfbEndOfChain = 0xFFFFFFFE
	cfbFreeSect   = 0xFFFFFFFF
	cfbFatSect    = 0xFFFFFFFD
	cfbNoStream   = 0xFFFFFFFF
)

type biffWriter struct {
	bytes.Buffer
}

func (w *biffWriter) record(id uint16, body []byte) {
	var head [4]byte
	binary.LittleEndian.PutUint16(head[0:], id)
	binary.LittleEndian.PutUint16(head[2:], uint16(len(body)))
	w.Write(head[:])
	w.Write(body)
}

func le16(v uint16) []byte { return binary.LittleEndian.AppendUint16(nil, v) }
func le32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }

func join(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// utf16Chars returns the option byte for uncompressed text followed by the characters
func utf16Chars(s string) (int, []byte) {
	units := utf16.Encode([]rune(s))
	out := []byte{0x01}
	for _, u := range units {
		out = binary.LittleEndian.AppendUint16(out, u)
	}
	return len(units), out
}

func xlUnicodeString(s string) []byte {
	n, chars := utf16Chars(s)
	return join(le16(uint16(n)), chars)
}

func bofBody(substream uint16) []byte {
	return join(le16(0x0600), le16(substream), le16(0x0DBB), le16(0x07CC), le32(0), le32(0x06))
}

func cellHead(row, col int, xf uint16) []byte {
	return join(le16(uint16(row)), le16(uint16(col)), le16(xf))
}

func rkInt(v int) []byte {
	return le32(uint32(int32(v)<<2) | 0x02)
}

func float64Bytes(f float64) []byte {
	return binary.LittleEndian.AppendUint64(nil, math.Float64bits(f))
}

// buildXLS writes rows into the first worksheet of a BIFF8 workbook wrapped in
// a compound file. Empty strings and nil values leave the cell blank; an empty
// row writes no records at all.
func buildXLS(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()

	var sst []string
	sstIndex := make(map[string]uint32)
	intern := func(s string) uint32 {
		if i, ok := sstIndex[s]; ok {
			return i
		}
		sstIndex[s] = uint32(len(sst))
		sst = append(sst, s)
		return sstIndex[s]
	}

	var sheet biffWriter
	sheet.record(recBOF, bofBody(0x0010))
	for r, row := range rows {
		if len(row) == 0 {
			continue
		}
		sheet.record(recRow, join(le16(uint16(r)), le16(0), le16(uint16(len(row))), le16(0x00FF), le16(0), le16(0), le32(0x0100)))

		for c := 0; c < len(row); c++ {
			switch v := row[c].(type) {
			case nil:
			case string:
				if v != "" {
					sheet.record(recLabelSST, join(cellHead(r, c, xfGeneral), le32(intern(v))))
				}
			case int:
				sheet.record(recRK, join(cellHead(r, c, xfGeneral), rkInt(v)))
			case float64:
				sheet.record(recNumber, join(cellHead(r, c, xfGeneral), float64Bytes(v)))
			case xlsAmount:
				sheet.record(recRK, join(cellHead(r, c, xfCustom), rkInt(int(v))))
			case xlsDate:
				last := c
				for last+1 < len(row) {
					if _, ok := row[last+1].(xlsDate); !ok {
						break
					}
					last++
				}
				if last == c {
					sheet.record(recRK, join(cellHead(r, c, xfDate), rkInt(int(v))))
					continue
				}
				body := join(le16(uint16(r)), le16(uint16(c)))
				for i := c; i <= last; i++ {
					body = join(body, le16(xfDate), rkInt(int(row[i].(xlsDate))))
				}
				sheet.record(recMulRK, join(body, le16(uint16(last))))
				c = last
			case xlsFormula:
				var result []byte
				switch res := v.result.(type) {
				case float64:
					result = float64Bytes(res)
				case string:
					result = []byte{0, 0, 0, 0, 0, 0, 0xFF, 0xFF}
				case bool:
					var b byte
					if res {
						b = 1
					}
					result = []byte{1, 0, b, 0, 0, 0, 0xFF, 0xFF}
				default:
					t.Fatalf("unsupported formula result %T", v.result)
				}
				// flags, cache id, then a three byte formula: ptgInt 0
				formula := join(le16(0), le32(0), le16(3), []byte{0x1E, 0x00, 0x00})
				sheet.record(recFormula, join(cellHead(r, c, xfGeneral), result, formula))
				if s, ok := v.result.(string); ok {
					sheet.record(recString, xlUnicodeString(s))
				}
			default:
				t.Fatalf("unsupported cell value %T", v)
			}
		}
	}
	sheet.record(recEOF, nil)

	var globals biffWriter
	globals.record(recBOF, bofBody(0x0005))
	globals.record(recFormat, join(le16(164), xlUnicodeString(`#,##0 "Ft"`)))
	for _, numFmt := range []uint16{0, 14, 164} {
		globals.record(recXF, join(le16(0), le16(numFmt), make([]byte, 16)))
	}
	sheetPosAt := globals.Len() + 4
	nameLen, name := utf16Chars("Tranzakciók")
	globals.record(recBoundSheet, join(le32(0), []byte{0, 0, byte(nameLen)}, name))

	sstBody := join(le32(uint32(len(sst))), le32(uint32(len(sst))))
	for _, s := range sst {
		sstBody = join(sstBody, xlUnicodeString(s))
	}
	globals.record(recSST, sstBody)
	globals.record(recEOF, nil)

	stream := append(globals.Bytes(), sheet.Bytes()...)
	binary.LittleEndian.PutUint32(stream[sheetPosAt:], uint32(globals.Len()))

	// Streams below 4096 bytes would live in the mini stream
	size := 8 * cfbSector
	for size < len(stream) {
		size += cfbSector
	}
	stream = append(stream, make([]byte, size-len(stream))...)

	return compoundFile(t, stream)
}

// compoundFile lays out a version 3 compound file: header, one FAT sector,
// one directory sector, then the Workbook stream in consecutive sectors
func compoundFile(t *testing.T, stream []byte) []byte {
	t.Helper()

	n := len(stream) / cfbSector
	if n > cfbSector/4-2 {
		t.Fatalf("workbook stream of %d sectors does not fit one FAT sector", n)
	}

	out := make([]byte, cfbSector*3+len(stream))

	header := out[:cfbSector]
	copy(header, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	binary.LittleEndian.PutUint16(header[24:], 0x003E)
	binary.LittleEndian.PutUint16(header[26:], 0x0003)
	binary.LittleEndian.PutUint16(header[28:], 0xFFFE)
	binary.LittleEndian.PutUint16(header[30:], 9)
	binary.LittleEndian.PutUint16(header[32:], 6)
	binary.LittleEndian.PutUint32(header[44:], 1)
	binary.LittleEndian.PutUint32(header[48:], 1)
	binary.LittleEndian.PutUint32(header[56:], 4096)
	binary.LittleEndian.PutUint32(header[60:], cfbEndOfChain)
	binary.LittleEndian.PutUint32(header[68:], cfbEndOfChain)
	binary.LittleEndian.PutUint32(header[76:], 0)
	for off := 80; off < cfbSector; off += 4 {
		binary.LittleEndian.PutUint32(header[off:], cfbFreeSect)
	}

	fat := out[cfbSector : 2*cfbSector]
	for i := 0; i < cfbSector/4; i++ {
		binary.LittleEndian.PutUint32(fat[i*4:], cfbFreeSect)
	}
	binary.LittleEndian.PutUint32(fat[0:], cfbFatSect)
	binary.LittleEndian.PutUint32(fat[4:], cfbEndOfChain)
	for i := 0; i < n; i++ {
		next := uint32(i + 3)
		if i == n-1 {
			next = cfbEndOfChain
		}
		binary.LittleEndian.PutUint32(fat[(i+2)*4:], next)
	}

	dir := out[2*cfbSector : 3*cfbSector]
	dirEntry(dir[0:128], "Root Entry", 5, 1, cfbEndOfChain, 0)
	dirEntry(dir[128:256], "Workbook", 2, cfbNoStream, 2, uint32(len(stream)))
	for _, off := range []int{256, 384} {
		binary.LittleEndian.PutUint32(dir[off+68:], cfbNoStream)
		binary.LittleEndian.PutUint32(dir[off+72:], cfbNoStream)
		binary.LittleEndian.PutUint32(dir[off+76:], cfbNoStream)
	}

	copy(out[3*cfbSector:], stream)
	return out
}

func dirEntry(b []byte, name string, objectType byte, child, start, size uint32) {
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		binary.LittleEndian.PutUint16(b[i*2:], u)
	}
	binary.LittleEndian.PutUint16(b[64:], uint16((len(units)+1)*2))
	b[66] = objectType
	b[67] = 1
	binary.LittleEndian.PutUint32(b[68:], cfbNoStream)
	binary.LittleEndian.PutUint32(b[72:], cfbNoStream)
	binary.LittleEndian.PutUint32(b[76:], child)
	binary.LittleEndian.PutUint32(b[116:], start)
	binary.LittleEndian.PutUint32(b[120:], size)
}
