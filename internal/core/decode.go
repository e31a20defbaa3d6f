package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	zipMagic = []byte("PK\x03\x04")
)

// DecodeTable decodes an uploaded spreadsheet into a Table.
//
// Workbooks (.xlsx, .xlsm, or any zip payload) are read from their first
// sheet. Everything else is treated as comma-separated text. The first row
// is the header.
func DecodeTable(fileName string, data []byte) (Table, error) {
	if len(data) == 0 {
		return Table{}, ErrEmptyFile
	}

	var (
		rows [][]string
		err  error
	)
	if isWorkbook(fileName, data) {
		rows, err = decodeWorkbook(data)
	} else {
		rows, err = decodeCSV(data)
	}
	if err != nil {
		return Table{}, err
	}
	if len(rows) == 0 {
		return Table{}, ErrEmptyFile
	}

	return Table{Header: rows[0], Rows: rows[1:]}, nil
}

func isWorkbook(fileName string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return bytes.HasPrefix(data, zipMagic)
}

// decodeWorkbook reads the first sheet with raw cell values, so dates
// arrive as serial numbers and numbers without display formatting.
func decodeWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrDecode, sheets[0], err)
	}
	return rows, nil
}

func decodeCSV(data []byte) ([][]string, error) {
	data = sanitizeUTF8(stripBOM(data))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return rows, nil
}

// stripBOM removes a leading UTF-8 byte order mark, common in files saved
// by Windows tools.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with U+FFFD.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
		} else {
			buf.Write(data[:size])
		}
		data = data[size:]
	}
	return buf.Bytes()
}
