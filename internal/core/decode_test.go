package core

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestDecodeTable_CSV(t *testing.T) {
	data := []byte("\xEF\xBB\xBFcustomer_code,name\nC1,\"Acme, Inc\"\nC2\n")

	table, err := DecodeTable("clients.csv", data)
	if err != nil {
		t.Fatalf("DecodeTable: %v", err)
	}
	if got := table.Header[0]; got != "customer_code" {
		t.Errorf("header[0] = %q, BOM not stripped", got)
	}
	if table.ColumnCount() != 2 {
		t.Errorf("ColumnCount = %d, want 2", table.ColumnCount())
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Rows[0][1] != "Acme, Inc" {
		t.Errorf("quoted cell = %q", table.Rows[0][1])
	}
	if len(table.Rows[1]) != 1 {
		t.Errorf("short row = %v, want variable width kept", table.Rows[1])
	}
}

func TestDecodeTable_InvalidUTF8(t *testing.T) {
	table, err := DecodeTable("x.csv", []byte("name\nbad\xffbyte\n"))
	if err != nil {
		t.Fatalf("DecodeTable: %v", err)
	}
	if got := table.Rows[0][0]; got != "bad\uFFFDbyte" {
		t.Errorf("cell = %q, want replacement character", got)
	}
}

func TestDecodeTable_Empty(t *testing.T) {
	for _, data := range [][]byte{nil, {}, []byte("\n\n")} {
		if _, err := DecodeTable("empty.csv", data); !errors.Is(err, ErrEmptyFile) {
			t.Errorf("DecodeTable(%q) = %v, want ErrEmptyFile", data, err)
		}
	}
}

func TestDecodeTable_HeaderOnly(t *testing.T) {
	table, err := DecodeTable("bookings.csv", []byte("no,pl_mod\n"))
	if err != nil {
		t.Fatalf("DecodeTable: %v", err)
	}
	if len(table.Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(table.Rows))
	}
}

func TestDecodeTable_CorruptWorkbook(t *testing.T) {
	_, err := DecodeTable("clients.xlsx", []byte("this is not a zip archive"))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("DecodeTable = %v, want ErrDecode", err)
	}
}

func TestDecodeTable_Workbook(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"no", "unit_m3", "etd"},
		{1, 12.5, "2024/13/45"},
	})

	// Workbooks are detected by content even without an extension.
	table, err := DecodeTable("upload", data)
	if err != nil {
		t.Fatalf("DecodeTable: %v", err)
	}
	if len(table.Header) != 3 || table.Header[2] != "etd" {
		t.Errorf("header = %v", table.Header)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(table.Rows))
	}
	row := table.Rows[0]
	if row[0] != "1" || row[1] != "12.5" || row[2] != "2024/13/45" {
		t.Errorf("row = %q", row)
	}
}

// buildWorkbook writes rows to the first sheet of a new workbook.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
