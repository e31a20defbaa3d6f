package core

import (
	"context"
	"strconv"
	"testing"
)

// ============================================================================
// Cell Normalizer Benchmarks
// ============================================================================

// BenchmarkNormalizeDecimal covers the currency and separator cleanup path,
// which runs for 30 columns of every booking row.
func BenchmarkNormalizeDecimal(b *testing.B) {
	testCases := []string{
		"123",
		"-456.78",
		"$1,234.56",
		"(123.45)",     // Accounting negative
		"1,234,567.89", // Thousands separators
		"  999.99  ",   // Whitespace
		"€1234.56",     // Euro
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			NormalizeDecimal(tc)
		}
	}
}

// BenchmarkNormalizeDate walks the layout list; late matches are the
// expensive case.
func BenchmarkNormalizeDate(b *testing.B) {
	testCases := []string{
		"2024-01-15",       // ISO format
		"01/15/2024",       // US format
		"Jan 15, 2024",     // Text month
		"20240115",         // Compact
		"1/5/24",           // 2-digit year
		"2024-01-15 08:30", // Datetime
		"45306",            // Excel serial
		"not a date",       // Falls through every layout
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			NormalizeDate(tc)
		}
	}
}

func BenchmarkNormalizeInteger(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NormalizeInteger("1,234")
		NormalizeInteger("40.0")
	}
}

// ============================================================================
// Row Assembler Benchmarks
// ============================================================================

func benchmarkBookingTable(rows int) Table {
	t := Table{Header: BookingFields, Rows: make([][]string, rows)}
	for i := range t.Rows {
		row := make([]string, len(BookingFields))
		for j, f := range BookingSchema {
			switch f.Kind {
			case FieldInteger:
				row[j] = strconv.Itoa(i)
			case FieldDecimal:
				row[j] = "$1,234.50"
			case FieldDate:
				row[j] = "03/15/2024"
			default:
				row[j] = "text"
			}
		}
		t.Rows[i] = row
	}
	return t
}

func BenchmarkAssembleBookings(b *testing.B) {
	for _, workers := range []int{1, 4} {
		b.Run("workers="+strconv.Itoa(workers), func(b *testing.B) {
			table := benchmarkBookingTable(5000)
			ctx := context.Background()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := AssembleBookings(ctx, table, workers); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkAssembleClients(b *testing.B) {
	table := Table{Header: []string{"No.", "Name", "Customer Code", "Email"}}
	for i := 0; i < 5000; i++ {
		table.Rows = append(table.Rows, []string{strconv.Itoa(i), "Name", "C" + strconv.Itoa(i%4000), "a@x.test"})
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		AssembleClients(table)
	}
}
