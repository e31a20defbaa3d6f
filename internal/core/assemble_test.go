package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestBookingSchema(t *testing.T) {
	if len(BookingSchema) != 60 {
		t.Fatalf("BookingSchema has %d fields, want 60", len(BookingSchema))
	}

	counts := map[FieldKind]int{}
	seen := map[string]bool{}
	for _, f := range BookingSchema {
		if seen[f.Name] {
			t.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = true
		counts[f.Kind]++
	}

	want := map[FieldKind]int{
		FieldInteger:     2,
		FieldDecimal:     30,
		FieldDate:        8,
		FieldText:        19,
		FieldPassThrough: 1,
	}
	for kind, n := range want {
		if counts[kind] != n {
			t.Errorf("%s fields = %d, want %d", kind, counts[kind], n)
		}
	}

	if BookingFields[0] != "no" || BookingFields[59] != "profit" || BookingFields[38] != "days" {
		t.Errorf("positional order broken: %v", BookingFields)
	}
}

func TestAssembleBookings_NarrowSheet(t *testing.T) {
	// Only the first three columns exist; everything after is blank.
	table := Table{
		Header: []string{"whatever", "headers", "say"},
		Rows: [][]string{
			{"7", "FCL", "EXP"},
			{"7", "FCL", "EXP"},
		},
	}

	got, err := AssembleBookings(context.Background(), table, 2)
	if err != nil {
		t.Fatalf("AssembleBookings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d bookings, want 2 (no dedup)", len(got))
	}
	b := got[0]
	if b.No.Int64 != 7 || b.PlMod != "FCL" || b.Modd != "EXP" {
		t.Errorf("bound fields = %d %q %q", b.No.Int64, b.PlMod, b.Modd)
	}
	if b.Shipper != "" || b.UnitM3.Valid || b.ETD.Valid || b.Days.Valid {
		t.Errorf("fields beyond the sheet width should be empty: %+v", b)
	}
	if b.Status != BookingPending {
		t.Errorf("status = %q", b.Status)
	}
}

func TestAssembleBookings_HeaderNarrowerThanData(t *testing.T) {
	row := make([]string, 12)
	row[0], row[1], row[3], row[4], row[11] = "1", "FCL", "Acme Shipping", "C100", "28.5"

	tests := []struct {
		name   string
		header []string
	}{
		{"two labeled columns", []string{"no", "pl_mod"}},
		{"blank header row", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := Table{Header: tt.header, Rows: [][]string{row}}
			got, err := AssembleBookings(context.Background(), table, 1)
			if err != nil {
				t.Fatalf("AssembleBookings: %v", err)
			}
			b := got[0]
			if !b.No.Valid || b.No.Int64 != 1 || b.PlMod != "FCL" {
				t.Errorf("labeled fields = %+v %q", b.No, b.PlMod)
			}
			if b.Shipper != "Acme Shipping" || b.CustomerCode != "C100" {
				t.Errorf("unlabeled text fields = %q %q", b.Shipper, b.CustomerCode)
			}
			if !b.UnitM3.Valid || b.UnitM3.Decimal.String() != "28.5" {
				t.Errorf("unit_m3 = %+v", b.UnitM3)
			}
			if b.Line != "" || b.ETD.Valid {
				t.Errorf("fields past the widest row should be empty: %q %+v", b.Line, b.ETD)
			}
		})
	}
}

func TestAssembleBookings_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table := Table{Header: BookingFields, Rows: [][]string{{"1"}}}
	if _, err := AssembleBookings(ctx, table, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("AssembleBookings = %v, want context.Canceled", err)
	}
}

func TestBookingFromRow_Dates(t *testing.T) {
	row := BoundRow{"etd": "2024-03-01 08:30", "eta": "03/15/2024", "pay_date": "soon"}
	b := BookingFromRow(NormalizeRow(BookingSchema, row))

	want := pgtype.Date{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Valid: true}
	if b.ETD != want {
		t.Errorf("ETD = %+v, want %+v", b.ETD, want)
	}
	if !b.ETA.Valid || b.ETA.Time.Day() != 15 {
		t.Errorf("ETA = %+v", b.ETA)
	}
	if b.PayDate.Valid {
		t.Errorf("PayDate = %+v, want null", b.PayDate)
	}
}

func TestAssembleClients(t *testing.T) {
	table := Table{
		Header: []string{"No.", "Name", "Customer Code", "Email"},
		Rows: [][]string{
			{"1", "Acme", "C1", "a@x.test"},
			{"2", "Nameless", "", ""},
			{"3", "Acme Again", "C1", ""},
			{"", "Beta", "C2", ""},
		},
	}

	batch := AssembleClients(table)

	if len(batch.Clients) != 2 {
		t.Fatalf("clients = %d, want 2", len(batch.Clients))
	}
	if batch.MissingCode != 1 || batch.Repeated != 1 || batch.Skipped() != 2 {
		t.Errorf("missing %d repeated %d", batch.MissingCode, batch.Repeated)
	}
	if batch.Clients[0].Name.String != "Acme" {
		t.Errorf("first C1 should win, got %q", batch.Clients[0].Name.String)
	}
	if batch.Clients[1].No.Valid {
		t.Error("blank no should be null")
	}

	kept, dropped := batch.Without(map[string]bool{"C1": true})
	if dropped != 1 || len(kept) != 1 || kept[0].CustomerCode != "C2" {
		t.Errorf("Without = %v, %d", kept, dropped)
	}
}
