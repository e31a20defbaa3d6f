package core

import (
	"time"

	"github.com/google/uuid"
)

// FieldKind selects the normalization rule applied to a cell.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldDate
	FieldInteger
	FieldDecimal
	// FieldPassThrough keeps the decoder's text, null when blank.
	FieldPassThrough
)

func (k FieldKind) String() string {
	switch k {
	case FieldText:
		return "text"
	case FieldDate:
		return "date"
	case FieldInteger:
		return "integer"
	case FieldDecimal:
		return "decimal"
	case FieldPassThrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// FieldSpec declares one logical field of a sheet.
type FieldSpec struct {
	Name string
	Kind FieldKind
}

// Schema is an ordered list of field declarations.
type Schema []FieldSpec

// Names returns the field names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Table is a decoded sheet. Header is the first row; Rows are the rest.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnCount is the width of the sheet: the widest of the header and the
// data rows. Unlabeled columns past the header still count, and workbook
// readers trim trailing blank header cells.
func (t Table) ColumnCount() int {
	n := len(t.Header)
	for _, r := range t.Rows {
		n = max(n, len(r))
	}
	return n
}

// BoundRow maps field names to raw cell text for one sheet row.
// A field missing from the map was not present in the sheet.
type BoundRow map[string]string

// Entity names an upload target.
type Entity string

const (
	EntityBookings Entity = "bookings"
	EntityClients  Entity = "clients"
)

// UploadRecord is the persisted summary of one committed upload.
type UploadRecord struct {
	UploadID     uuid.UUID `json:"upload_id"`
	Entity       Entity    `json:"entity"`
	FileName     string    `json:"file_name"`
	RowsInserted int       `json:"rows_inserted"`
	RowsSkipped  int       `json:"rows_skipped"`
	DurationMs   int64     `json:"duration_ms"`
	SourceIP     string    `json:"source_ip,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// UploadResult is returned to the caller of an upload.
type UploadResult struct {
	UploadID uuid.UUID
	Entity   Entity
	FileName string
	Inserted int
	Skipped  int
	Duration time.Duration
}
