package core

// convert.go turns raw spreadsheet cells into typed values.
//
// Every Normalize* function is total: blank or malformed input yields the
// null (or empty) sentinel for its kind and never an error. A bad cell costs
// one field, never the row.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// numericRegex validates a number after currency and separator cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years more than this many years in the future are moved back a century.
var TwoDigitYearPivot = 20

// Excel serial day numbers accepted as dates: 1927-05-18 through 9999-12-31.
const (
	minExcelSerial = 10000
	maxExcelSerial = 2958466
)

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
		"2-Jan-06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02", "2006-1-2", "2006/1/2",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "Jan 2 2006", "January 2, 2006", "2 Jan 2006", "2 January 2006",
		"2-Jan-2006", "02-Jan-2006",
		"20060102",
	}
	dateTimeLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04",
		"2006/01/02 15:04:05",
		"2006/01/02 15:04",
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
		"1/2/2006 3:04:05 PM",
		"1/2/2006 3:04 PM",
		"2006-01-02 15:04:05Z07:00",
		"Jan 2, 2006 3:04 PM",
		"Jan 2, 2006 15:04",
		"2 January 2006 15:04",
		"2 Jan 2006 15:04",
		time.RFC1123,
		time.RFC1123Z,
	}
	// Day-first layouts only run once the month-first ones have failed,
	// so "01/02/2024" stays January 2nd and "15/01/2024" is January 15th.
	dayFirstLayouts = []string{
		"2/1/2006", "02/01/2006",
		"2.1.2006", "02.01.2006",
		"2-1-2006", "02-01-2006",
		"2/1/2006 15:04", "2/1/2006 15:04:05",
		"2.1.2006 15:04", "2.1.2006 15:04:05",
	}
)

// isBlank reports whether a cell carries no value.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// NormalizeText returns "" for blank cells and the cell text otherwise.
func NormalizeText(s string) string {
	if isBlank(s) {
		return ""
	}
	return s
}

// NormalizePassThrough keeps the decoder's text, null when blank.
func NormalizePassThrough(s string) pgtype.Text {
	if isBlank(s) {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// NormalizeDate parses a date in any supported layout and keeps only the
// calendar date. Unparseable input is null.
func NormalizeDate(s string) pgtype.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Date{}
	}

	// Four-digit year layouts are unambiguous, try them first.
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDate(t)
		}
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDate(t)
		}
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDate(t)
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return calendarDate(t)
		}
	}

	return excelSerialDate(s)
}

// excelSerialDate interprets a bare number as an Excel day serial.
func excelSerialDate(s string) pgtype.Date {
	if !numericRegex.MatchString(s) {
		return pgtype.Date{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < minExcelSerial || v >= maxExcelSerial {
		return pgtype.Date{}
	}
	t, err := excelize.ExcelDateToTime(v, false)
	if err != nil {
		return pgtype.Date{}
	}
	return calendarDate(t)
}

// calendarDate drops the time of day, keeping the date as written.
func calendarDate(t time.Time) pgtype.Date {
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// cleanNumber strips currency symbols, thousands separators and
// accounting-style parentheses. ok is false when the rest is not a number.
func cleanNumber(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	// Accounting negative "(123.45)"
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if negative {
		s = "-" + s
	}
	if !numericRegex.MatchString(s) {
		return "", false
	}
	return strings.TrimPrefix(s, "+"), true
}

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// NormalizeInteger parses an integer cell. Decimal text is truncated toward
// zero, as a spreadsheet number cell holding 3.0 or 3.7 would be.
func NormalizeInteger(s string) pgtype.Int8 {
	s, ok := cleanNumber(s)
	if !ok {
		return pgtype.Int8{}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return pgtype.Int8{Int64: i, Valid: true}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return pgtype.Int8{}
	}
	d = d.Truncate(0)
	if d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: d.IntPart(), Valid: true}
}

// PostgreSQL NUMERIC limits.
const (
	maxNumericIntegerDigits = 131072
	maxNumericScale         = 16383
)

// NormalizeDecimal parses a decimal cell. Values PostgreSQL NUMERIC cannot
// hold are null.
func NormalizeDecimal(s string) decimal.NullDecimal {
	s, ok := cleanNumber(s)
	if !ok {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !fitsNumeric(d) {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func fitsNumeric(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if exp < -maxNumericScale {
		return false
	}
	return int64(d.NumDigits())+exp <= maxNumericIntegerDigits
}

// NormalizeHeader folds a header cell into a field key:
// lower case, trimmed, periods removed, spaces replaced by underscores.
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	h = strings.ReplaceAll(h, ".", "")
	return strings.ReplaceAll(h, " ", "_")
}

// NormalizedRow holds the typed values of one row, grouped by kind.
// Accessors return the null sentinel for fields the row does not carry.
type NormalizedRow struct {
	text     map[string]string
	dates    map[string]pgtype.Date
	ints     map[string]pgtype.Int8
	decimals map[string]decimal.NullDecimal
	raw      map[string]pgtype.Text
}

func (r NormalizedRow) Text(name string) string { return r.text[name] }
func (r NormalizedRow) Date(name string) pgtype.Date { return r.dates[name] }
func (r NormalizedRow) Int(name string) pgtype.Int8 { return r.ints[name] }
func (r NormalizedRow) Decimal(name string) decimal.NullDecimal { return r.decimals[name] }
func (r NormalizedRow) Raw(name string) pgtype.Text { return r.raw[name] }

// NormalizeRow applies each field's rule to its bound cell. Fields absent
// from the row are normalized as blank.
func NormalizeRow(schema Schema, row BoundRow) NormalizedRow {
	out := NormalizedRow{
		text:     make(map[string]string),
		dates:    make(map[string]pgtype.Date),
		ints:     make(map[string]pgtype.Int8),
		decimals: make(map[string]decimal.NullDecimal),
		raw:      make(map[string]pgtype.Text),
	}
	for _, f := range schema {
		cell := row[f.Name]
		switch f.Kind {
		case FieldText:
			out.text[f.Name] = NormalizeText(cell)
		case FieldDate:
			out.dates[f.Name] = NormalizeDate(cell)
		case FieldInteger:
			out.ints[f.Name] = NormalizeInteger(cell)
		case FieldDecimal:
			out.decimals[f.Name] = NormalizeDecimal(cell)
		default:
			out.raw[f.Name] = NormalizePassThrough(cell)
		}
	}
	return out
}
