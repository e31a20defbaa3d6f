package core

import "strings"

// Binder assigns field names to the cells of every row of a table.
type Binder interface {
	Bind(t Table) []BoundRow
}

// PositionalBinder binds columns to Fields by index. Header text is never
// consulted: a swapped or missing column shifts data into the wrong field.
type PositionalBinder struct {
	Fields []string
}

// Width is the number of columns bound: min(len(Fields), t.ColumnCount()).
func (b PositionalBinder) Width(t Table) int {
	return min(len(b.Fields), t.ColumnCount())
}

// Bind binds every data row of t.
func (b PositionalBinder) Bind(t Table) []BoundRow {
	width := b.Width(t)
	out := make([]BoundRow, len(t.Rows))
	for i, cells := range t.Rows {
		out[i] = b.BindRow(cells, width)
	}
	return out
}

// BindRow binds the first width cells of one row. Cells missing from a
// short row are left out of the result.
func (b PositionalBinder) BindRow(cells []string, width int) BoundRow {
	row := make(BoundRow, width)
	for i := 0; i < width && i < len(cells); i++ {
		row[b.Fields[i]] = cells[i]
	}
	return row
}

// HeaderNameBinder keys each cell by its normalized header text.
// Every header yields a key, missing cells default to "" and all values
// are trimmed. The first of several identical headers wins.
type HeaderNameBinder struct{}

type headerColumn struct {
	key   string
	index int
}

func (HeaderNameBinder) columns(header []string) []headerColumn {
	seen := make(map[string]bool, len(header))
	cols := make([]headerColumn, 0, len(header))
	for i, h := range header {
		key := NormalizeHeader(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		cols = append(cols, headerColumn{key: key, index: i})
	}
	return cols
}

// Bind binds every data row of t.
func (b HeaderNameBinder) Bind(t Table) []BoundRow {
	cols := b.columns(t.Header)
	out := make([]BoundRow, len(t.Rows))
	for i, cells := range t.Rows {
		row := make(BoundRow, len(cols))
		for _, c := range cols {
			var v string
			if c.index < len(cells) {
				v = strings.TrimSpace(cells[c.index])
			}
			row[c.key] = v
		}
		out[i] = row
	}
	return out
}
