package table

import (
	"encoding"
	"fmt"
	"strings"
	"unicode"
)

// Row is an ordered group of cells destined for one record.
type Row []string

// Table is the ordered collection of rows for one conversion.
// Rows may differ in length; that is reported at decode time.
type Table []Row

// FromGrid builds a Table from an already split grid.
// Cells are copied so later changes to grid do not leak into the table.
func FromGrid(grid [][]string) Table {
	t := make(Table, 0, len(grid))
	for _, cells := range grid {
		row := make(Row, len(cells))
		copy(row, cells)
		t = append(t, row)
	}
	return t
}

// Cells formats arbitrary values into a Row, so computed values can sit
// next to literals in a grid:
//
//	table.ParseGrid[Person]([][]string{
//	    {"name", "age", "city"},
//	    table.Cells("Bob", ageOf("Bob"), city),
//	})
//
// TextMarshalers are preferred over Stringers; nil becomes an empty cell.
func Cells(values ...any) Row {
	row := make(Row, len(values))
	for i, v := range values {
		row[i] = formatCell(v)
	}
	return row
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case encoding.TextMarshaler:
		if b, err := x.MarshalText(); err == nil {
			return string(b)
		}
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// String renders the row back in table-literal form: cells separated by a
// space, quoted when empty or when they contain whitespace.
func (r Row) String() string {
	var b strings.Builder
	for i, cell := range r {
		if i > 0 {
			b.WriteByte(' ')
		}
		if cell == "" || strings.IndexFunc(cell, unicode.IsSpace) >= 0 {
			b.WriteByte('"')
			b.WriteString(cell)
			b.WriteByte('"')
			continue
		}
		b.WriteString(cell)
	}
	return b.String()
}

// String renders the table in table-literal form, one row per line.
func (t Table) String() string {
	lines := make([]string, len(t))
	for i, row := range t {
		lines[i] = row.String()
	}
	return strings.Join(lines, "\n")
}
