package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Encode writes t as comma-delimited text, one record per row.
//
// Cells containing the delimiter, a double quote, a line break or leading
// whitespace are quoted, with embedded quotes doubled. encoding/csv reads
// a quoted \r\n back as \n, so Convert takes cell text from the source
// rows. The writer is flushed before the buffer is returned.
func Encode(t Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	for i, row := range t {
		if err := writeRow(w, &buf, row); err != nil {
			return nil, &RowEncodingError{Row: i + 1, Text: row.String(), Err: err}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush encoded table: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(w *csv.Writer, buf *bytes.Buffer, row Row) error {
	switch {
	case len(row) == 0:
		return ErrEmptyRow

	case len(row) == 1 && row[0] == "":
		// A bare empty record is a blank line, which readers skip.
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		buf.WriteString("\"\"\n")
		return nil
	}

	if err := w.Write(row); err != nil {
		return err
	}
	// Flushed per row: a write failure belongs to this row.
	w.Flush()
	return w.Error()
}
