package table

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error kinds, matched with errors.Is against the typed errors below.
var (
	ErrRowEncoding = errors.New("row encoding failed")
	ErrDecode      = errors.New("decode failed")
	ErrUtf8        = errors.New("invalid utf-8")
)

// ErrEmptyRow is the cause reported when a row has no cells to write.
var ErrEmptyRow = errors.New("row has no cells")

// RowEncodingError reports a row that could not be written as a
// delimited record.
type RowEncodingError struct {
	Row  int    // 1-based row number in the table
	Text string // row rendered in table-literal form
	Err  error
}

func (e *RowEncodingError) Error() string {
	return fmt.Sprintf("encode row %d (%s): %v", e.Row, e.Text, e.Err)
}

func (e *RowEncodingError) Unwrap() error { return e.Err }

func (e *RowEncodingError) Is(target error) bool { return target == ErrRowEncoding }

// DecodeError reports a record that could not be mapped onto the target
// type: a column count mismatch, an unknown or missing column, or a cell
// that does not convert to its field type.
type DecodeError struct {
	Source string // the full delimited text handed to the decoder
	Row    int    // 1-based row number in the table, header included
	Cells  Row    // raw cells of the failing row, if known
	Err    error
}

func (e *DecodeError) Error() string {
	if len(e.Cells) == 0 {
		return fmt.Sprintf("decode row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("decode row %d (%s): %v", e.Row, e.Cells, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Utf8Error reports encoded text that is not valid UTF-8.
type Utf8Error struct {
	Text   string // the offending buffer
	Offset int    // byte offset of the first invalid sequence
}

func (e *Utf8Error) Error() string {
	return fmt.Sprintf("encoding error: invalid utf-8 at byte %d of %d", e.Offset, len(e.Text))
}

func (e *Utf8Error) Is(target error) bool { return target == ErrUtf8 }

// UnknownColumnsError reports header columns with no matching record field.
type UnknownColumnsError struct {
	Columns []string
}

func (e *UnknownColumnsError) Error() string {
	return fmt.Sprintf("unknown column(s) %s", strings.Join(quoteAll(e.Columns), ", "))
}

func newUtf8Error(data []byte) *Utf8Error {
	offset := 0
	for offset < len(data) {
		r, size := utf8.DecodeRune(data[offset:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		offset += size
	}
	return &Utf8Error{Text: string(data), Offset: offset}
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%q", n)
	}
	return out
}
