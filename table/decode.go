package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/jszwec/csvutil"
)

// Option configures decoding.
type Option func(*options)

type options struct {
	columns      []string
	allowUnknown bool
	tag          string
}

func newOptions(opts []Option) options {
	o := options{tag: "csv"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithColumns decodes positionally: every row is data and the i-th cell
// maps to the field named columns[i]. Without it the first row is the
// header.
func WithColumns(columns ...string) Option {
	return func(o *options) {
		o.columns = append([]string(nil), columns...)
	}
}

// AllowUnknownColumns ignores header columns that no record field declares.
// By default they fail the decode.
func AllowUnknownColumns() Option {
	return func(o *options) {
		o.allowUnknown = true
	}
}

// WithTag sets the struct tag used to name fields (default "csv").
func WithTag(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.tag = tag
		}
	}
}

// Parse normalizes text and decodes it into records of type T.
// T must be a struct type.
func Parse[T any](text string, opts ...Option) ([]T, error) {
	return Convert[T](Normalize(text), opts...)
}

// ParseGrid decodes an already split grid into records of type T.
func ParseGrid[T any](grid [][]string, opts ...Option) ([]T, error) {
	return Convert[T](FromGrid(grid), opts...)
}

// MustParse is like Parse but panics on error. It is intended for test
// fixtures and package-level variables.
func MustParse[T any](text string, opts ...Option) []T {
	records, err := Parse[T](text, opts...)
	if err != nil {
		panic(fmt.Sprintf("table.MustParse: %v", err))
	}
	return records
}

// Convert encodes t and decodes the result into records of type T.
// An empty table yields an empty slice without encoding anything.
func Convert[T any](t Table, opts ...Option) ([]T, error) {
	if len(t) == 0 {
		return []T{}, nil
	}

	data, err := Encode(t)
	if err != nil {
		return nil, err
	}
	return decode[T](data, t, newOptions(opts))
}

// Decode maps comma-delimited data onto records of type T.
//
// The first failing record fails the whole call. Errors are *DecodeError,
// or *Utf8Error when data is not valid UTF-8.
func Decode[T any](data []byte, opts ...Option) ([]T, error) {
	return decode[T](data, nil, newOptions(opts))
}

// decode does the work for Decode and Convert. src, when known, supplies
// the raw cells for error context.
func decode[T any](data []byte, src Table, o options) ([]T, error) {
	if !utf8.Valid(data) {
		return nil, newUtf8Error(data)
	}

	records := []T{}
	if len(data) == 0 {
		return records, nil
	}

	source := string(data)
	fail := func(row int, cells Row, err error) error {
		if len(cells) == 0 && row > 0 && row <= len(src) {
			cells = src[row-1]
		}
		return &DecodeError{Source: source, Row: row, Cells: cells, Err: err}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	if len(o.columns) > 0 {
		cr.FieldsPerRecord = len(o.columns)
	}
	var r csvutil.Reader = cr
	if len(src) > 0 {
		r = &sourceReader{r: cr, src: src}
	}

	dec, err := csvutil.NewDecoder(r, o.columns...)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		return nil, fail(1, nil, fmt.Errorf("read header: %w", err))
	}
	dec.Tag = o.tag
	dec.DisallowMissingColumns = true
	dec.WithUnmarshalers(fieldUnmarshalers)

	row := 0
	if len(o.columns) == 0 {
		row = 1 // header
	}

	if !o.allowUnknown {
		if unknown := unknownColumns[T](dec.Header(), o.tag); len(unknown) > 0 {
			// Positional columns come from the caller, not from a row.
			var cells Row
			if len(o.columns) == 0 {
				cells = dec.Header()
			}
			return nil, fail(row, cells, &UnknownColumnsError{Columns: unknown})
		}
	}

	for {
		var rec T
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fail(row, dec.Record(), err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// unknownColumns lists the header names that no field of T declares.
// It returns nil when T's columns cannot be determined; Decode then
// reports the problem itself.
func unknownColumns[T any](header []string, tag string) []string {
	var zero T
	fields, err := csvutil.Header(zero, tag)
	if err != nil {
		return nil
	}
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f] = true
	}

	var unknown []string
	for _, h := range header {
		if !known[h] {
			unknown = append(unknown, h)
		}
	}
	return unknown
}

// sourceReader reads the encoded buffer but hands the decoder the source
// row it came from. encoding/csv folds \r\n inside quoted fields to \n, so
// the source is the only exact copy of the cell text. Encode writes exactly
// one record per row, keeping the two in step.
type sourceReader struct {
	r   *csv.Reader
	src Table
	n   int
}

func (s *sourceReader) Read() ([]string, error) {
	rec, err := s.r.Read()
	if rec != nil && s.n < len(s.src) {
		rec = append([]string(nil), s.src[s.n]...)
	}
	s.n++
	return rec, err
}
