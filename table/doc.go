// Package table converts hand-written tables of text tokens into slices of
// typed records.
//
// A table is written as whitespace-separated tokens, one row per line.
// Tokens wrapped in double quotes keep their interior whitespace. By
// default the first row names the record fields:
//
//	type Person struct {
//	    Name string `csv:"name"`
//	    Age  int    `csv:"age"`
//	    City string `csv:"city"`
//	}
//
//	people, err := table.Parse[Person](`
//	    name                 age  city
//	    John                 30   NewYork
//	    "Alice with a space" 42   Seattle
//	`)
//
// # Pipeline
//
// Every conversion runs three stages in order and stops at the first
// failure; no partial results are returned:
//
//  1. Collecting: [Normalize], [Read] or [FromGrid] build a [Table].
//  2. Encoding: [Encode] writes the table as comma-delimited text.
//  3. Decoding: [Decode] maps each record onto the target type using
//     github.com/jszwec/csvutil.
//
// A table with zero rows short-circuits to an empty slice without running
// the encoding or decoding stages.
//
// # Field Types
//
// Besides the kinds csvutil handles natively (strings, integers, floats,
// bools, encoding.TextUnmarshaler), records may use pgx types. These are
// parsed leniently, the same way spreadsheet exports are cleaned up:
//
//   - pgtype.Date: ISO, US and European layouts, two-digit years with a pivot
//   - pgtype.Numeric: currency symbols, thousands separators, (123.45) negatives
//   - pgtype.Bool: true/false, yes/no, t/f, y/n, 1/0
//   - pgtype.Text, pgtype.Int8, pgtype.UUID
//
// An empty cell decodes to a NULL (Valid=false) value for these types.
// [Marshal] writes decoded records back out as comma-delimited text, with
// NULLs as empty cells.
//
// # Errors
//
// Failures are returned as [*RowEncodingError], [*DecodeError] or
// [*Utf8Error]. Each carries the raw text that caused it. [MapError] turns
// any of them into a [UserMessage] with a support code.
package table
