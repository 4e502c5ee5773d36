package table

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	textunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Normalize splits a block of text into a Table.
//
// Each non-blank line becomes one row. A token wrapped in a pair of double
// quotes becomes a single cell with the quotes removed and its interior
// left untouched. Unquoted runs are split on whitespace. An unterminated
// quote extends to the end of the line.
//
// Normalize never fails: any text is representable as a grid of tokens.
func Normalize(text string) Table {
	t := Table{}
	for _, line := range strings.Split(text, "\n") {
		row := splitLine(strings.TrimSuffix(line, "\r"))
		if len(row) == 0 {
			continue
		}
		t = append(t, row)
	}
	return t
}

// Read reads a raw text table from r and normalizes it.
// A leading byte-order mark is removed; UTF-16 input with a BOM is
// transcoded to UTF-8.
func Read(r io.Reader) (Table, error) {
	data, err := io.ReadAll(transform.NewReader(r, textunicode.BOMOverride(encoding.Nop.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	return Normalize(string(data)), nil
}

// splitLine tokenizes a single line. Bytes that are not valid UTF-8 are
// kept as-is so the decoder can report them.
func splitLine(line string) Row {
	var (
		row   Row
		cur   strings.Builder
		inRun bool
	)

	flush := func() {
		if inRun {
			row = append(row, cur.String())
			cur.Reset()
			inRun = false
		}
	}

	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])

		switch {
		case r == '"':
			flush()
			rest := line[i+1:]
			end := strings.IndexByte(rest, '"')
			if end < 0 {
				return append(row, rest)
			}
			row = append(row, rest[:end])
			i += end + 2
			continue

		case unicode.IsSpace(r):
			flush()

		default:
			cur.WriteString(line[i : i+size])
			inRun = true
		}

		i += size
	}

	flush()
	return row
}
