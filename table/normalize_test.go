package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Table
	}{
		{
			name:  "empty text",
			input: "",
			want:  Table{},
		},
		{
			name:  "only blank lines",
			input: "\n   \n\t\n",
			want:  Table{},
		},
		{
			name:  "whitespace split",
			input: "name age city\nJohn   30\tNewYork",
			want:  Table{{"name", "age", "city"}, {"John", "30", "NewYork"}},
		},
		{
			name:  "quoted cell keeps interior whitespace",
			input: `"Alice with a space"    42       "Seattle"`,
			want:  Table{{"Alice with a space", "42", "Seattle"}},
		},
		{
			name:  "blank lines between rows are skipped",
			input: "a b\n\n   \nc d\n",
			want:  Table{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "crlf line endings",
			input: "a b\r\nc d\r\n",
			want:  Table{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "empty quoted cell",
			input: `a "" c`,
			want:  Table{{"a", "", "c"}},
		},
		{
			name:  "quote adjacent to unquoted text splits",
			input: `ab"c d"e`,
			want:  Table{{"ab", "c d", "e"}},
		},
		{
			name:  "unterminated quote runs to end of line",
			input: "a \"b c\nd",
			want:  Table{{"a", "b c"}, {"d"}},
		},
		{
			name:  "commas are ordinary characters",
			input: `1,000 "x, y"`,
			want:  Table{{"1,000", "x, y"}},
		},
		{
			name:  "unicode whitespace and text",
			input: "café naïve 東京",
			want:  Table{{"café", "naïve", "東京"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_KeepsInvalidUTF8Bytes(t *testing.T) {
	got := Normalize("a \xff")
	require.Len(t, got, 1)
	assert.Equal(t, Row{"a", "\xff"}, got[0])
}

func TestFromGrid(t *testing.T) {
	t.Run("nil grid is empty", func(t *testing.T) {
		got := FromGrid(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("cells pass through unchanged", func(t *testing.T) {
		grid := [][]string{{"  padded ", "x"}, {"one"}}
		assert.Equal(t, Table{{"  padded ", "x"}, {"one"}}, FromGrid(grid))
	})

	t.Run("copies cells", func(t *testing.T) {
		grid := [][]string{{"a", "b"}}
		got := FromGrid(grid)
		grid[0][0] = "changed"
		assert.Equal(t, "a", got[0][0])
	})
}

func TestRead(t *testing.T) {
	t.Run("strips utf-8 BOM", func(t *testing.T) {
		input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name age\nJohn 30")...)
		got, err := Read(bytes.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, Table{{"name", "age"}, {"John", "30"}}, got)
	})

	t.Run("transcodes utf-16 with BOM", func(t *testing.T) {
		// "a b" in UTF-16LE with BOM
		input := []byte{0xFF, 0xFE, 'a', 0, ' ', 0, 'b', 0}
		got, err := Read(bytes.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, Table{{"a", "b"}}, got)
	})

	t.Run("plain text", func(t *testing.T) {
		got, err := Read(strings.NewReader("x y\n\nz"))
		require.NoError(t, err)
		assert.Equal(t, Table{{"x", "y"}, {"z"}}, got)
	})
}

func TestCells(t *testing.T) {
	calcAge := func(string) int { return 24 }

	got := Cells("Bob", calcAge("hi"), nil, 1.5, true, []byte("raw"))
	assert.Equal(t, Row{"Bob", "24", "", "1.5", "true", "raw"}, got)
}

func TestRowString(t *testing.T) {
	assert.Equal(t, `John 30 "New York" ""`, Row{"John", "30", "New York", ""}.String())
	assert.Equal(t, "a b\nc", Table{{"a", "b"}, {"c"}}.String())
}
