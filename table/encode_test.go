package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		input Table
		want  string
	}{
		{
			name:  "plain cells",
			input: Table{{"name", "age"}, {"John", "30"}},
			want:  "name,age\nJohn,30\n",
		},
		{
			name:  "delimiter is quoted",
			input: Table{{"a,b", "c"}},
			want:  "\"a,b\",c\n",
		},
		{
			name:  "quote is doubled",
			input: Table{{`say "hi"`}},
			want:  "\"say \"\"hi\"\"\"\n",
		},
		{
			name:  "newline is quoted",
			input: Table{{"two\nlines", "x"}},
			want:  "\"two\nlines\",x\n",
		},
		{
			name:  "leading space is quoted",
			input: Table{{" padded", "x"}},
			want:  "\" padded\",x\n",
		},
		{
			name:  "single empty cell is written as empty quotes",
			input: Table{{"name"}, {""}},
			want:  "name\n\"\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestEncode_EmptyRow(t *testing.T) {
	_, err := Encode(Table{{"a"}, {}})
	require.Error(t, err)

	var encErr *RowEncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, 2, encErr.Row)
	assert.ErrorIs(t, err, ErrEmptyRow)
	assert.ErrorIs(t, err, ErrRowEncoding)
}

func TestEncode_RoundTripsThroughReader(t *testing.T) {
	type rec struct {
		Text string `csv:"text"`
	}
	cells := []string{
		"plain",
		"with space",
		" leading",
		"trailing ",
		`"quoted"`,
		"comma, inside",
		"multi\nline",
		"",
	}

	grid := [][]string{{"text"}}
	for _, c := range cells {
		grid = append(grid, []string{c})
	}

	got, err := ParseGrid[rec](grid)
	require.NoError(t, err)
	require.Len(t, got, len(cells))
	for i, c := range cells {
		assert.Equal(t, c, got[i].Text, "cell %d", i)
	}
}
