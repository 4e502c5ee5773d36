package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/JonMunkholm/serdetable/table"
)

// Output formats for converted records.
const (
	formatJSON  = "json"
	formatCSV   = "csv"
	formatTable = "table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// writeRecords renders records, a slice of structs, to w.
func writeRecords(w io.Writer, format string, records any) error {
	switch strings.ToLower(format) {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)

	case formatCSV:
		data, err := table.Marshal(records)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err

	case formatTable:
		data, err := table.Marshal(records)
		if err != nil {
			return err
		}
		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			return fmt.Errorf("render table: %w", err)
		}
		_, err = fmt.Fprintln(w, renderGrid(rows))
		return err

	default:
		return fmt.Errorf("unknown output format %q (want json, csv or table)", format)
	}
}

// renderGrid draws rows as a bordered terminal table; rows[0] is the header.
func renderGrid(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(rows[0]...).
		Rows(rows[1:]...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.Render()
}
