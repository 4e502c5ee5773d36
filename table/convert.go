package table

// convert.go parses cell text into pgx and time types.
//
// These converters handle the messy reality of hand-typed and exported
// values:
//   - Multiple date formats (US, EU, ISO, etc.)
//   - Currency symbols and thousand separators in numbers
//   - Various boolean representations (yes/no, true/false, 1/0)
//
// All ToPg* functions return pgtype values with Valid=false for empty or
// invalid input. The unmarshalers registered with the decoder turn
// "invalid and non-empty" into an error and "empty" into NULL.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jszwec/csvutil"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
	timestampLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
)

// fieldUnmarshalers are registered on every decoder.
var fieldUnmarshalers = csvutil.NewUnmarshalers(
	csvutil.UnmarshalFunc(unmarshalPgText),
	csvutil.UnmarshalFunc(unmarshalPgDate),
	csvutil.UnmarshalFunc(unmarshalPgNumeric),
	csvutil.UnmarshalFunc(unmarshalPgBool),
	csvutil.UnmarshalFunc(unmarshalPgInt8),
	csvutil.UnmarshalFunc(unmarshalPgUUID),
	csvutil.UnmarshalFunc(unmarshalTime),
)

// ToPgText converts a string to pgtype.Text.
// The text is kept exactly; only the empty string is NULL.
func ToPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgDate converts a string to pgtype.Date.
// Supports multiple date formats and handles 2-digit years with pivot.
func ToPgDate(s string) pgtype.Date {
	t, ok := parseDate(s)
	if !ok {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	// Try 2-digit year layouts with pivot year adjustment
	pivotYear := time.Now().Year() + TwoDigitYearPivot

	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// ToPgNumeric converts a string to pgtype.Numeric.
// Handles currency symbols, thousands separators, and accounting format (parentheses for negative).
func ToPgNumeric(s string) pgtype.Numeric {
	s, ok := cleanNumber(s)
	if !ok || !numericRegex.MatchString(s) {
		return pgtype.Numeric{Valid: false}
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}

// ToPgInt8 converts a string to pgtype.Int8 using the same cleanup as
// ToPgNumeric. Fractional values are invalid.
func ToPgInt8(s string) pgtype.Int8 {
	s, ok := cleanNumber(s)
	if !ok {
		return pgtype.Int8{Valid: false}
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: i, Valid: true}
}

// cleanNumber strips currency symbols and separators and rewrites the
// accounting negative "(123.45)" as "-123.45".
func cleanNumber(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}
	return s, s != ""
}

// ToPgBool converts a string to pgtype.Bool.
// Accepts various representations: true/false, yes/no, t/f, y/n, 1/0.
func ToPgBool(s string) pgtype.Bool {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "true", "t", "yes", "y", "1":
		return pgtype.Bool{Bool: true, Valid: true}
	case "false", "f", "no", "n", "0":
		return pgtype.Bool{Bool: false, Valid: true}
	default:
		return pgtype.Bool{Valid: false}
	}
}

// ToPgUUID converts a string to pgtype.UUID.
// Returns invalid if the string is empty or not a valid UUID.
func ToPgUUID(s string) pgtype.UUID {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.UUID{Valid: false}
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

// PgUUIDToString converts a pgtype.UUID to its string representation.
// Returns empty string if the UUID is invalid.
func PgUUIDToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

func isBlank(data []byte) bool {
	return strings.TrimSpace(string(data)) == ""
}

func unmarshalPgText(data []byte, v *pgtype.Text) error {
	*v = ToPgText(string(data))
	return nil
}

func unmarshalPgDate(data []byte, v *pgtype.Date) error {
	if *v = ToPgDate(string(data)); !v.Valid && !isBlank(data) {
		return fmt.Errorf("invalid date %q", data)
	}
	return nil
}

func unmarshalPgNumeric(data []byte, v *pgtype.Numeric) error {
	if *v = ToPgNumeric(string(data)); !v.Valid && !isBlank(data) {
		return fmt.Errorf("invalid number %q", data)
	}
	return nil
}

func unmarshalPgInt8(data []byte, v *pgtype.Int8) error {
	if *v = ToPgInt8(string(data)); !v.Valid && !isBlank(data) {
		return fmt.Errorf("invalid number %q", data)
	}
	return nil
}

func unmarshalPgBool(data []byte, v *pgtype.Bool) error {
	if *v = ToPgBool(string(data)); !v.Valid && !isBlank(data) {
		return fmt.Errorf("invalid bool %q", data)
	}
	return nil
}

func unmarshalPgUUID(data []byte, v *pgtype.UUID) error {
	if *v = ToPgUUID(string(data)); !v.Valid && !isBlank(data) {
		return fmt.Errorf("invalid uuid %q", data)
	}
	return nil
}

// unmarshalTime accepts RFC 3339 timestamps, "2006-01-02 15:04:05", and
// every date layout ToPgDate accepts.
func unmarshalTime(data []byte, v *time.Time) error {
	s := strings.TrimSpace(string(data))
	if s == "" {
		*v = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*v = t
			return nil
		}
	}
	if t, ok := parseDate(s); ok {
		*v = t
		return nil
	}
	return fmt.Errorf("invalid date %q", data)
}
