package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jszwec/csvutil"
)

// fieldMarshalers render the pgx field types back to cell text. NULL
// values become empty cells.
var fieldMarshalers = csvutil.NewMarshalers(
	csvutil.MarshalFunc(marshalPgText),
	csvutil.MarshalFunc(marshalPgDate),
	csvutil.MarshalFunc(marshalPgNumeric),
	csvutil.MarshalFunc(marshalPgBool),
	csvutil.MarshalFunc(marshalPgInt8),
	csvutil.MarshalFunc(marshalPgUUID),
)

// Marshal writes records, a slice of structs, as comma-delimited text with
// a header row naming the columns. It is the reverse of Decode: the
// output decodes back into the same records. An empty slice yields the
// header alone.
func Marshal(records any) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	enc := csvutil.NewEncoder(w)
	enc.WithMarshalers(fieldMarshalers)

	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush records: %w", err)
	}
	return buf.Bytes(), nil
}

func marshalPgText(v pgtype.Text) ([]byte, error) {
	if !v.Valid {
		return nil, nil
	}
	return []byte(v.String), nil
}

func marshalPgDate(v pgtype.Date) ([]byte, error) {
	if !v.Valid {
		return nil, nil
	}
	return []byte(v.Time.Format("2006-01-02")), nil
}

func marshalPgNumeric(v pgtype.Numeric) ([]byte, error) {
	if !v.Valid {
		return nil, nil
	}
	val, err := v.Value()
	if err != nil {
		return nil, err
	}
	s, _ := val.(string)
	return []byte(s), nil
}

func marshalPgBool(v pgtype.Bool) ([]byte, error) {
	if !v.Valid {
		return nil, nil
	}
	return []byte(strconv.FormatBool(v.Bool)), nil
}

func marshalPgInt8(v pgtype.Int8) ([]byte, error) {
	if !v.Valid {
		return nil, nil
	}
	return []byte(strconv.FormatInt(v.Int64, 10)), nil
}

func marshalPgUUID(v pgtype.UUID) ([]byte, error) {
	return []byte(PgUUIDToString(v)), nil
}
