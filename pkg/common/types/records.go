package types

import (
	"fmt"

	"github.com/guregu/null"
)

// Row is one record. Cells are positional and line up with RecordSet.Columns.
type Row []null.String

// RecordSet is a block of rows sharing one ordered column list.
type RecordSet struct {
	Columns []string
	Rows    []Row
}

// NewRecordSet returns an empty record set with a copy of columns.
func NewRecordSet(columns []string) *RecordSet {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &RecordSet{Columns: cols}
}

// Len returns the number of rows.
func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// ColumnIndex returns the position of name, or -1.
func (rs *RecordSet) ColumnIndex(name string) int {
	for i, c := range rs.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Slice returns rows [from, to) sharing the column list and row backing array.
func (rs *RecordSet) Slice(from, to int) *RecordSet {
	return &RecordSet{Columns: rs.Columns, Rows: rs.Rows[from:to]}
}

// Values converts a row to driver-friendly values: nil for NULL, string otherwise.
func (r Row) Values() []any {
	out := make([]any, len(r))
	for i, c := range r {
		if c.Valid {
			out[i] = c.String
		}
	}
	return out
}

// StringsToRow builds a row from raw fields. Empty fields become NULL.
func StringsToRow(fields []string) Row {
	row := make(Row, len(fields))
	for i, f := range fields {
		if f != "" {
			row[i] = null.StringFrom(f)
		}
	}
	return row
}

// ValuesToRow builds a row from scanned driver values.
func ValuesToRow(values []any) Row {
	row := make(Row, len(values))
	for i, v := range values {
		switch t := v.(type) {
		case nil:
		case string:
			row[i] = null.StringFrom(t)
		case []byte:
			row[i] = null.StringFrom(string(t))
		default:
			row[i] = null.StringFrom(fmt.Sprint(t))
		}
	}
	return row
}
