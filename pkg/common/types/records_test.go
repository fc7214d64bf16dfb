package types

import (
	"testing"

	"github.com/guregu/null"
	"github.com/stretchr/testify/assert"
)

func TestStringsToRow(t *testing.T) {
	row := StringsToRow([]string{"a", "", "c"})
	assert.Equal(t, Row{null.StringFrom("a"), null.String{}, null.StringFrom("c")}, row)
	assert.Equal(t, []any{"a", nil, "c"}, row.Values())
}

func TestValuesToRow(t *testing.T) {
	row := ValuesToRow([]any{"x", nil, []byte("y"), int64(7)})
	assert.Equal(t, "x", row[0].String)
	assert.False(t, row[1].Valid)
	assert.Equal(t, "y", row[2].String)
	assert.Equal(t, "7", row[3].String)
}

func TestRecordSetHelpers(t *testing.T) {
	cols := []string{"id", "sexo"}
	rs := NewRecordSet(cols)
	cols[0] = "changed"
	assert.Equal(t, "id", rs.Columns[0])
	assert.Equal(t, 1, rs.ColumnIndex("sexo"))
	assert.Equal(t, -1, rs.ColumnIndex("missing"))

	var empty *RecordSet
	assert.Equal(t, 0, empty.Len())

	rs.Rows = []Row{StringsToRow([]string{"1", "M"}), StringsToRow([]string{"2", "F"})}
	sub := rs.Slice(1, 2)
	assert.Equal(t, 1, sub.Len())
	assert.Equal(t, "2", sub.Rows[0][0].String)
}
