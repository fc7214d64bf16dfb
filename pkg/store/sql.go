package store

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/common/types"
)

// QuotedName returns the schema-qualified, quoted table name.
func QuotedName(ref TableRef) string {
	return pq.QuoteIdentifier(ref.Tier.Schema()) + "." + pq.QuoteIdentifier(ref.Name)
}

// CreateSchemaSQL returns the DDL creating the tier schema.
func CreateSchemaSQL(t Tier) string {
	return "CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(t.Schema())
}

// ValidateColumns checks that columns can name a table's columns: at least
// one, none blank and no duplicates. DuckDB folds identifier case, so
// duplicates are compared case-insensitively.
func ValidateColumns(columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("no columns")
	}
	seen := make(map[string]int, len(columns))
	for i, c := range columns {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("column %d has an empty name", i)
		}
		key := strings.ToLower(c)
		if j, ok := seen[key]; ok {
			return fmt.Errorf("column %d duplicates column %d (%q)", i, j, c)
		}
		seen[key] = i
	}
	return nil
}

// CreateTableSQL returns the DDL creating a table whose columns are all TEXT.
func CreateTableSQL(ref TableRef, columns []string) (string, error) {
	if err := ValidateColumns(columns); err != nil {
		return "", fmt.Errorf("table %s: %w", ref, err)
	}
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pq.QuoteIdentifier(c) + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", QuotedName(ref), strings.Join(defs, ", ")), nil
}

// SelectSQL returns a query reading the given columns of a table.
func SelectSQL(ref TableRef, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pq.QuoteIdentifier(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), QuotedName(ref))
}

// ColumnsSQL lists a table's columns through information_schema. Both
// supported engines accept $n placeholders.
const ColumnsSQL = `SELECT column_name FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position`

// CheckWidth verifies that rs lines up with the table's columns. Appends are
// positional, so only the width can be checked.
func CheckWidth(ref TableRef, tableColumns []string, rs *types.RecordSet) error {
	if tableColumns == nil {
		return fmt.Errorf("table %s does not exist", ref)
	}
	if len(rs.Columns) != len(tableColumns) {
		return fmt.Errorf("table %s has %d columns, record set has %d", ref, len(tableColumns), len(rs.Columns))
	}
	for i, row := range rs.Rows {
		if len(row) != len(tableColumns) {
			return fmt.Errorf("table %s: row %d has %d values, expected %d", ref, i, len(row), len(tableColumns))
		}
	}
	return nil
}
