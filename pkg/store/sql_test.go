package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/common/types"
)

func TestTierSchemas(t *testing.T) {
	assert.Equal(t, "bronze", TierRaw.Schema())
	assert.Equal(t, "silver", TierCleaned.Schema())
	assert.Equal(t, "gold", TierPublished.Schema())
	assert.Equal(t, "cleaned", TierCleaned.String())
	assert.Equal(t, "bronze.pessoas", TableRef{Tier: TierRaw, Name: "pessoas"}.String())
}

func TestCreateTableSQL(t *testing.T) {
	ref := TableRef{Tier: TierRaw, Name: "ocorrencias"}
	ddl, err := CreateTableSQL(ref, []string{"id", "data_inversa"})
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "bronze"."ocorrencias" ("id" TEXT, "data_inversa" TEXT)`, ddl)

	_, err = CreateTableSQL(ref, nil)
	assert.Error(t, err)

	_, err = CreateTableSQL(ref, []string{"id", " "})
	assert.Error(t, err)

	_, err = CreateTableSQL(ref, []string{"id", "uf", "ID"})
	assert.Error(t, err)
}

func TestValidateColumns(t *testing.T) {
	assert.NoError(t, ValidateColumns([]string{"id", "uf"}))
	assert.EqualError(t, ValidateColumns(nil), "no columns")
	assert.EqualError(t, ValidateColumns([]string{"id", "uf", ""}), "column 2 has an empty name")
	assert.EqualError(t, ValidateColumns([]string{"id", "uf", "Uf"}), `column 2 duplicates column 1 ("Uf")`)
}

func TestSelectSQLQuotesIdentifiers(t *testing.T) {
	ref := TableRef{Tier: TierCleaned, Name: "pessoas"}
	assert.Equal(t, `SELECT "id", "we""ird" FROM "silver"."pessoas"`, SelectSQL(ref, []string{"id", `we"ird`}))
	assert.Equal(t, `CREATE SCHEMA IF NOT EXISTS "gold"`, CreateSchemaSQL(TierPublished))
}

func TestCheckWidth(t *testing.T) {
	ref := TableRef{Tier: TierRaw, Name: "pessoas"}
	rs := types.NewRecordSet([]string{"a", "b"})
	rs.Rows = []types.Row{types.StringsToRow([]string{"1", "2"})}

	assert.NoError(t, CheckWidth(ref, []string{"x", "y"}, rs))
	assert.Error(t, CheckWidth(ref, nil, rs))
	assert.Error(t, CheckWidth(ref, []string{"x"}, rs))

	rs.Rows = append(rs.Rows, types.StringsToRow([]string{"1"}))
	assert.Error(t, CheckWidth(ref, []string{"x", "y"}, rs))
}
