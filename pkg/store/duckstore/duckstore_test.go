package duckstore

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/common/types"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/store"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Store{db: db, logger: logrus.WithField("component", "test")}, mock
}

func TestEnsureTable(t *testing.T) {
	s, mock := newMockStore(t)
	ref := store.TableRef{Tier: store.TierCleaned, Name: "pessoas"}

	mock.ExpectExec(regexp.QuoteMeta(`CREATE SCHEMA IF NOT EXISTS "silver"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "silver"."pessoas" ("id" TEXT, "sexo" TEXT)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.EnsureTable(context.Background(), ref, []string{"id", "sexo"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnsMissingTable(t *testing.T) {
	s, mock := newMockStore(t)
	ref := store.TableRef{Tier: store.TierRaw, Name: "pessoas"}

	mock.ExpectQuery("SELECT column_name FROM information_schema.columns").
		WithArgs("bronze", "pessoas").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))

	cols, err := s.Columns(context.Background(), ref)
	require.NoError(t, err)
	assert.Nil(t, cols)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRead(t *testing.T) {
	s, mock := newMockStore(t)
	ref := store.TableRef{Tier: store.TierCleaned, Name: "ocorrencias"}

	mock.ExpectQuery("SELECT column_name FROM information_schema.columns").
		WithArgs("silver", "ocorrencias").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id").AddRow("uf"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id", "uf" FROM "silver"."ocorrencias"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uf"}).
			AddRow("1", "SC").
			AddRow("2", nil))

	rs, err := s.Read(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "uf"}, rs.Columns)
	require.Equal(t, 2, rs.Len())
	assert.Equal(t, "SC", rs.Rows[0][1].String)
	assert.False(t, rs.Rows[1][1].Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadMissingTable(t *testing.T) {
	s, mock := newMockStore(t)
	ref := store.TableRef{Tier: store.TierCleaned, Name: "ocorrencias"}

	mock.ExpectQuery("SELECT column_name FROM information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))

	_, err := s.Read(context.Background(), ref)
	assert.Error(t, err)
}

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	ref := store.TableRef{Tier: store.TierRaw, Name: "ocorrencias"}
	require.NoError(t, s.EnsureTable(ctx, ref, []string{"id", "municipio", "uf"}))

	rs := types.NewRecordSet([]string{"id", "municipio", "uf"})
	rs.Rows = []types.Row{
		types.StringsToRow([]string{"1", "SÃO JOSÉ", "SC"}),
		types.StringsToRow([]string{"2", "", "RS"}),
	}
	n, err := s.Append(ctx, ref, rs)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	out, err := s.Read(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "municipio", "uf"}, out.Columns)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "SÃO JOSÉ", out.Rows[0][1].String)
	assert.False(t, out.Rows[1][1].Valid, "empty cell round-trips as NULL")
	assert.Equal(t, "RS", out.Rows[1][2].String)

	narrow := types.NewRecordSet([]string{"id"})
	narrow.Rows = []types.Row{types.StringsToRow([]string{"3"})}
	_, err = s.Append(ctx, ref, narrow)
	assert.Error(t, err)
}

func TestAppendFailedChunkLeavesNothing(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	ref := store.TableRef{Tier: store.TierCleaned, Name: "pessoas"}
	_, err := s.db.ExecContext(ctx, `CREATE SCHEMA IF NOT EXISTS silver`)
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, `CREATE TABLE silver.pessoas (id TEXT, sexo TEXT NOT NULL)`)
	require.NoError(t, err)

	chunk := func(rows ...[]string) *types.RecordSet {
		rs := types.NewRecordSet([]string{"id", "sexo"})
		for _, r := range rows {
			rs.Rows = append(rs.Rows, types.StringsToRow(r))
		}
		return rs
	}

	_, err = s.Append(ctx, ref, chunk([]string{"1", "Masculino"}, []string{"2", "Feminino"}))
	require.NoError(t, err)

	n, err := s.Append(ctx, ref, chunk([]string{"3", "Masculino"}, []string{"4", "Feminino"}, []string{"5", ""}))
	require.Error(t, err)
	assert.Zero(t, n)

	out, err := s.Read(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len(), "rows of the failed chunk must not persist")

	_, err = s.Append(ctx, ref, chunk([]string{"6", "Feminino"}))
	require.NoError(t, err, "connection is usable after a rollback")

	out, err = s.Read(ctx, ref)
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	assert.Equal(t, "6", out.Rows[2][0].String)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Append(cancelled, ref, chunk([]string{"7", "Masculino"}))
	assert.Error(t, err)

	out, err = s.Read(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())
}
