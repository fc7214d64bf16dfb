// Package duckstore implements the store on a local DuckDB database file,
// appending through the DuckDB Appender API.
package duckstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
	"github.com/sirupsen/logrus"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/common/types"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/store"
)

// Store is a DuckDB-backed store. DDL and reads go through db; appends go
// through a native connection opened from the same connector.
type Store struct {
	connector  *duckdb.Connector
	db         *sql.DB
	nativeConn *duckdb.Conn
	logger     *logrus.Entry
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database at path. An empty path opens an
// in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	connector, err := duckdb.NewConnector(path, nil)
	if err != nil {
		return nil, fmt.Errorf("create duckdb connector: %w", err)
	}

	db := sql.OpenDB(connector)

	conn, err := connector.Connect(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to get native connection: %w", err)
	}
	duckConn, ok := conn.(*duckdb.Conn)
	if !ok {
		conn.Close()
		db.Close()
		return nil, fmt.Errorf("failed to cast to *duckdb.Conn")
	}

	logger := logrus.WithField("component", "store.duckdb")
	logger.WithField("path", path).Info("Opened DuckDB database")
	return &Store{connector: connector, db: db, nativeConn: duckConn, logger: logger}, nil
}

func (s *Store) EnsureTable(ctx context.Context, ref store.TableRef, columns []string) error {
	ddl, err := store.CreateTableSQL(ref, columns)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, store.CreateSchemaSQL(ref.Tier)); err != nil {
		return fmt.Errorf("create schema %s: %w", ref.Tier.Schema(), err)
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", ref, err)
	}
	return nil
}

func (s *Store) Columns(ctx context.Context, ref store.TableRef) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, store.ColumnsSQL, ref.Tier.Schema(), ref.Name)
	if err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", ref, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list columns of %s: %w", ref, err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", ref, err)
	}
	return cols, nil
}

// Append writes rs with a short-lived appender inside a transaction on the
// native connection. The appender flushes on Close and whenever a data chunk
// fills, so a failed chunk is rolled back rather than left half written.
func (s *Store) Append(ctx context.Context, ref store.TableRef, rs *types.RecordSet) (int64, error) {
	cols, err := s.Columns(ctx, ref)
	if err != nil {
		return 0, err
	}
	if err := store.CheckWidth(ref, cols, rs); err != nil {
		return 0, err
	}

	tx, err := s.nativeConn.BeginTx(ctx, driver.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin append to %s: %w", ref, err)
	}
	if err := s.appendRows(ctx, ref, len(cols), rs); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.WithError(rbErr).WithField("table", ref.String()).Warn("Rollback failed")
		}
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append to %s: %w", ref, err)
	}
	return int64(len(rs.Rows)), nil
}

func (s *Store) appendRows(ctx context.Context, ref store.TableRef, width int, rs *types.RecordSet) error {
	appender, err := duckdb.NewAppenderFromConn(s.nativeConn, ref.Tier.Schema(), ref.Name)
	if err != nil {
		return fmt.Errorf("failed to create appender for table %s: %w", ref, err)
	}

	values := make([]driver.Value, width)
	for i, row := range rs.Rows {
		if err := ctx.Err(); err != nil {
			appender.Close()
			return err
		}
		for j, cell := range row {
			if cell.Valid {
				values[j] = cell.String
			} else {
				values[j] = nil
			}
		}
		if err := appender.AppendRow(values...); err != nil {
			appender.Close()
			return fmt.Errorf("append row %d to %s: %w", i, ref, err)
		}
	}

	if err := appender.Close(); err != nil {
		return fmt.Errorf("flush appender for %s: %w", ref, err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, ref store.TableRef) (*types.RecordSet, error) {
	cols, err := s.Columns(ctx, ref)
	if err != nil {
		return nil, err
	}
	if cols == nil {
		return nil, fmt.Errorf("table %s does not exist", ref)
	}

	rows, err := s.db.QueryContext(ctx, store.SelectSQL(ref, cols))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ref, err)
	}
	defer rows.Close()

	out := types.NewRecordSet(cols)
	values := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("read %s: %w", ref, err)
		}
		out.Rows = append(out.Rows, types.ValuesToRow(values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", ref, err)
	}
	return out, nil
}

func (s *Store) Close() error {
	if s.nativeConn != nil {
		if err := s.nativeConn.Close(); err != nil {
			s.logger.WithError(err).Warn("Closing native connection")
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
