// Package postgres implements the store on PostgreSQL, appending through the
// COPY protocol.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/common/types"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/store"
)

// Store is a pgx-backed store.
type Store struct {
	pool   *pgxpool.Pool
	logger *logrus.Entry
}

var _ store.Store = (*Store)(nil)

// New connects to dsn and verifies the connection.
func New(ctx context.Context, dsn string, maxConns int) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	logger := logrus.WithField("component", "store.postgres")
	logger.WithField("host", cfg.ConnConfig.Host).Info("Connected to PostgreSQL")
	return &Store{pool: pool, logger: logger}, nil
}

func (s *Store) EnsureTable(ctx context.Context, ref store.TableRef, columns []string) error {
	ddl, err := store.CreateTableSQL(ref, columns)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, store.CreateSchemaSQL(ref.Tier)); err != nil {
		return fmt.Errorf("create schema %s: %w", ref.Tier.Schema(), err)
	}
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", ref, err)
	}
	return nil
}

func (s *Store) Columns(ctx context.Context, ref store.TableRef) ([]string, error) {
	rows, err := s.pool.Query(ctx, store.ColumnsSQL, ref.Tier.Schema(), ref.Name)
	if err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", ref, err)
	}
	cols, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", ref, err)
	}
	if len(cols) == 0 {
		return nil, nil
	}
	return cols, nil
}

// Append copies rs into the table with COPY FROM STDIN. The copy runs in its
// own implicit transaction: a failed append leaves nothing behind.
func (s *Store) Append(ctx context.Context, ref store.TableRef, rs *types.RecordSet) (int64, error) {
	cols, err := s.Columns(ctx, ref)
	if err != nil {
		return 0, err
	}
	if err := store.CheckWidth(ref, cols, rs); err != nil {
		return 0, err
	}

	src := pgx.CopyFromSlice(len(rs.Rows), func(i int) ([]any, error) {
		return rs.Rows[i].Values(), nil
	})
	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{ref.Tier.Schema(), ref.Name}, cols, src)
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", ref, err)
	}
	return n, nil
}

func (s *Store) Read(ctx context.Context, ref store.TableRef) (*types.RecordSet, error) {
	cols, err := s.Columns(ctx, ref)
	if err != nil {
		return nil, err
	}
	if cols == nil {
		return nil, fmt.Errorf("table %s does not exist", ref)
	}

	rows, err := s.pool.Query(ctx, store.SelectSQL(ref, cols))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ref, err)
	}
	defer rows.Close()

	out := types.NewRecordSet(cols)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
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
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
