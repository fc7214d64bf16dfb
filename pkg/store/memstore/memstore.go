// Package memstore is an in-memory store used by stage tests and dry runs.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/common/types"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/store"
)

type table struct {
	columns []string
	rows    []types.Row
}

// Store keeps tables in memory. AppendHook, when set, runs before every
// append and can fail it.
type Store struct {
	mu     sync.Mutex
	tables map[string]*table
	closed bool

	AppendHook func(ref store.TableRef, rs *types.RecordSet) error
	// Appends records the size of every successful append, per table.
	Appends map[string][]int
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{tables: map[string]*table{}, Appends: map[string][]int{}}
}

func (s *Store) EnsureTable(_ context.Context, ref store.TableRef, columns []string) error {
	if _, err := store.CreateTableSQL(ref, columns); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[ref.String()]; !ok {
		cols := make([]string, len(columns))
		copy(cols, columns)
		s.tables[ref.String()] = &table{columns: cols}
	}
	return nil
}

func (s *Store) Columns(_ context.Context, ref store.TableRef) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[ref.String()]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), t.columns...), nil
}

func (s *Store) Append(ctx context.Context, ref store.TableRef, rs *types.RecordSet) (int64, error) {
	cols, _ := s.Columns(ctx, ref)
	if err := store.CheckWidth(ref, cols, rs); err != nil {
		return 0, err
	}
	if s.AppendHook != nil {
		if err := s.AppendHook(ref, rs); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tables[ref.String()]
	for _, row := range rs.Rows {
		t.rows = append(t.rows, append(types.Row(nil), row...))
	}
	s.Appends[ref.String()] = append(s.Appends[ref.String()], len(rs.Rows))
	return int64(len(rs.Rows)), nil
}

func (s *Store) Read(_ context.Context, ref store.TableRef) (*types.RecordSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[ref.String()]
	if !ok {
		return nil, fmt.Errorf("table %s does not exist", ref)
	}
	out := types.NewRecordSet(t.columns)
	for _, row := range t.rows {
		out.Rows = append(out.Rows, append(types.Row(nil), row...))
	}
	return out, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
