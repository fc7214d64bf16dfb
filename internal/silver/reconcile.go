package silver

import (
	"fmt"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/common/types"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/dataset"
)

// Reconcile renames the raw columns of rs to the descriptor's canonical
// column list. Rows are shared with rs, not copied. A header whose width
// differs from the canonical list fails with dataset.ErrColumnMismatch.
func Reconcile(d dataset.Descriptor, rs *types.RecordSet) (*types.RecordSet, error) {
	rename := d.Rename
	if rename == nil {
		rename = dataset.Positional
	}
	columns, err := rename(rs.Columns, d.CanonicalColumns)
	if err != nil {
		return nil, fmt.Errorf("reconcile %s: %w", d.Category, err)
	}
	for i, row := range rs.Rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("reconcile %s: row %d: %w: has %d cells, want %d",
				d.Category, i, dataset.ErrColumnMismatch, len(row), len(columns))
		}
	}
	return &types.RecordSet{Columns: columns, Rows: rs.Rows}, nil
}
