// Package store defines the relational store shared by every pipeline stage.
// The store holds three tiers (raw, cleaned, published), each a schema with
// one table per dataset category. All writes are appends.
package store

import (
	"context"
	"fmt"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/common/types"
)

// Tier is a data-quality stage.
type Tier int

const (
	TierRaw Tier = iota
	TierCleaned
	TierPublished
)

// Schema returns the schema name holding the tier's tables.
func (t Tier) Schema() string {
	switch t {
	case TierRaw:
		return "bronze"
	case TierCleaned:
		return "silver"
	case TierPublished:
		return "gold"
	}
	return fmt.Sprintf("tier%d", int(t))
}

func (t Tier) String() string {
	switch t {
	case TierRaw:
		return "raw"
	case TierCleaned:
		return "cleaned"
	case TierPublished:
		return "published"
	}
	return t.Schema()
}

// Tiers lists every tier in promotion order.
var Tiers = []Tier{TierRaw, TierCleaned, TierPublished}

// TableRef names one table in one tier.
type TableRef struct {
	Tier Tier
	Name string
}

func (r TableRef) String() string {
	return r.Tier.Schema() + "." + r.Name
}

// Store is the process-scoped handle to the relational engine.
type Store interface {
	// EnsureTable creates the tier schema and the table (all TEXT columns)
	// when missing. An existing table is left as is.
	EnsureTable(ctx context.Context, ref TableRef, columns []string) error
	// Columns returns the table's columns in ordinal order, or nil when the
	// table does not exist.
	Columns(ctx context.Context, ref TableRef) ([]string, error)
	// Append bulk-inserts rs positionally into the table's columns.
	Append(ctx context.Context, ref TableRef, rs *types.RecordSet) (int64, error)
	// Read returns every row of the table.
	Read(ctx context.Context, ref TableRef) (*types.RecordSet, error)
	Close() error
}
