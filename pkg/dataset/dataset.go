// Package dataset describes the three fixed PRF accident datasets and the
// per-category bindings (directories, table names, canonical columns) that
// every pipeline stage consults.
package dataset

import (
	"fmt"
	"strings"
)

// Category is one of the fixed logical datasets.
type Category int

const (
	Occurrences Category = iota
	Causes
	People
)

func (c Category) String() string {
	switch c {
	case Occurrences:
		return "occurrences"
	case Causes:
		return "causes"
	case People:
		return "people"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Descriptor binds a category to its on-disk layout, its tables and its
// canonical column list.
type Descriptor struct {
	Category Category
	// Suffix names both the category directory and the canonical file suffix.
	Suffix           string
	RawTable         string
	CleanedTable     string
	PublishedTable   string
	CanonicalColumns []string
	Rename           RenameRule
}

// CanonicalName returns "{year}_{suffix}.csv".
func (d Descriptor) CanonicalName(year int) string {
	return fmt.Sprintf("%04d_%s.csv", year, d.Suffix)
}

var descriptors = []Descriptor{
	{
		Category:         Occurrences,
		Suffix:           "ocorrencias",
		RawTable:         "ocorrencias",
		CleanedTable:     "ocorrencias",
		PublishedTable:   "ocorrencias",
		CanonicalColumns: occurrenceColumns,
		Rename:           Positional,
	},
	{
		Category:         Causes,
		Suffix:           "causas",
		RawTable:         "acidentes_todas_causas",
		CleanedTable:     "acidentes_todas_causas",
		PublishedTable:   "acidentes_todas_causas",
		CanonicalColumns: causeColumns,
		Rename:           Positional,
	},
	{
		Category:         People,
		Suffix:           "pessoas",
		RawTable:         "pessoas",
		CleanedTable:     "pessoas",
		PublishedTable:   "pessoas",
		CanonicalColumns: peopleColumns,
		Rename:           Positional,
	},
}

// All returns the descriptors in processing order.
func All() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Lookup returns the descriptor for c. The mapping is total.
func Lookup(c Category) Descriptor {
	for _, d := range descriptors {
		if d.Category == c {
			return d
		}
	}
	panic(fmt.Sprintf("dataset: no descriptor for %s", c))
}

// Parse resolves a category from its name or directory suffix.
func Parse(name string) (Category, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, d := range descriptors {
		if n == d.Category.String() || n == d.Suffix {
			return d.Category, nil
		}
	}
	return 0, fmt.Errorf("unknown dataset category %q", name)
}
