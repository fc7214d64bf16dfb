package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorsAreTotal(t *testing.T) {
	seen := map[Category]bool{}
	for _, d := range All() {
		seen[d.Category] = true
		assert.NotEmpty(t, d.Suffix)
		assert.NotEmpty(t, d.RawTable)
		assert.NotEmpty(t, d.CleanedTable)
		assert.NotEmpty(t, d.PublishedTable)
		assert.NotEmpty(t, d.CanonicalColumns)
		assert.NotNil(t, d.Rename)
	}
	assert.Len(t, seen, 3)

	for _, c := range []Category{Occurrences, Causes, People} {
		assert.Equal(t, c, Lookup(c).Category)
	}
}

func TestCanonicalColumnsAreUnique(t *testing.T) {
	for _, d := range All() {
		names := map[string]bool{}
		for _, c := range d.CanonicalColumns {
			require.False(t, names[c], "%s: duplicate column %s", d.Category, c)
			names[c] = true
		}
	}
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "2021_ocorrencias.csv", Lookup(Occurrences).CanonicalName(2021))
	assert.Equal(t, "2019_causas.csv", Lookup(Causes).CanonicalName(2019))
	assert.Equal(t, "2024_pessoas.csv", Lookup(People).CanonicalName(2024))
}

func TestParse(t *testing.T) {
	c, err := Parse("pessoas")
	require.NoError(t, err)
	assert.Equal(t, People, c)

	c, err = Parse(" Occurrences ")
	require.NoError(t, err)
	assert.Equal(t, Occurrences, c)

	_, err = Parse("vehicles")
	assert.Error(t, err)
}

func TestPositional(t *testing.T) {
	out, err := Positional([]string{"a", "b"}, []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, out)

	_, err = Positional([]string{"a"}, []string{"x", "y"})
	assert.True(t, errors.Is(err, ErrColumnMismatch))
}
