package gold

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/common/types"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/dataset"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/store"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/store/memstore"
)

func TestPromoteCopiesVerbatim(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	src := store.TableRef{Tier: store.TierCleaned, Name: "acidentes_todas_causas"}
	rs := types.NewRecordSet([]string{"id", "sexo"})
	rs.Rows = append(rs.Rows,
		types.StringsToRow([]string{"1", ""}),
		types.StringsToRow([]string{"2", "Masculino"}),
		types.StringsToRow([]string{"3", "Feminino"}),
	)
	require.NoError(t, st.EnsureTable(ctx, src, rs.Columns))
	_, err := st.Append(ctx, src, rs)
	require.NoError(t, err)

	p := NewPromoter(st, 2)
	report, err := p.Promote(ctx, dataset.Causes)
	require.NoError(t, err)
	assert.EqualValues(t, 3, report.Appended())

	dst := store.TableRef{Tier: store.TierPublished, Name: "acidentes_todas_causas"}
	assert.Equal(t, []int{2, 1}, st.Appends[dst.String()])
	published, err := st.Read(ctx, dst)
	require.NoError(t, err)
	assert.Equal(t, rs, published)

	assert.EqualValues(t, 3, p.GetStats().Stats["rows"])
}

func TestPromoteAllSkipsMissingTables(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	src := store.TableRef{Tier: store.TierCleaned, Name: "pessoas"}
	require.NoError(t, st.EnsureTable(ctx, src, []string{"id"}))

	reports, err := NewPromoter(st, 0).PromoteAll(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "gold.pessoas", reports[0].Table.String())
	assert.Zero(t, reports[0].Rows)
}
