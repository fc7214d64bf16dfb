package silver

import (
	"strconv"
	"strings"

	"github.com/guregu/null"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/common/types"
)

// Columns the cleaner looks at. The snake case year column is the name
// used by older releases.
const (
	SexColumn            = "sexo"
	VehicleYearColumn    = "anoFabricacaoVeiculo"
	LegacyVehicleYearCol = "ano_fabricacao_veiculo"
)

var unknownSex = map[string]bool{
	"Ignorado":      true,
	"Não Informado": true,
}

// Placeholder manufacturing years used by the source for "unknown".
var placeholderYears = map[int]bool{1900: true, 1901: true, 1917: true, 0: true}

// Clean returns a copy of rs with placeholder values replaced by NULL:
// unknown sex labels and placeholder vehicle manufacturing years. Every
// other cell is copied unchanged and rs is left untouched. Clean is
// idempotent.
func Clean(rs *types.RecordSet) *types.RecordSet {
	out := types.NewRecordSet(rs.Columns)
	out.Rows = make([]types.Row, len(rs.Rows))

	sex := rs.ColumnIndex(SexColumn)
	years := []int{rs.ColumnIndex(VehicleYearColumn), rs.ColumnIndex(LegacyVehicleYearCol)}

	for i, row := range rs.Rows {
		cleaned := make(types.Row, len(row))
		copy(cleaned, row)
		if sex >= 0 && sex < len(cleaned) && cleaned[sex].Valid && unknownSex[cleaned[sex].String] {
			cleaned[sex] = null.String{}
		}
		for _, idx := range years {
			if idx >= 0 && idx < len(cleaned) && cleaned[idx].Valid && isPlaceholderYear(cleaned[idx].String) {
				cleaned[idx] = null.String{}
			}
		}
		out.Rows[i] = cleaned
	}
	return out
}

// isPlaceholderYear matches "1917" as well as float renderings like "1917.0".
func isPlaceholderYear(v string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f != float64(int(f)) {
		return false
	}
	return placeholderYears[int(f)]
}
