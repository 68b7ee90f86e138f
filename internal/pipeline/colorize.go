package pipeline

import (
	"strings"

	"github.com/tuvia-hanfatzot/fuels-app/internal/model"
	"github.com/tuvia-hanfatzot/fuels-app/internal/sheet"
)

// The colored span of each data row, columns A through G.
const (
	colorMinCol = 1
	colorMaxCol = 7
)

// Colorize paints each genuine category member with its category fill
// across columns A–G. Folded fallback-category rows keep the default
// fill, visually separating them from genuine members; rows with an
// unknown category get no fill at all.
func Colorize(t *sheet.Table, dataStart int, folds map[string]model.FoldInfo) {
	for r := dataStart; r <= t.RowCount(); r++ {
		key := strings.TrimSpace(t.Cell(r, colDescKey).Value)
		if folds[key].Folded {
			continue
		}
		fill, ok := model.Fills[model.NormalizeCategory(t.Cell(r, colCategory).Value)]
		if !ok {
			continue
		}
		for c := colorMinCol; c <= colorMaxCol; c++ {
			t.SetFill(r, c, fill)
		}
	}
}
