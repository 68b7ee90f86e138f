package pipeline

import (
	"strings"

	"github.com/tuvia-hanfatzot/fuels-app/internal/model"
	"github.com/tuvia-hanfatzot/fuels-app/internal/sheet"
)

// Categorize applies the legacy alias and the category fold rule to every
// data row, in original row order, and returns one FoldInfo per row.
//
// Alias: a category naming the retired UN-OHCHR program becomes a genuine
// INGOs member, with no agency rewrite.
//
// Fold: a non-empty category outside the canonical set is relocated into
// the agency field as a "<original> - " prefix (added only if not already
// present; bare "<original> -" when the agency is empty), the category
// cell is rewritten to the fallback category, and the record is marked
// folded. Folding runs before the description key is synthesized, so the
// key and everything derived from it see the final field values.
func Categorize(t *sheet.Table, dataStart, agencyCol int) []model.FoldInfo {
	folds := make([]model.FoldInfo, 0, t.RowCount())
	for r := dataStart; r <= t.RowCount(); r++ {
		raw := strings.TrimSpace(t.Cell(r, colCategory).Value)

		if model.IsLegacyAlias(raw) {
			t.SetValue(r, colCategory, model.FallbackCategory)
			folds = append(folds, model.FoldInfo{Category: model.FallbackCategory, Folded: false})
			continue
		}
		if raw == "" || model.IsCanonical(raw) {
			folds = append(folds, model.FoldInfo{Category: raw, Folded: false})
			continue
		}

		agency := strings.TrimSpace(t.Cell(r, agencyCol).Value)
		prefix := raw + " - "
		switch {
		case agency == "":
			t.SetValue(r, agencyCol, raw+" -")
		case !strings.HasPrefix(agency, prefix):
			t.SetValue(r, agencyCol, prefix+agency)
		}
		t.SetValue(r, colCategory, model.FallbackCategory)
		folds = append(folds, model.FoldInfo{Category: model.FallbackCategory, Folded: true})
	}
	return folds
}
