package pipeline

import (
	"sort"
	"strings"

	"github.com/tuvia-hanfatzot/fuels-app/internal/model"
	"github.com/tuvia-hanfatzot/fuels-app/internal/sheet"
)

// SortRecords rewrites the data rows into the composite order: final
// category (case-insensitive, ascending), genuine members before folded
// ones, Unified Fuel descending, original row index ascending. The index
// tie-break makes the key total, so the result is deterministic and a
// re-sort of already-sorted data is a no-op.
func SortRecords(t *sheet.Table, dataStart int, folds map[string]model.FoldInfo) {
	type rec struct {
		row      int
		category string
		rank     int
		fuel     float64
	}

	recs := make([]rec, 0, t.RowCount())
	for r := dataStart; r <= t.RowCount(); r++ {
		key := strings.TrimSpace(t.Cell(r, colDescKey).Value)
		rank := 0
		if folds[key].Folded {
			rank = 1
		}
		recs = append(recs, rec{
			row:      r,
			category: strings.ToLower(strings.TrimSpace(t.Cell(r, colCategory).Value)),
			rank:     rank,
			fuel:     sheet.SafeFloat(t.Cell(r, colUnifiedFuel).Value),
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.category != b.category {
			return a.category < b.category
		}
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.fuel != b.fuel {
			return a.fuel > b.fuel
		}
		return a.row < b.row
	})

	order := make([]int, len(recs))
	for i, rc := range recs {
		order[i] = rc.row
	}
	t.ReorderData(dataStart, order)
}

// MergeCategoryRuns re-merges the category-total column over maximal runs
// of adjacent equal final categories. Runs of length one stay unmerged;
// each merged region shows the top row's value and style. Applied only
// after every data mutation is complete.
func MergeCategoryRuns(t *sheet.Table, dataStart int) {
	r := dataStart
	for r <= t.RowCount() {
		v := model.NormalizeCategory(t.Cell(r, colCategory).Value)
		if v == "" {
			r++
			continue
		}
		end := r
		for end+1 <= t.RowCount() && model.NormalizeCategory(t.Cell(end+1, colCategory).Value) == v {
			end++
		}
		if end > r {
			t.Merges = append(t.Merges, sheet.Region{
				MinRow: r, MinCol: colCatTotal, MaxRow: end, MaxCol: colCatTotal,
			})
		}
		r = end + 1
	}
}
