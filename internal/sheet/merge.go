package sheet

import "strings"

// UnmergeAndFill dissolves every merged region whose column span
// intersects the inclusive range [lo, hi] and stamps the region's
// top-left value, formula and style into every cell the region covered.
// No information is lost and a second run is a no-op, since no merges
// remain in range.
func UnmergeAndFill(t *Table, lo, hi int) {
	var kept []Region
	for _, m := range t.Merges {
		if m.MaxCol < lo || m.MinCol > hi {
			kept = append(kept, m)
			continue
		}
		tl := t.Cell(m.MinRow, m.MinCol)
		for r := m.MinRow; r <= m.MaxRow; r++ {
			for c := m.MinCol; c <= m.MaxCol; c++ {
				cell := t.Cell(r, c)
				cell.Value = tl.Value
				cell.Formula = tl.Formula
				cell.StyleID = tl.StyleID
				t.SetCell(r, c, cell)
			}
		}
	}
	t.Merges = kept
}

// MergeRuns re-establishes presentation merges in one column by grouping
// maximal runs of identical adjacent non-blank values, from startRow
// down. Singleton groups stay unmerged.
func MergeRuns(t *Table, col, startRow int) {
	r := startRow
	for r <= t.RowCount() {
		v := strings.TrimSpace(t.Cell(r, col).Value)
		if v == "" {
			r++
			continue
		}
		end := r
		for end+1 <= t.RowCount() && strings.TrimSpace(t.Cell(end+1, col).Value) == v {
			end++
		}
		if end > r {
			t.Merges = append(t.Merges, Region{MinRow: r, MinCol: col, MaxRow: end, MaxCol: col})
		}
		r = end + 1
	}
}

// MergeDownBlanks merges each non-blank cell in the column down through
// the blank cells that follow it, stopping at the next non-blank value or
// the end of data. Rows already covered by a merge in the same column are
// left alone so the result never overlaps earlier presentation merges.
func MergeDownBlanks(t *Table, col, startRow int) {
	covered := make(map[int]bool)
	for _, m := range t.Merges {
		if m.MinCol > col || m.MaxCol < col {
			continue
		}
		for r := m.MinRow; r <= m.MaxRow; r++ {
			covered[r] = true
		}
	}

	r := startRow
	for r <= t.RowCount() {
		if covered[r] || IsBlank(t.Cell(r, col).Value) {
			r++
			continue
		}
		end := r
		for end+1 <= t.RowCount() && !covered[end+1] && IsBlank(t.Cell(end+1, col).Value) {
			end++
		}
		if end > r {
			t.Merges = append(t.Merges, Region{MinRow: r, MinCol: col, MaxRow: end, MaxCol: col})
		}
		r = end + 1
	}
}
