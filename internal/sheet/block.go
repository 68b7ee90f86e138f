package sheet

// CopyBlock copies the rectangular block [r1,c1]..[r2,c2] of src into dst
// with its top-left corner at (dstRow, dstCol): values, styles and row
// heights, plus any merged region fully contained in the block. Live
// formulas are never copied; the cached value wins.
func CopyBlock(dst, src *Table, dstRow, dstCol, r1, c1, r2, c2 int) {
	for r := r1; r <= r2; r++ {
		tr := dstRow + r - r1
		for c := c1; c <= c2; c++ {
			cell := src.Cell(r, c)
			cell.Formula = ""
			dst.SetCell(tr, dstCol+c-c1, cell)
		}
		if r <= src.RowCount() {
			if h := src.Rows[r-1].Height; h > 0 {
				dst.ensureRow(tr).Height = h
			}
		}
	}
	for _, m := range src.Merges {
		if m.MinRow < r1 || m.MaxRow > r2 || m.MinCol < c1 || m.MaxCol > c2 {
			continue
		}
		dst.Merges = append(dst.Merges, Region{
			MinRow: dstRow + m.MinRow - r1,
			MinCol: dstCol + m.MinCol - c1,
			MaxRow: dstRow + m.MaxRow - r1,
			MaxCol: dstCol + m.MaxCol - c1,
		})
	}
}
