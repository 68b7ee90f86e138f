package sheet

// Cell is one table cell: the raw stored value (numbers unformatted; a
// formula cell holds the container's cached result), the formula text it
// carried before freezing, a style index valid in the output workbook,
// and an optional ARGB fill override applied when the table is
// materialized.
type Cell struct {
	Value   string
	Formula string
	StyleID int
	Fill    string
}

// Row is an ordered run of cells plus the row height (0 = default).
type Row struct {
	Cells  []Cell
	Height float64
}

// Region is a merged cell range, 1-based inclusive on both axes.
type Region struct {
	MinRow, MinCol, MaxRow, MaxCol int
}

// Table is the in-memory sheet model the pipeline mutates. Every
// structural edit (row/column insert and delete, reorder, merge
// bookkeeping) happens here; the excelize workbook is written exactly
// once, after all transforms have run, so cascading index shifts in the
// container can never occur.
type Table struct {
	Rows      []*Row
	Merges    []Region
	ColWidths map[int]float64
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{ColWidths: make(map[int]float64)}
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// ColCount returns the widest row's cell count.
func (t *Table) ColCount() int {
	n := 0
	for _, r := range t.Rows {
		if len(r.Cells) > n {
			n = len(r.Cells)
		}
	}
	return n
}

// Cell returns the cell at 1-based (row, col), or the zero Cell when the
// coordinates fall outside the table.
func (t *Table) Cell(r, c int) Cell {
	if r < 1 || r > len(t.Rows) || c < 1 {
		return Cell{}
	}
	row := t.Rows[r-1]
	if c > len(row.Cells) {
		return Cell{}
	}
	return row.Cells[c-1]
}

// SetCell writes the cell at 1-based (row, col), growing the table as
// needed.
func (t *Table) SetCell(r, c int, cell Cell) {
	row := t.ensureRow(r)
	for len(row.Cells) < c {
		row.Cells = append(row.Cells, Cell{})
	}
	row.Cells[c-1] = cell
}

// SetValue replaces only the value at (row, col), keeping style.
func (t *Table) SetValue(r, c int, v string) {
	cell := t.Cell(r, c)
	cell.Value = v
	t.SetCell(r, c, cell)
}

// SetFill sets the fill override at (row, col).
func (t *Table) SetFill(r, c int, argb string) {
	cell := t.Cell(r, c)
	cell.Fill = argb
	t.SetCell(r, c, cell)
}

func (t *Table) ensureRow(r int) *Row {
	for len(t.Rows) < r {
		t.Rows = append(t.Rows, &Row{})
	}
	return t.Rows[r-1]
}

// InsertCol inserts an empty column before 1-based position c. Merges and
// column widths at or right of c shift right; a merge spanning c widens.
func (t *Table) InsertCol(c int) {
	for _, row := range t.Rows {
		if len(row.Cells) < c-1 {
			continue
		}
		row.Cells = append(row.Cells, Cell{})
		copy(row.Cells[c:], row.Cells[c-1:])
		row.Cells[c-1] = Cell{}
	}
	for i := range t.Merges {
		if t.Merges[i].MinCol >= c {
			t.Merges[i].MinCol++
		}
		if t.Merges[i].MaxCol >= c {
			t.Merges[i].MaxCol++
		}
	}
	widths := make(map[int]float64, len(t.ColWidths))
	for col, w := range t.ColWidths {
		if col >= c {
			col++
		}
		widths[col] = w
	}
	t.ColWidths = widths
}

// DeleteCol removes 1-based column c. Merges shrink or disappear; a merge
// reduced to a single cell is dropped.
func (t *Table) DeleteCol(c int) {
	for _, row := range t.Rows {
		if len(row.Cells) < c {
			continue
		}
		row.Cells = append(row.Cells[:c-1], row.Cells[c:]...)
	}
	merges := t.Merges[:0]
	for _, m := range t.Merges {
		if m.MinCol > c {
			m.MinCol--
		}
		if m.MaxCol >= c {
			m.MaxCol--
		}
		if m.MaxCol < m.MinCol {
			continue
		}
		if m.MinRow == m.MaxRow && m.MinCol == m.MaxCol {
			continue
		}
		merges = append(merges, m)
	}
	t.Merges = merges

	widths := make(map[int]float64, len(t.ColWidths))
	for col, w := range t.ColWidths {
		if col == c {
			continue
		}
		if col > c {
			col--
		}
		widths[col] = w
	}
	t.ColWidths = widths
}

// FilterRows rebuilds the table keeping only rows the predicate accepts;
// rows above `from` are always kept. The surviving set is computed first
// and materialized once, so merge coordinates are remapped without any
// intermediate shifted state.
func (t *Table) FilterRows(from int, keep func(r int) bool) {
	idx := make([]int, len(t.Rows)+1)
	kept := make([]*Row, 0, len(t.Rows))
	for r := 1; r <= len(t.Rows); r++ {
		if r < from || keep(r) {
			kept = append(kept, t.Rows[r-1])
			idx[r] = len(kept)
		}
	}
	t.Rows = kept

	merges := t.Merges[:0]
	for _, m := range t.Merges {
		minR, maxR := 0, 0
		for r := m.MinRow; r <= m.MaxRow && r < len(idx); r++ {
			if idx[r] == 0 {
				continue
			}
			if minR == 0 {
				minR = idx[r]
			}
			maxR = idx[r]
		}
		if minR == 0 {
			continue
		}
		if minR == maxR && m.MinCol == m.MaxCol {
			continue
		}
		merges = append(merges, Region{MinRow: minR, MinCol: m.MinCol, MaxRow: maxR, MaxCol: m.MaxCol})
	}
	t.Merges = merges
}

// DeleteRow removes a single 1-based row.
func (t *Table) DeleteRow(r int) {
	t.FilterRows(1, func(rr int) bool { return rr != r })
}

// ReorderData rewrites the rows from `from` down in the order given by
// `order`, a permutation of original 1-based row indices. Merges touching
// the reordered region cannot survive a permutation and are dropped;
// presentation merges are reconstructed afterwards by the run mergers.
func (t *Table) ReorderData(from int, order []int) {
	rows := make([]*Row, 0, len(order))
	for _, r := range order {
		rows = append(rows, t.Rows[r-1])
	}
	t.Rows = append(t.Rows[:from-1], rows...)

	merges := t.Merges[:0]
	for _, m := range t.Merges {
		if m.MaxRow >= from {
			continue
		}
		merges = append(merges, m)
	}
	t.Merges = merges
}
