package sheet

// FreezeFormulas replaces every formula-bearing cell with its last
// computed value. The xlsx container caches each formula cell's computed
// result next to the formula, and the reader captures that cached result
// as the cell value, so freezing only has to drop the formula text. A
// formula the producing application never calculated leaves an empty
// value behind; that silent degradation is a documented limitation, not
// an error.
func FreezeFormulas(t *Table) {
	for _, row := range t.Rows {
		for i := range row.Cells {
			row.Cells[i].Formula = ""
		}
	}
}
