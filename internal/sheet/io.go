package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// StyleTransfer translates style indices from source workbooks into the
// output workbook, memoized per (source, style) pair so shared styles are
// created once.
type StyleTransfer struct {
	dst   *excelize.File
	cache map[*excelize.File]map[int]int
}

// NewStyleTransfer creates a transfer targeting the output workbook.
func NewStyleTransfer(dst *excelize.File) *StyleTransfer {
	return &StyleTransfer{
		dst:   dst,
		cache: make(map[*excelize.File]map[int]int),
	}
}

// Translate maps a source workbook style index to an equivalent style in
// the output workbook. Style 0 (the default) and unreadable styles map
// to 0.
func (st *StyleTransfer) Translate(src *excelize.File, id int) int {
	if id == 0 {
		return 0
	}
	byID, ok := st.cache[src]
	if !ok {
		byID = make(map[int]int)
		st.cache[src] = byID
	}
	if out, ok := byID[id]; ok {
		return out
	}
	style, err := src.GetStyle(id)
	if err != nil || style == nil {
		byID[id] = 0
		return 0
	}
	out, err := st.dst.NewStyle(style)
	if err != nil {
		out = 0
	}
	byID[id] = out
	return out
}

// ReadSheet loads one worksheet into a Table. Values are read raw (no
// number formatting applied); formula cells carry both their cached
// result as the value and the formula text for the freezer. Styles are
// translated into the output workbook immediately, so the resulting
// table is bound to the transfer's destination file.
func ReadSheet(f *excelize.File, sheetName string, st *StyleTransfer) (*Table, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	maxCol := 0
	for _, r := range rows {
		if len(r) > maxCol {
			maxCol = len(r)
		}
	}

	t := NewTable()
	for r := 1; r <= len(rows); r++ {
		row := t.ensureRow(r)
		if h, err := f.GetRowHeight(sheetName, r); err == nil && h > 0 {
			row.Height = h
		}
		for c := 1; c <= maxCol; c++ {
			name, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				continue
			}
			cell := Cell{}
			if c <= len(rows[r-1]) {
				cell.Value = rows[r-1][c-1]
			}
			if formula, err := f.GetCellFormula(sheetName, name); err == nil && formula != "" {
				cell.Formula = formula
			}
			if id, err := f.GetCellStyle(sheetName, name); err == nil {
				cell.StyleID = st.Translate(f, id)
			}
			t.SetCell(r, c, cell)
		}
	}

	for c := 1; c <= maxCol; c++ {
		colName, err := excelize.ColumnNumberToName(c)
		if err != nil {
			continue
		}
		if w, err := f.GetColWidth(sheetName, colName); err == nil && w > 0 {
			t.ColWidths[c] = w
		}
	}

	merged, err := f.GetMergeCells(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read merges of %q: %w", sheetName, err)
	}
	for _, m := range merged {
		c1, r1, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			continue
		}
		c2, r2, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			continue
		}
		t.Merges = append(t.Merges, Region{MinRow: r1, MinCol: c1, MaxRow: r2, MaxCol: c2})
	}

	return t, nil
}

// WriteSheet materializes a table into a worksheet of the workbook the
// table's styles belong to: values (numbers typed as numbers), styles
// with fill overrides resolved, column widths, row heights, then merges
// last, once all cell content is final.
func WriteSheet(f *excelize.File, sheetName string, t *Table) error {
	fills := newFillCache(f)

	for r := 1; r <= t.RowCount(); r++ {
		row := t.Rows[r-1]
		if row.Height > 0 {
			if err := f.SetRowHeight(sheetName, r, row.Height); err != nil {
				return fmt.Errorf("set row height %d: %w", r, err)
			}
		}
		for c := 1; c <= len(row.Cells); c++ {
			cell := row.Cells[c-1]
			name, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return err
			}
			styleID := cell.StyleID
			if cell.Fill != "" {
				styleID = fills.withFill(styleID, cell.Fill)
			}
			if styleID != 0 {
				if err := f.SetCellStyle(sheetName, name, name, styleID); err != nil {
					return fmt.Errorf("set style %s: %w", name, err)
				}
			}
			if cell.Value == "" {
				continue
			}
			if v, ok := StrictFloat(cell.Value); ok {
				err = f.SetCellValue(sheetName, name, v)
			} else {
				err = f.SetCellValue(sheetName, name, cell.Value)
			}
			if err != nil {
				return fmt.Errorf("set value %s: %w", name, err)
			}
		}
	}

	for c, w := range t.ColWidths {
		colName, err := excelize.ColumnNumberToName(c)
		if err != nil {
			continue
		}
		if err := f.SetColWidth(sheetName, colName, colName, w); err != nil {
			return fmt.Errorf("set width of %s: %w", colName, err)
		}
	}

	for _, m := range t.Merges {
		h, err := excelize.CoordinatesToCellName(m.MinCol, m.MinRow)
		if err != nil {
			continue
		}
		v, err := excelize.CoordinatesToCellName(m.MaxCol, m.MaxRow)
		if err != nil {
			continue
		}
		if err := f.MergeCell(sheetName, h, v); err != nil {
			return fmt.Errorf("merge %s:%s: %w", h, v, err)
		}
	}

	return nil
}

// fillCache derives "same style, different fill" variants, memoized per
// (base style, color).
type fillCache struct {
	f   *excelize.File
	ids map[fillKey]int
}

type fillKey struct {
	base int
	argb string
}

func newFillCache(f *excelize.File) *fillCache {
	return &fillCache{f: f, ids: make(map[fillKey]int)}
}

func (fc *fillCache) withFill(base int, argb string) int {
	key := fillKey{base: base, argb: argb}
	if id, ok := fc.ids[key]; ok {
		return id
	}
	style := &excelize.Style{}
	if base != 0 {
		if s, err := fc.f.GetStyle(base); err == nil && s != nil {
			style = s
		}
	}
	style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{argb}}
	id, err := fc.f.NewStyle(style)
	if err != nil {
		id = base
	}
	fc.ids[key] = id
	return id
}
