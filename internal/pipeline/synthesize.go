package pipeline

import (
	"fmt"
	"strings"

	"github.com/tuvia-hanfatzot/fuels-app/internal/model"
	"github.com/tuvia-hanfatzot/fuels-app/internal/sheet"
)

// Column geometry of the cleaned sheet, 1-based. The raw layout is the
// combined table; the final layout applies once the raw fuel columns are
// deleted and the derived columns inserted.
const (
	colCategory = 1

	colRawFuelD   = 4
	colRawFuelE   = 5
	colFuelSumRaw = 6

	colFuelSum     = 4 // Fuel sum, after D and E are deleted
	colDescKey     = 5 // Description Sum
	colUnifiedFuel = 6 // Unified Fuel
	colCatTotal    = 7 // Total Sum Per Category
)

// SynthesizeFuelSum writes the per-row fuel sum into column F: the sum of
// the two raw fuel columns D and E, blank when both are blank. The header
// is styled from D's header and the column width taken from E, falling
// back to D; each data cell is styled from its row's D cell, falling back
// to E when D is blank.
func SynthesizeFuelSum(t *sheet.Table, headerRow int) {
	ref := t.Cell(headerRow, colRawFuelD)
	t.SetCell(headerRow, colFuelSumRaw, sheet.Cell{Value: "Fuel sum", StyleID: ref.StyleID})
	if w, ok := t.ColWidths[colRawFuelE]; ok {
		t.ColWidths[colFuelSumRaw] = w
	} else if w, ok := t.ColWidths[colRawFuelD]; ok {
		t.ColWidths[colFuelSumRaw] = w
	}

	for r := headerRow + 1; r <= t.RowCount(); r++ {
		d := t.Cell(r, colRawFuelD)
		e := t.Cell(r, colRawFuelE)

		out := sheet.Cell{}
		if !(sheet.IsBlank(d.Value) && sheet.IsBlank(e.Value)) {
			out.Value = sheet.FormatFloat(sheet.SafeFloat(d.Value) + sheet.SafeFloat(e.Value))
		}
		if !sheet.IsBlank(d.Value) {
			out.StyleID = d.StyleID
		} else {
			out.StyleID = e.StyleID
		}
		t.SetCell(r, colFuelSumRaw, out)
	}
}

// SynthesizeDescriptionKey inserts the Description Sum column: the
// record's identity, a comma join of the first three fields. Once
// written, the key is never recomputed; sorting, dedup and fold tracking
// all correlate rows through it. Header and cell styles come from column
// A, the column width from C.
func SynthesizeDescriptionKey(t *sheet.Table, headerRow int) {
	t.InsertCol(colDescKey)
	ref := t.Cell(headerRow, colCategory)
	t.SetCell(headerRow, colDescKey, sheet.Cell{Value: "Description Sum", StyleID: ref.StyleID})
	if w, ok := t.ColWidths[3]; ok {
		t.ColWidths[colDescKey] = w
	}

	for r := headerRow + 1; r <= t.RowCount(); r++ {
		key := fmt.Sprintf("%s,%s,%s",
			t.Cell(r, 1).Value, t.Cell(r, 2).Value, t.Cell(r, 3).Value)
		t.SetCell(r, colDescKey, sheet.Cell{Value: key, StyleID: t.Cell(r, 1).StyleID})
	}
}

// SynthesizeUnifiedFuel inserts the Unified Fuel column: for each record,
// the sum of the fuel sums of every row sharing its description key.
// Computed in two passes — accumulate per key, then look up per row — not
// as a running total. Header and cell styles come from the fuel-sum
// column, as does the width.
func SynthesizeUnifiedFuel(t *sheet.Table, headerRow int) {
	t.InsertCol(colUnifiedFuel)
	ref := t.Cell(headerRow, colFuelSum)
	t.SetCell(headerRow, colUnifiedFuel, sheet.Cell{Value: "Unified Fuel", StyleID: ref.StyleID})
	if w, ok := t.ColWidths[colFuelSum]; ok {
		t.ColWidths[colUnifiedFuel] = w
	}

	totals := make(map[string]float64)
	for r := headerRow + 1; r <= t.RowCount(); r++ {
		key := strings.TrimSpace(t.Cell(r, colDescKey).Value)
		totals[key] += sheet.SafeFloat(t.Cell(r, colFuelSum).Value)
	}
	for r := headerRow + 1; r <= t.RowCount(); r++ {
		key := strings.TrimSpace(t.Cell(r, colDescKey).Value)
		t.SetCell(r, colUnifiedFuel, sheet.Cell{
			Value:   sheet.FormatFloat(totals[key]),
			StyleID: t.Cell(r, colFuelSum).StyleID,
		})
	}
}

// SynthesizeCategoryTotals inserts the Total Sum Per Category column: for
// each record, the sum of Unified Fuel across every row sharing its final
// category. Two passes, keyed by normalized category. The totals map is
// returned for the summary projector. Header and cell styles come from
// the Unified Fuel column.
func SynthesizeCategoryTotals(t *sheet.Table, headerRow int) map[string]float64 {
	if t.ColCount() >= colCatTotal {
		t.InsertCol(colCatTotal)
	}
	ref := t.Cell(headerRow, colUnifiedFuel)
	t.SetCell(headerRow, colCatTotal, sheet.Cell{Value: "Total Sum Per Category", StyleID: ref.StyleID})
	if w, ok := t.ColWidths[colUnifiedFuel]; ok {
		t.ColWidths[colCatTotal] = w
	}

	totals := make(map[string]float64)
	for r := headerRow + 1; r <= t.RowCount(); r++ {
		cat := model.NormalizeCategory(t.Cell(r, colCategory).Value)
		totals[cat] += sheet.SafeFloat(t.Cell(r, colUnifiedFuel).Value)
	}
	for r := headerRow + 1; r <= t.RowCount(); r++ {
		cat := model.NormalizeCategory(t.Cell(r, colCategory).Value)
		t.SetCell(r, colCatTotal, sheet.Cell{
			Value:   sheet.FormatFloat(totals[cat]),
			StyleID: t.Cell(r, colUnifiedFuel).StyleID,
		})
	}
	return totals
}
