package pipeline

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tuvia-hanfatzot/fuels-app/internal/model"
	"github.com/tuvia-hanfatzot/fuels-app/internal/sheet"
)

// BuildSummary projects the per-category totals onto a second sheet: one
// row per canonical category in fixed display order, holding the label,
// the category total (zero when absent from the data) and its share of
// the grand total, plus a pie chart over the label/value pairs with
// on-slice category and percentage labels and no legend.
//
// Label and value presentation are copied from the first data row
// carrying each final category; the data sheet's header styles are the
// fallback for categories with no rows.
func BuildSummary(f *excelize.File, sheetName string, data *sheet.Table, dataStart int, totals map[string]float64) error {
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	labelStyle := make(map[string]int)
	valueStyle := make(map[string]int)
	for r := dataStart; r <= data.RowCount(); r++ {
		cat := model.NormalizeCategory(data.Cell(r, colCategory).Value)
		if cat == "" {
			continue
		}
		if _, ok := labelStyle[cat]; ok {
			continue
		}
		labelStyle[cat] = data.Cell(r, colCategory).StyleID
		valueStyle[cat] = data.Cell(r, colUnifiedFuel).StyleID
	}
	fallbackLabel := data.Cell(1, colCategory).StyleID
	fallbackValue := data.Cell(1, colUnifiedFuel).StyleID

	grand := 0.0
	for _, e := range model.SummaryOrder {
		grand += totals[e.Category]
	}

	pctStyle, err := f.NewStyle(&excelize.Style{NumFmt: 10}) // 0.00%
	if err != nil {
		return fmt.Errorf("create percent style: %w", err)
	}

	for i, e := range model.SummaryOrder {
		r := i + 1
		labelCell := fmt.Sprintf("A%d", r)
		valueCell := fmt.Sprintf("B%d", r)
		pctCell := fmt.Sprintf("C%d", r)

		if err := f.SetCellValue(sheetName, labelCell, e.Label); err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, valueCell, totals[e.Category]); err != nil {
			return err
		}
		share := 0.0
		if grand != 0 {
			share = totals[e.Category] / grand
		}
		if err := f.SetCellValue(sheetName, pctCell, share); err != nil {
			return err
		}

		ls, ok := labelStyle[e.Category]
		if !ok {
			ls = fallbackLabel
		}
		vs, ok := valueStyle[e.Category]
		if !ok {
			vs = fallbackValue
		}
		if ls != 0 {
			if err := f.SetCellStyle(sheetName, labelCell, labelCell, ls); err != nil {
				return err
			}
		}
		if vs != 0 {
			if err := f.SetCellStyle(sheetName, valueCell, valueCell, vs); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(sheetName, pctCell, pctCell, pctStyle); err != nil {
			return err
		}
	}

	n := len(model.SummaryOrder)
	varyColors := true
	chart := &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Categories: fmt.Sprintf("'%s'!$A$1:$A$%d", sheetName, n),
			Values:     fmt.Sprintf("'%s'!$B$1:$B$%d", sheetName, n),
		}},
		Title:      []excelize.RichTextRun{{Text: "Fuel distribution by category"}},
		Legend:     excelize.ChartLegend{Position: "none"},
		PlotArea:   excelize.ChartPlotArea{ShowCatName: true, ShowPercent: true},
		VaryColors: &varyColors,
	}
	if err := f.AddChart(sheetName, "E1", chart); err != nil {
		return fmt.Errorf("add summary chart: %w", err)
	}
	return nil
}
