package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// newSourceBook builds a workbook with one sheet carrying a two-row
// header and the given data rows starting at row 3.
func newSourceBook(t *testing.T, sheetName string, header []string, data ...[]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		t.Fatalf("SetSheetName: %v", err)
	}
	for c, h := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			t.Fatalf("SetCellValue: %v", err)
		}
	}
	for r, row := range data {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+3)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				t.Fatalf("SetCellValue: %v", err)
			}
		}
	}
	return f
}

func TestCombineAppendsSourcesInOrder(t *testing.T) {
	unops := newSourceBook(t, "UNOPS Total Distribution",
		[]string{"Intervention", "Agency", "Governorate", "Benzene (L)", "Diesel (L)"},
		[]interface{}{"HEALTH", "MoH", "Rafah", 10, 5},
		[]interface{}{"WASH", "Oxfam", "Gaza", 3, 0},
	)
	defer unops.Close()
	ngo := newSourceBook(t, "NGO Fuel Distribution",
		[]string{"Agency", "Governorate", "Benzene (L)", "Diesel (L)"},
		[]interface{}{"Acme", "Khan Younis", 2, 2},
	)
	defer ngo.Close()

	out := excelize.NewFile()
	defer out.Close()

	res, err := Combine(out, []*Source{
		{Name: "unops.xlsx", File: unops},
		{Name: "ngo.xlsx", File: ngo},
	}, CombineOptions{
		Rules: []SourceRule{
			{Label: "UNOPS", Sheet: "UNOPS Total Distribution", Tokens: []string{"UNOPS", "DISTRIBUTION"}},
			{Label: "NGO", Sheet: "NGO Fuel Distribution", Tokens: []string{"NGO"}, InsertCategoryColumn: true},
		},
		HeaderRows: 2,
		DataStart:  3,
	})
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("warnings=%v", res.Warnings)
	}
	if res.RowsIn != 3 {
		t.Fatalf("RowsIn=%d, want 3", res.RowsIn)
	}

	tb := res.Table
	if got := tb.Cell(1, 1).Value; got != "Intervention" {
		t.Fatalf("header=%q", got)
	}
	if got := tb.Cell(3, 1).Value; got != "HEALTH" {
		t.Fatalf("row 3=%q", got)
	}
	if got := tb.Cell(4, 1).Value; got != "WASH" {
		t.Fatalf("row 4=%q", got)
	}
	// the label-less source got a leading label column stamped on each row
	if got := tb.Cell(5, 1).Value; got != "NGO" {
		t.Fatalf("row 5 label=%q, want NGO", got)
	}
	if got := tb.Cell(5, 2).Value; got != "Acme" {
		t.Fatalf("row 5 agency=%q", got)
	}
}

func TestCombineDropsTrailingTotalRow(t *testing.T) {
	src := newSourceBook(t, "UNOPS Total Distribution",
		[]string{"Intervention", "Agency", "Governorate", "Benzene (L)", "Diesel (L)"},
		[]interface{}{"HEALTH", "MoH", "Rafah", 10, 5},
		[]interface{}{"Grand Total", "", "", 10, 5},
	)
	defer src.Close()
	out := excelize.NewFile()
	defer out.Close()

	res, err := Combine(out, []*Source{{Name: "src.xlsx", File: src}}, CombineOptions{
		Rules:      []SourceRule{{Label: "UNOPS", Sheet: "UNOPS Total Distribution"}},
		HeaderRows: 2,
		DataStart:  3,
	})
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if res.RowsIn != 1 {
		t.Fatalf("RowsIn=%d, want 1 (trailing total dropped)", res.RowsIn)
	}
	if got := res.Table.Cell(3, 1).Value; got != "HEALTH" {
		t.Fatalf("row 3=%q", got)
	}
}

func TestCombineTokenFallbackMatch(t *testing.T) {
	src := newSourceBook(t, "UNOPS - total distribution (v2)",
		[]string{"Intervention", "Agency", "Governorate", "Benzene (L)", "Diesel (L)"},
		[]interface{}{"HEALTH", "MoH", "Rafah", 10, 5},
	)
	defer src.Close()
	out := excelize.NewFile()
	defer out.Close()

	res, err := Combine(out, []*Source{{Name: "src.xlsx", File: src}}, CombineOptions{
		Rules: []SourceRule{{
			Label:  "UNOPS",
			Sheet:  "UNOPS Total Distribution",
			Tokens: []string{"UNOPS", "DISTRIBUTION"},
		}},
		HeaderRows: 2,
		DataStart:  3,
	})
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if res.RowsIn != 1 {
		t.Fatalf("RowsIn=%d, want 1", res.RowsIn)
	}
}

func TestCombineNoTargetSheet(t *testing.T) {
	src := newSourceBook(t, "Random Tab",
		[]string{"a"},
		[]interface{}{"b"},
	)
	defer src.Close()
	out := excelize.NewFile()
	defer out.Close()

	_, err := Combine(out, []*Source{{Name: "src.xlsx", File: src}}, CombineOptions{
		Rules: []SourceRule{{Label: "UNOPS", Sheet: "UNOPS Total Distribution", Tokens: []string{"UNOPS"}}},
	})
	if !errors.Is(err, ErrNoTargetSheet) {
		t.Fatalf("err=%v, want ErrNoTargetSheet", err)
	}
	// the message names the sheets that were found, for the operator
	if !strings.Contains(err.Error(), "Random Tab") {
		t.Fatalf("error does not list found sheets: %v", err)
	}
}

func TestCombineWarnsOnEmptySheet(t *testing.T) {
	full := newSourceBook(t, "UNOPS Total Distribution",
		[]string{"Intervention", "Agency", "Governorate", "Benzene (L)", "Diesel (L)"},
		[]interface{}{"HEALTH", "MoH", "Rafah", 10, 5},
	)
	defer full.Close()
	empty := newSourceBook(t, "UNOPS Total Distribution",
		[]string{"Intervention", "Agency", "Governorate", "Benzene (L)", "Diesel (L)"},
	)
	defer empty.Close()

	out := excelize.NewFile()
	defer out.Close()

	res, err := Combine(out, []*Source{
		{Name: "full.xlsx", File: full},
		{Name: "empty.xlsx", File: empty},
	}, CombineOptions{
		Rules:      []SourceRule{{Label: "UNOPS", Sheet: "UNOPS Total Distribution"}},
		HeaderRows: 2,
		DataStart:  3,
	})
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "empty.xlsx") {
		t.Fatalf("warnings=%v, want one naming empty.xlsx", res.Warnings)
	}
	if res.RowsIn != 1 {
		t.Fatalf("RowsIn=%d, want 1", res.RowsIn)
	}
}
