package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tuvia-hanfatzot/fuels-app/internal/model"
	"github.com/tuvia-hanfatzot/fuels-app/internal/sheet"
)

// Options configure a pipeline run.
type Options struct {
	TargetSheet  string // name of the cleaned data sheet in the output
	SummarySheet string
	Combine      CombineOptions
}

// DefaultOptions reproduce the standard distribution export: a single
// UNOPS source with a two-row header.
func DefaultOptions() Options {
	return Options{
		TargetSheet:  "UNOPS Total Distribution",
		SummarySheet: "Summary",
		Combine: CombineOptions{
			Rules: []SourceRule{{
				Label:  "UNOPS",
				Sheet:  "UNOPS Total Distribution",
				Tokens: []string{"UNOPS", "DISTRIBUTION"},
			}},
			HeaderRows: 2,
			DataStart:  3,
		},
	}
}

// Cleaner runs the full pipeline: combine sources, normalize merges,
// freeze formulas, strip header/total/zero rows, synthesize the derived
// columns, categorize, sort, dedup, colorize, and project the summary.
type Cleaner struct {
	opts Options
}

// New creates a Cleaner.
func New(opts Options) *Cleaner {
	return &Cleaner{opts: opts}
}

// Result is a finished run: the output workbook plus diagnostics.
type Result struct {
	File        *excelize.File
	Warnings    []string
	SheetsFound []string
	RowsIn      int
	RowsOut     int
}

// Run executes the pipeline over the given source files. Fatal errors
// (ErrNoTargetSheet, ErrMissingHeader) abort the run with a single
// reported message; unreadable sources and empty sheets only produce
// warnings, and malformed cell values degrade silently.
func (c *Cleaner) Run(paths []string, progress ProgressFunc) (*Result, error) {
	rep := NewReporter(progress)

	rep.Report(5, "Loading workbooks…")
	var sources []*Source
	var warnings []string
	for _, p := range paths {
		f, err := excelize.OpenFile(p)
		if err != nil {
			warnings = append(warnings,
				fmt.Sprintf("%s: not a readable workbook: %v", filepath.Base(p), err))
			continue
		}
		defer f.Close()
		sources = append(sources, &Source{Name: filepath.Base(p), File: f})
	}
	rep.Report(10, "Workbooks loaded")

	out := excelize.NewFile()
	if err := out.SetSheetName("Sheet1", c.opts.TargetSheet); err != nil {
		out.Close()
		return nil, fmt.Errorf("rename output sheet: %w", err)
	}

	combined, err := Combine(out, sources, c.opts.Combine)
	if err != nil {
		out.Close()
		return nil, err
	}
	warnings = append(warnings, combined.Warnings...)
	t := combined.Table
	rep.Report(15, "Sources combined")

	sheet.UnmergeAndFill(t, 1, 3)
	rep.Report(22, "Unmerged columns A–C")

	sheet.FreezeFormulas(t)
	rep.Report(30, "Froze formulas into values")

	// Collapse the header block to a single row.
	headerRows := c.opts.Combine.HeaderRows
	if headerRows == 0 {
		headerRows = 2
	}
	for r := headerRows; r >= 2; r-- {
		t.DeleteRow(r)
	}
	const headerRow = 1
	const dataStart = headerRow + 1

	DropTotalRows(t, dataStart)
	rep.Report(38, "Removed TOTAL rows")

	sheet.UnmergeAndFill(t, colRawFuelD, colFuelSumRaw)
	SynthesizeFuelSum(t, headerRow)
	rep.Report(48, "Built Fuel sum")

	DropZeroFuelRows(t, dataStart, colFuelSumRaw)
	rep.Report(55, "Removed empty and zero fuel rows")

	t.DeleteCol(colRawFuelE)
	t.DeleteCol(colRawFuelD)

	if findHeader(t, headerRow, "INTERVENTION") == 0 {
		out.Close()
		return nil, fmt.Errorf("%w: INTERVENTION", ErrMissingHeader)
	}
	agencyCol := findHeader(t, headerRow, "AGENCY")
	if agencyCol == 0 {
		out.Close()
		return nil, fmt.Errorf("%w: AGENCY", ErrMissingHeader)
	}

	// Fold before the description key exists, so the key sees final
	// category and agency values and stays valid for the whole run.
	folds := Categorize(t, dataStart, agencyCol)

	SynthesizeDescriptionKey(t, headerRow)
	rep.Report(65, "Built Description Sum")

	// Re-key fold state by the stable record identity; row indices are
	// about to become meaningless.
	foldByKey := make(map[string]model.FoldInfo, len(folds))
	for i, fi := range folds {
		key := strings.TrimSpace(t.Cell(dataStart+i, colDescKey).Value)
		if _, ok := foldByKey[key]; !ok {
			foldByKey[key] = fi
		}
	}

	SynthesizeUnifiedFuel(t, headerRow)
	rep.Report(75, "Built Unified Fuel")

	SortRecords(t, dataStart, foldByKey)
	rep.Report(82, "Sorted")

	Dedup(t, dataStart)
	rep.Report(88, "Removed duplicates")

	totals := SynthesizeCategoryTotals(t, headerRow)
	MergeCategoryRuns(t, dataStart)
	rep.Report(94, "Built Total Sum Per Category")

	Colorize(t, dataStart, foldByKey)

	if err := sheet.WriteSheet(out, c.opts.TargetSheet, t); err != nil {
		out.Close()
		return nil, fmt.Errorf("write data sheet: %w", err)
	}
	if err := BuildSummary(out, c.opts.SummarySheet, t, dataStart, totals); err != nil {
		out.Close()
		return nil, err
	}
	if idx, err := out.GetSheetIndex(c.opts.TargetSheet); err == nil {
		out.SetActiveSheet(idx)
	}
	rep.Report(100, "Done")

	return &Result{
		File:        out,
		Warnings:    warnings,
		SheetsFound: combined.SheetsFound,
		RowsIn:      combined.RowsIn,
		RowsOut:     t.RowCount() - headerRow,
	}, nil
}

// findHeader locates a header column by normalized name; 0 when absent.
func findHeader(t *sheet.Table, headerRow int, name string) int {
	for c := 1; c <= t.ColCount(); c++ {
		if sheet.NormHeader(t.Cell(headerRow, c).Value) == name {
			return c
		}
	}
	return 0
}
