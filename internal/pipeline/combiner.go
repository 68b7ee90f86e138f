package pipeline

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tuvia-hanfatzot/fuels-app/internal/sheet"
)

// SourceRule describes one expected source table: the provenance label
// for its rows, the sheet it lives on, fallback match tokens, and whether
// the source lacks the category column (in which case a leading label
// column is inserted and every data row stamped with the label).
type SourceRule struct {
	Label                string
	Sheet                string
	Tokens               []string
	InsertCategoryColumn bool
}

// CombineOptions configure the multi-source combiner.
type CombineOptions struct {
	Rules      []SourceRule
	HeaderRows int // header block height in the source sheets
	DataStart  int // first data row in the source sheets
	DropColsLo int // auxiliary column range deleted after combination; 0 = none
	DropColsHi int
}

// Source is one uploaded workbook opened for reading.
type Source struct {
	Name string
	File *excelize.File
}

// CombineResult carries the combined table plus per-source diagnostics.
type CombineResult struct {
	Table       *sheet.Table
	Warnings    []string
	SheetsFound []string
	RowsIn      int
}

// Combine merges every recognized source sheet into a single table bound
// to the output workbook. The header block is taken once, from the first
// usable source; data rows are appended in source order with formulas
// frozen to values. Afterwards the label column is re-merged over runs of
// identical values and columns 1–2 are merged down through blanks, purely
// as presentation. Returns ErrNoTargetSheet when no source yields a
// usable sheet.
func Combine(out *excelize.File, sources []*Source, opts CombineOptions) (*CombineResult, error) {
	if opts.HeaderRows == 0 {
		opts.HeaderRows = 2
	}
	if opts.DataStart == 0 {
		opts.DataStart = opts.HeaderRows + 1
	}

	st := sheet.NewStyleTransfer(out)
	dest := sheet.NewTable()
	res := &CombineResult{}
	headerDone := false

	for _, src := range sources {
		names := src.File.GetSheetList()
		res.SheetsFound = append(res.SheetsFound, names...)

		matches := matchRules(opts.Rules, names)
		if len(matches) == 0 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s: no distribution sheet (sheets: %s)", src.Name, strings.Join(names, ", ")))
			continue
		}

		for _, m := range matches {
			tbl, err := sheet.ReadSheet(src.File, m.sheetName, st)
			if err != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", src.Name, err))
				continue
			}
			first, last := dataBounds(tbl, opts.DataStart)
			if first == 0 {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("%s: sheet %q has no data rows", src.Name, m.sheetName))
				continue
			}

			if m.rule.InsertCategoryColumn {
				tbl.InsertCol(1)
				ref := tbl.Cell(first, 2).StyleID
				for r := first; r <= last; r++ {
					tbl.SetCell(r, 1, sheet.Cell{Value: m.rule.Label, StyleID: ref})
				}
			}

			// Some exports leave a stray grand-total or caption row right
			// under the data; drop it before appending.
			if rowHasTotal(tbl, last) {
				tbl.DeleteRow(last)
				last--
				if last < first {
					res.Warnings = append(res.Warnings,
						fmt.Sprintf("%s: sheet %q has no data rows", src.Name, m.sheetName))
					continue
				}
			}

			// Defensive: the block copy below ignores live formulas anyway.
			sheet.FreezeFormulas(tbl)

			if !headerDone {
				sheet.CopyBlock(dest, tbl, 1, 1, 1, 1, opts.HeaderRows, tbl.ColCount())
				headerDone = true
			}
			appendAt := dest.RowCount() + 1
			if appendAt < opts.DataStart {
				appendAt = opts.DataStart
			}
			sheet.CopyBlock(dest, tbl, appendAt, 1, first, 1, last, tbl.ColCount())
			res.RowsIn += last - first + 1
		}
	}

	if !headerDone {
		return nil, fmt.Errorf("%w; sheets found: [%s]",
			ErrNoTargetSheet, strings.Join(res.SheetsFound, ", "))
	}

	sheet.MergeRuns(dest, 1, opts.DataStart)
	sheet.MergeDownBlanks(dest, 1, opts.DataStart)
	sheet.MergeDownBlanks(dest, 2, opts.DataStart)

	if opts.DropColsLo > 0 && opts.DropColsHi >= opts.DropColsLo {
		for c := opts.DropColsHi; c >= opts.DropColsLo; c-- {
			dest.DeleteCol(c)
		}
	}

	res.Table = dest
	return res, nil
}

type ruleMatch struct {
	rule      *SourceRule
	sheetName string
}

// matchRules pairs each rule with a sheet of the workbook: exact match on
// the normalized sheet name first, then a substring match requiring every
// fallback token.
func matchRules(rules []SourceRule, names []string) []ruleMatch {
	var matches []ruleMatch
	for i := range rules {
		rule := &rules[i]
		found := ""
		for _, n := range names {
			if normSheetName(n) == normSheetName(rule.Sheet) {
				found = n
				break
			}
		}
		if found == "" && len(rule.Tokens) > 0 {
			for _, n := range names {
				norm := normSheetName(n)
				all := true
				for _, tok := range rule.Tokens {
					if !strings.Contains(norm, strings.ToUpper(tok)) {
						all = false
						break
					}
				}
				if all {
					found = n
					break
				}
			}
		}
		if found != "" {
			matches = append(matches, ruleMatch{rule: rule, sheetName: found})
		}
	}
	return matches
}

func normSheetName(s string) string {
	return sheet.NormHeader(s)
}

// dataBounds finds the first and last rows at or below `from` containing
// any non-blank cell; (0, 0) when there are none.
func dataBounds(t *sheet.Table, from int) (first, last int) {
	for r := from; r <= t.RowCount(); r++ {
		blank := true
		for c := 1; c <= t.ColCount(); c++ {
			if !sheet.IsBlank(t.Cell(r, c).Value) {
				blank = false
				break
			}
		}
		if !blank {
			if first == 0 {
				first = r
			}
			last = r
		}
	}
	return first, last
}
