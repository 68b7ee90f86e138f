package pipeline

import (
	"strings"

	"github.com/tuvia-hanfatzot/fuels-app/internal/sheet"
)

// totalToken marks grand-total rows mixed into the data.
const totalToken = "TOTAL"

// rowHasTotal reports whether the row carries the TOTAL token
// (case-insensitive) in any of its first three columns.
func rowHasTotal(t *sheet.Table, r int) bool {
	for c := 1; c <= 3; c++ {
		if strings.Contains(strings.ToUpper(t.Cell(r, c).Value), totalToken) {
			return true
		}
	}
	return false
}

// DropTotalRows deletes every data row carrying the TOTAL token in its
// first three columns.
func DropTotalRows(t *sheet.Table, dataStart int) {
	t.FilterRows(dataStart, func(r int) bool {
		return !rowHasTotal(t, r)
	})
}

// DropZeroFuelRows deletes data rows whose fuel-sum cell is blank or
// exactly zero. Non-numeric text in the cell keeps the row: degradation,
// not deletion, is the rule for malformed values.
func DropZeroFuelRows(t *sheet.Table, dataStart, fuelCol int) {
	t.FilterRows(dataStart, func(r int) bool {
		v := t.Cell(r, fuelCol).Value
		if sheet.IsBlank(v) {
			return false
		}
		if f, ok := sheet.StrictFloat(v); ok && f == 0 {
			return false
		}
		return true
	})
}
