package pipeline

import (
	"strings"

	"github.com/tuvia-hanfatzot/fuels-app/internal/sheet"
)

// Dedup deletes rows whose trimmed description key has already been seen,
// walking top to bottom, so the first occurrence in the current (sorted)
// order wins. A blank key counts as a key: only the first blank-key row
// survives. Running Dedup on its own output removes nothing.
func Dedup(t *sheet.Table, dataStart int) {
	seen := make(map[string]bool)
	t.FilterRows(dataStart, func(r int) bool {
		key := strings.TrimSpace(t.Cell(r, colDescKey).Value)
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
}
