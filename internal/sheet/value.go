package sheet

import (
	"strconv"
	"strings"
)

// SafeFloat converts a raw cell value to float64, degrading to zero on
// blanks and unparseable text. Thousands separators are stripped first.
func SafeFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// StrictFloat parses a raw cell value without coercion; ok is false for
// anything that is not a plain number.
func StrictFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatFloat renders a derived numeric value for storage in a cell.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsBlank reports whether a raw cell value is empty or whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// NormHeader normalizes a header cell for name matching: inner whitespace
// collapsed, trimmed, uppercased.
func NormHeader(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
