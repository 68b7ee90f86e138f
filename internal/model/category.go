package model

import "strings"

// Canonical intervention categories. Membership checks are
// case-insensitive; the constants hold the normalized (uppercase) form.
const (
	CategoryTelecommunications = "TELECOMMUNICATIONS"
	CategoryHealth             = "HEALTH"
	CategoryWASH               = "WASH"
	CategoryLogistics          = "LOGISTICS"
	CategoryINGOs              = "INGOS"
	CategoryWFP                = "WFP"
)

// FallbackCategory is the written form stamped on records whose original
// category is not canonical (folded records) and on legacy-alias records.
const FallbackCategory = "INGOs"

// LegacyAliasToken marks the retired UN-OHCHR category: any category value
// containing it is treated as a plain alias of INGOs, not as a fold.
const LegacyAliasToken = "UN-OHCHR"

var canonical = map[string]struct{}{
	CategoryTelecommunications: {},
	CategoryHealth:             {},
	CategoryWASH:               {},
	CategoryLogistics:          {},
	CategoryINGOs:              {},
	CategoryWFP:                {},
}

// NormalizeCategory trims and uppercases a raw category cell value.
func NormalizeCategory(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsCanonical reports whether the raw category value is one of the
// canonical categories.
func IsCanonical(s string) bool {
	_, ok := canonical[NormalizeCategory(s)]
	return ok
}

// IsLegacyAlias reports whether the raw category value names the retired
// UN-OHCHR category.
func IsLegacyAlias(s string) bool {
	return strings.Contains(NormalizeCategory(s), LegacyAliasToken)
}

// Fills maps normalized category to its row fill (ARGB). WASH and
// LOGISTICS share a fill on purpose; they stay separate categories for
// sorting and aggregation.
var Fills = map[string]string{
	CategoryTelecommunications: "FFD5F3FB",
	CategoryHealth:             "FF00B050",
	CategoryWASH:               "FFFAB28A",
	CategoryLogistics:          "FFFAB28A",
	CategoryINGOs:              "FFBE9EF2",
	CategoryWFP:                "FF2CC3EC",
}

// SummaryEntry is one row of the summary sheet: the normalized category
// plus the label shown to the reader.
type SummaryEntry struct {
	Category string
	Label    string
}

// SummaryOrder fixes the display order of the summary sheet.
var SummaryOrder = []SummaryEntry{
	{CategoryTelecommunications, "Telecommunications"},
	{CategoryHealth, "Health"},
	{CategoryWASH, "WASH"},
	{CategoryLogistics, "Logistics"},
	{CategoryINGOs, "INGOs"},
	{CategoryWFP, "WFP"},
}

// FoldInfo records a single record's final category and whether its
// original category was folded into the fallback category.
type FoldInfo struct {
	Category string
	Folded   bool
}
