package ledger

import (
	"strings"

	"golang.org/x/text/cases"
)

// folder performs Unicode case folding for case-insensitive item matching.
var folder = cases.Fold()

// ItemKey identifies a distinct stock-keeping unit across the ledger. The
// preferred form is the normalized SKU; records without a SKU fall back to the
// composite (name, category, brand) with name and brand folded case-insensitively.
type ItemKey string

// String returns the key as a plain string
func (k ItemKey) String() string {
	return string(k)
}

// NormalizeSKU trims and upper-cases a SKU so "ab-01 " and "AB-01" identify
// the same unit
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// foldField trims and case-folds an identity field
func foldField(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// KeyFor derives the item key for the given identity fields
func KeyFor(sku, name, category, brand string) ItemKey {
	if normalized := NormalizeSKU(sku); normalized != "" {
		return ItemKey(normalized)
	}
	return ItemKey(foldField(name) + "|" + strings.TrimSpace(category) + "|" + foldField(brand))
}

// SameItem reports whether two identity triples describe the same unit,
// comparing name and brand case-insensitively and category exactly
func SameItem(name1, category1, brand1, name2, category2, brand2 string) bool {
	return foldField(name1) == foldField(name2) &&
		strings.TrimSpace(category1) == strings.TrimSpace(category2) &&
		foldField(brand1) == foldField(brand2)
}
