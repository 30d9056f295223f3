package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// priceDeviationTolerance is the relative deviation from the historical
// average price beyond which a new price draws a warning.
var priceDeviationTolerance = decimal.NewFromFloat(0.2)

// ValidationResult carries the outcome of pre-insert validation. Errors block
// the insert; warnings require explicit caller confirmation but never block
// on their own.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// OK reports whether the record passed all hard rules
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// HasWarnings reports whether any soft rule fired
func (r ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Validator applies the ledger's pre-insert rules against a candidate record
// and the item's transaction history.
type Validator struct{}

// NewValidator creates a validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateNew checks a candidate against the hard and soft rules as entered
// interactively, where a SKU is mandatory. history must hold every existing
// record for the candidate's SKU or composite identity; passing unrelated
// records is harmless but wasteful.
func (v *Validator) ValidateNew(candidate *Transaction, history []Transaction) ValidationResult {
	return v.validate(candidate, history, true)
}

// ValidateImport applies the same rules with the SKU requirement relaxed:
// imported legacy rows identify items by name, category and brand alone.
func (v *Validator) ValidateImport(candidate *Transaction, history []Transaction) ValidationResult {
	return v.validate(candidate, history, false)
}

func (v *Validator) validate(candidate *Transaction, history []Transaction, requireSKU bool) ValidationResult {
	var result ValidationResult

	v.checkFields(candidate, requireSKU, &result)
	v.checkIdentityConflict(candidate, history, &result)
	v.checkSameDayDuplicate(candidate, history, &result)
	v.checkRepeatedStockAwal(candidate, history, &result)
	v.checkPriceDeviation(candidate, history, &result)
	v.checkOversell(candidate, history, &result)

	return result
}

// checkFields enforces minimum lengths and required amounts
func (v *Validator) checkFields(candidate *Transaction, requireSKU bool, result *ValidationResult) {
	if (requireSKU || candidate.SKU != "") && len(candidate.SKU) < 2 {
		result.Errors = append(result.Errors, "SKU must be at least 2 characters")
	}
	if len(candidate.Name) < 2 {
		result.Errors = append(result.Errors, "Item name must be at least 2 characters")
	}
	if candidate.Category == "" {
		result.Errors = append(result.Errors, "Category is required")
	}
	if candidate.Brand == "" {
		result.Errors = append(result.Errors, "Brand is required")
	}
	if candidate.Quantity <= 0 {
		result.Errors = append(result.Errors, "Quantity must be greater than 0")
	}
	if candidate.Type != TypeKeluar && !candidate.UnitPrice.IsPositive() {
		result.Errors = append(result.Errors, "Price must be greater than 0 for masuk/stock_awal transactions")
	}
}

// checkIdentityConflict rejects a SKU already bound to a different
// (name, category, brand) triple
func (v *Validator) checkIdentityConflict(candidate *Transaction, history []Transaction, result *ValidationResult) {
	if candidate.SKU == "" {
		return
	}
	for i := range history {
		existing := &history[i]
		if existing.SKU != candidate.SKU {
			continue
		}
		if !SameItem(existing.Name, existing.Category, existing.Brand, candidate.Name, candidate.Category, candidate.Brand) {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"SKU %q is already used for a different item: %s (%s - %s)",
				candidate.SKU, existing.Name, existing.Category, existing.Brand))
			return
		}
	}
}

// checkSameDayDuplicate warns when the same (item, type, date) combination
// already exists
func (v *Validator) checkSameDayDuplicate(candidate *Transaction, history []Transaction, result *ValidationResult) {
	for i := range history {
		existing := &history[i]
		if !sameDay(existing.Date, candidate.Date) || existing.Type != candidate.Type {
			continue
		}
		if SameItem(existing.Name, existing.Category, existing.Brand, candidate.Name, candidate.Category, candidate.Brand) {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"An identical transaction for this item already exists on %s. Add it again anyway?",
				candidate.Date.Format("2006-01-02")))
			return
		}
	}
}

// checkRepeatedStockAwal warns when the item already has an opening stock entry
func (v *Validator) checkRepeatedStockAwal(candidate *Transaction, history []Transaction, result *ValidationResult) {
	if candidate.Type != TypeStockAwal {
		return
	}
	for i := range history {
		existing := &history[i]
		if existing.Type != TypeStockAwal {
			continue
		}
		if SameItem(existing.Name, existing.Category, existing.Brand, candidate.Name, candidate.Category, candidate.Brand) {
			result.Warnings = append(result.Warnings,
				"This item already has an opening stock entry. Consider editing it or recording a masuk transaction instead.")
			return
		}
	}
}

// checkPriceDeviation warns when the price deviates more than 20% from the
// item's historical average over priced records. Zero-price keluar lines are
// skipped: the outgoing side carries no price information.
func (v *Validator) checkPriceDeviation(candidate *Transaction, history []Transaction, result *ValidationResult) {
	if !candidate.UnitPrice.IsPositive() {
		return
	}

	sum := decimal.Zero
	count := int64(0)
	for i := range history {
		existing := &history[i]
		if !existing.UnitPrice.IsPositive() {
			continue
		}
		if SameItem(existing.Name, existing.Category, existing.Brand, candidate.Name, candidate.Category, candidate.Brand) {
			sum = sum.Add(existing.UnitPrice)
			count++
		}
	}
	if count == 0 {
		return
	}

	avg := sum.Div(decimal.NewFromInt(count))
	deviation := candidate.UnitPrice.Sub(avg).Abs().Div(avg)
	if deviation.GreaterThan(priceDeviationTolerance) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Price deviates significantly from the historical average (%s). Double-check the price.",
			avg.StringFixed(2)))
	}
}

// checkOversell warns when a keluar requests more than the computed running
// stock. This is deliberately a warning: negative running stock is a
// tolerated state that the integrity audit reports after the fact.
func (v *Validator) checkOversell(candidate *Transaction, history []Transaction, result *ValidationResult) {
	if candidate.Type != TypeKeluar {
		return
	}

	var stock int64
	for i := range history {
		existing := &history[i]
		if SameItem(existing.Name, existing.Category, existing.Brand, candidate.Name, candidate.Category, candidate.Brand) {
			stock += existing.SignedQuantity()
		}
	}
	if candidate.Quantity > stock {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Insufficient stock: current stock is %d, requested %d", stock, candidate.Quantity))
	}
}

// sameDay reports whether two dates fall on the same calendar day
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
