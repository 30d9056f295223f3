package audit

import (
	"fmt"
	"sort"
	"time"

	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// priceVarianceThreshold flags an item when (max-min)/avg over its positive
// prices exceeds 50%.
var priceVarianceThreshold = decimal.NewFromFloat(0.5)

// Finding is one detected inconsistency, attributed to the item it concerns.
// Date is set only for findings tied to a specific day.
type Finding struct {
	ItemKey ledger.ItemKey `json:"item_key,omitempty"`
	Name    string         `json:"name"`
	Date    string         `json:"date,omitempty"`
	Message string         `json:"message"`
}

// Report is the outcome of a full-ledger consistency scan, grouped the way
// the review screen presents it
type Report struct {
	GeneralIssues []Finding `json:"general_issues,omitempty"`
	StockIssues   []Finding `json:"stock_issues,omitempty"`
	PriceIssues   []Finding `json:"price_issues,omitempty"`
	Duplicates    []Finding `json:"duplicates,omitempty"`
	CheckedAt     time.Time `json:"checked_at"`
}

// Clean reports whether the scan found nothing
func (r *Report) Clean() bool {
	return len(r.GeneralIssues) == 0 && len(r.StockIssues) == 0 &&
		len(r.PriceIssues) == 0 && len(r.Duplicates) == 0
}

// Total returns the number of findings across all categories
func (r *Report) Total() int {
	return len(r.GeneralIssues) + len(r.StockIssues) + len(r.PriceIssues) + len(r.Duplicates)
}

// Checker scans the whole ledger for bookkeeping inconsistencies. It is
// read only; findings are advisory and never block writes.
type Checker struct{}

// NewChecker creates an integrity checker
func NewChecker() *Checker {
	return &Checker{}
}

// Check runs all consistency scans over the given transactions
func (c *Checker) Check(txs []*ledger.Transaction) *Report {
	report := &Report{CheckedAt: time.Now()}

	groups := make(map[ledger.ItemKey][]*ledger.Transaction)
	order := make([]ledger.ItemKey, 0)
	for _, tx := range txs {
		key := tx.Key()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	for _, key := range order {
		group := groups[key]
		name := group[0].Name

		c.checkMultipleStockAwal(report, key, name, group)
		c.checkNegativeStock(report, key, name, group)
		c.checkPriceVariance(report, key, name, group)
	}

	c.checkDuplicates(report, txs)
	return report
}

// checkMultipleStockAwal flags an item carrying more than one opening
// balance record
func (c *Checker) checkMultipleStockAwal(report *Report, key ledger.ItemKey, name string, group []*ledger.Transaction) {
	count := 0
	for _, tx := range group {
		if tx.Type == ledger.TypeStockAwal {
			count++
		}
	}
	if count > 1 {
		report.GeneralIssues = append(report.GeneralIssues, Finding{
			ItemKey: key,
			Name:    name,
			Message: fmt.Sprintf("%s: memiliki %d stock awal", name, count),
		})
	}
}

// checkNegativeStock replays the item's movements in date order and flags
// the first day the running balance drops below zero
func (c *Checker) checkNegativeStock(report *Report, key ledger.ItemKey, name string, group []*ledger.Transaction) {
	ordered := make([]*ledger.Transaction, len(group))
	copy(ordered, group)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	var running int64
	for _, tx := range ordered {
		running += tx.SignedQuantity()
		if running < 0 {
			date := tx.Date.Format("2006-01-02")
			report.StockIssues = append(report.StockIssues, Finding{
				ItemKey: key,
				Name:    name,
				Date:    date,
				Message: fmt.Sprintf("%s: stock menjadi negatif pada tanggal %s", name, date),
			})
			return
		}
	}
}

// checkPriceVariance flags an item whose positive unit prices spread more
// than 50% around their simple average
func (c *Checker) checkPriceVariance(report *Report, key ledger.ItemKey, name string, group []*ledger.Transaction) {
	prices := make([]decimal.Decimal, 0, len(group))
	for _, tx := range group {
		if tx.UnitPrice.IsPositive() {
			prices = append(prices, tx.UnitPrice)
		}
	}
	if len(prices) < 2 {
		return
	}

	minPrice, maxPrice, sum := prices[0], prices[0], decimal.Zero
	for _, p := range prices {
		if p.LessThan(minPrice) {
			minPrice = p
		}
		if p.GreaterThan(maxPrice) {
			maxPrice = p
		}
		sum = sum.Add(p)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(prices))))
	if maxPrice.Sub(minPrice).Div(avg).GreaterThan(priceVarianceThreshold) {
		report.PriceIssues = append(report.PriceIssues, Finding{
			ItemKey: key,
			Name:    name,
			Message: fmt.Sprintf("%s: variasi harga signifikan (Rp %s - Rp %s)", name, minPrice.String(), maxPrice.String()),
		})
	}
}

// checkDuplicates flags repeated (date, item name, type) combinations
func (c *Checker) checkDuplicates(report *Report, txs []*ledger.Transaction) {
	type dupKey struct {
		date string
		name string
		typ  ledger.Type
	}
	seen := make(map[dupKey]int)
	order := make([]dupKey, 0)
	for _, tx := range txs {
		k := dupKey{date: tx.Date.Format("2006-01-02"), name: tx.Name, typ: tx.Type}
		if seen[k] == 0 {
			order = append(order, k)
		}
		seen[k]++
	}

	for _, k := range order {
		if seen[k] > 1 {
			report.Duplicates = append(report.Duplicates, Finding{
				Name:    k.name,
				Date:    k.date,
				Message: fmt.Sprintf("transaksi duplikat untuk %s (%s) pada tanggal %s", k.name, k.typ, k.date),
			})
		}
	}
}
