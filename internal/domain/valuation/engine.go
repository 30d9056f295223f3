package valuation

import (
	"sort"
	"time"

	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Engine computes weighted-average valuation rollups from ledger snapshots.
// It holds no state: two runs over the same records produce the same output.
type Engine struct{}

// NewEngine creates a valuation engine
func NewEngine() *Engine {
	return &Engine{}
}

// accumulator collects one item's movements before the averaging step
type accumulator struct {
	sku, name, category, brand string
	stockAwal                  int64
	masuk                      int64
	keluar                     int64
	hargaAwal                  decimal.Decimal
	valueAwal                  decimal.Decimal
	valueMasuk                 decimal.Decimal
}

// Generate produces the monthly report from the month's ledger records.
// Records outside the month are ignored, so callers may pass a pre-filtered
// or a full snapshot interchangeably.
func (e *Engine) Generate(month valueobject.Month, txs []ledger.Transaction) *MonthlyReport {
	inMonth := ledger.Each(txs, func(tx *ledger.Transaction) bool {
		return month.Contains(tx.Date)
	})

	return &MonthlyReport{
		Month:       month,
		Lines:       e.Rollup(inMonth),
		GeneratedAt: time.Now(),
	}
}

// Rollup partitions records by item key and computes one weighted-average
// line per item. Lines are ordered by item key so output is deterministic.
func (e *Engine) Rollup(txs []ledger.Transaction) []ReportLine {
	groups := make(map[ledger.ItemKey]*accumulator)
	keys := make([]ledger.ItemKey, 0)

	// Accumulate in date order so the last opening entry's price wins
	// deterministically when the data holds more than one.
	ordered := make([]ledger.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	for i := range ordered {
		tx := &ordered[i]
		key := tx.Key()
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{
				sku:        tx.SKU,
				name:       tx.Name,
				category:   tx.Category,
				brand:      tx.Brand,
				hargaAwal:  decimal.Zero,
				valueAwal:  decimal.Zero,
				valueMasuk: decimal.Zero,
			}
			groups[key] = acc
			keys = append(keys, key)
		}

		switch tx.Type {
		case ledger.TypeStockAwal:
			acc.stockAwal += tx.Quantity
			acc.valueAwal = acc.valueAwal.Add(tx.Total)
			acc.hargaAwal = tx.UnitPrice
		case ledger.TypeMasuk:
			acc.masuk += tx.Quantity
			acc.valueMasuk = acc.valueMasuk.Add(tx.Total)
		case ledger.TypeKeluar:
			// Outgoing stock is costed at the weighted average, not at
			// the price on the record.
			acc.keluar += tx.Quantity
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	lines := make([]ReportLine, 0, len(keys))
	for _, key := range keys {
		acc := groups[key]
		lines = append(lines, e.finalize(key, acc))
	}
	return lines
}

// finalize turns an accumulator into a report line
func (e *Engine) finalize(key ledger.ItemKey, acc *accumulator) ReportLine {
	stockAkhir := acc.stockAwal + acc.masuk - acc.keluar
	available := acc.stockAwal + acc.masuk

	avgPrice := decimal.Zero
	if available > 0 {
		avgPrice = acc.valueAwal.Add(acc.valueMasuk).Div(decimal.NewFromInt(available))
	}

	return ReportLine{
		ItemKey:          key,
		SKU:              acc.sku,
		Name:             acc.name,
		Category:         acc.category,
		Brand:            acc.brand,
		StockAwal:        acc.stockAwal,
		HargaAwal:        acc.hargaAwal,
		Masuk:            acc.masuk,
		Keluar:           acc.keluar,
		StockAkhir:       stockAkhir,
		WeightedAvgPrice: avgPrice,
		TotalValue:       avgPrice.Mul(decimal.NewFromInt(stockAkhir)),
		Degenerate:       available == 0 && stockAkhir != 0,
	}
}
