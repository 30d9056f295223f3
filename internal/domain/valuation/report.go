package valuation

import (
	"time"

	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ReportLine is one item's monthly rollup under moving weighted-average
// costing. Derived data: the ledger remains the source of truth and a line is
// recomputed, never edited.
type ReportLine struct {
	ItemKey  ledger.ItemKey  `json:"item_key"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Brand    string          `json:"brand"`
	// StockAwal is the opening quantity recorded within the month.
	StockAwal int64 `json:"stock_awal"`
	// HargaAwal is the unit price on the opening stock entry.
	HargaAwal decimal.Decimal `json:"harga_awal"`
	Masuk     int64           `json:"masuk"`
	Keluar    int64           `json:"keluar"`
	// StockAkhir = StockAwal + Masuk - Keluar. May legitimately be negative
	// when the underlying data is inconsistent; that is flagged by the
	// integrity audit, not prevented here.
	StockAkhir int64 `json:"stock_akhir"`
	// WeightedAvgPrice is (opening value + inbound value) / (opening qty +
	// inbound qty), or zero when nothing priced came in.
	WeightedAvgPrice decimal.Decimal `json:"weighted_avg_price"`
	TotalValue       decimal.Decimal `json:"total_value"`
	// Degenerate marks the keluar-only month case: nonzero ending stock
	// valued at zero because no priced stock was available. Preserved
	// source behavior, surfaced so callers can flag it.
	Degenerate bool `json:"degenerate,omitempty"`
}

// MonthlyReport is the valuation rollup for one calendar month. Regenerating
// a report for the same month from an unchanged ledger yields identical lines.
type MonthlyReport struct {
	Month       valueobject.Month `json:"month"`
	Lines       []ReportLine      `json:"lines"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// Line returns the report line for an item key, or nil
func (r *MonthlyReport) Line(key ledger.ItemKey) *ReportLine {
	for i := range r.Lines {
		if r.Lines[i].ItemKey == key {
			return &r.Lines[i]
		}
	}
	return nil
}

// Summary aggregates the totals shown on monthly dashboards
type Summary struct {
	TotalStock int64           `json:"total_stock"`
	TotalValue decimal.Decimal `json:"total_value"`
	TotalIn    int64           `json:"total_in"`
	TotalOut   int64           `json:"total_out"`
}

// Summary computes the report's dashboard totals
func (r *MonthlyReport) Summary() Summary {
	s := Summary{TotalValue: decimal.Zero}
	for i := range r.Lines {
		s.TotalStock += r.Lines[i].StockAkhir
		s.TotalValue = s.TotalValue.Add(r.Lines[i].TotalValue)
		s.TotalIn += r.Lines[i].Masuk
		s.TotalOut += r.Lines[i].Keluar
	}
	return s
}
