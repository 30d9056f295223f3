package report

import (
	"strconv"
	"time"

	"github.com/gudang/backend/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// LineResponse is the read model for one monthly report line
type LineResponse struct {
	SKU              string          `json:"sku,omitempty"`
	Name             string          `json:"sparepart"`
	Category         string          `json:"jenis"`
	Brand            string          `json:"merk"`
	StockAwal        int64           `json:"stock_awal"`
	HargaAwal        decimal.Decimal `json:"harga_awal"`
	Masuk            int64           `json:"masuk"`
	Keluar           int64           `json:"keluar"`
	StockAkhir       int64           `json:"stock_akhir"`
	WeightedAvgPrice decimal.Decimal `json:"harga_rata"`
	TotalValue       decimal.Decimal `json:"total_nilai"`
	Degenerate       bool            `json:"degenerate,omitempty"`
}

// Response is the read model for a full monthly report
type Response struct {
	Month       string          `json:"bulan"`
	Lines       []LineResponse  `json:"lines"`
	TotalStock  int64           `json:"total_stock"`
	TotalValue  decimal.Decimal `json:"total_nilai"`
	TotalIn     int64           `json:"total_masuk"`
	TotalOut    int64           `json:"total_keluar"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// ToResponse maps a domain report to its read model
func ToResponse(r *valuation.MonthlyReport) *Response {
	lines := make([]LineResponse, 0, len(r.Lines))
	for i := range r.Lines {
		line := &r.Lines[i]
		lines = append(lines, LineResponse{
			SKU:              line.SKU,
			Name:             line.Name,
			Category:         line.Category,
			Brand:            line.Brand,
			StockAwal:        line.StockAwal,
			HargaAwal:        line.HargaAwal,
			Masuk:            line.Masuk,
			Keluar:           line.Keluar,
			StockAkhir:       line.StockAkhir,
			WeightedAvgPrice: line.WeightedAvgPrice,
			TotalValue:       line.TotalValue,
			Degenerate:       line.Degenerate,
		})
	}

	summary := r.Summary()
	return &Response{
		Month:       r.Month.String(),
		Lines:       lines,
		TotalStock:  summary.TotalStock,
		TotalValue:  summary.TotalValue,
		TotalIn:     summary.TotalIn,
		TotalOut:    summary.TotalOut,
		GeneratedAt: r.GeneratedAt,
	}
}

// exportHeader is the column order for report exports
var exportHeader = []string{
	"sku", "sparepart", "jenis", "merk", "stock_awal", "harga_awal",
	"masuk", "keluar", "stock_akhir", "harga_rata", "total_nilai",
}

// ExportRows flattens a report into ordered tabular rows, header first
func ExportRows(r *valuation.MonthlyReport) [][]string {
	rows := make([][]string, 0, len(r.Lines)+1)
	rows = append(rows, exportHeader)
	for i := range r.Lines {
		line := &r.Lines[i]
		rows = append(rows, []string{
			line.SKU,
			line.Name,
			line.Category,
			line.Brand,
			strconv.FormatInt(line.StockAwal, 10),
			line.HargaAwal.String(),
			strconv.FormatInt(line.Masuk, 10),
			strconv.FormatInt(line.Keluar, 10),
			strconv.FormatInt(line.StockAkhir, 10),
			line.WeightedAvgPrice.String(),
			line.TotalValue.String(),
		})
	}
	return rows
}
