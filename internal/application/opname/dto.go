package opname

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/gudang/backend/internal/domain/opname"
	"github.com/shopspring/decimal"
)

// Snapshot modes for creating a worksheet
const (
	// ModeReport snapshots the month's valuation report
	ModeReport = "report"
	// ModeLive snapshots the current stock position over the whole ledger
	ModeLive = "live"
)

// CreateRequest starts a counting session for a month
type CreateRequest struct {
	Month string `json:"bulan" binding:"required"`
	Mode  string `json:"mode" binding:"omitempty,oneof=report live"`
	// Replace discards an existing worksheet for the month
	Replace bool `json:"replace"`
}

// SetCountRequest records the physical count for one line
type SetCountRequest struct {
	LineID uuid.UUID `json:"line_id" binding:"required"`
	Count  int64     `json:"stock_fisik"`
}

// SetNoteRequest annotates one line
type SetNoteRequest struct {
	LineID uuid.UUID `json:"line_id" binding:"required"`
	Note   string    `json:"keterangan"`
}

// LineResponse is the read model for one worksheet line
type LineResponse struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku,omitempty"`
	Name        string          `json:"sparepart"`
	Category    string          `json:"jenis"`
	Brand       string          `json:"merk"`
	StockSistem int64           `json:"stock_sistem"`
	StockFisik  int64           `json:"stock_fisik"`
	Selisih     int64           `json:"selisih"`
	Harga       decimal.Decimal `json:"harga"`
	ValueSistem decimal.Decimal `json:"value_sistem"`
	ValueFisik  decimal.Decimal `json:"value_fisik"`
	Keterangan  string          `json:"keterangan,omitempty"`
}

// WorksheetResponse is the read model for a counting session
type WorksheetResponse struct {
	ID             uuid.UUID       `json:"id"`
	Month          string          `json:"bulan"`
	Status         string          `json:"status"`
	Lines          []LineResponse  `json:"lines"`
	TotalItems     int             `json:"total_items"`
	TotalValue     decimal.Decimal `json:"total_nilai"`
	SelisihPositif int64           `json:"selisih_positif"`
	SelisihNegatif int64           `json:"selisih_negatif"`
}

// SaveResponse reports the outcome of saving a worksheet
type SaveResponse struct {
	Adjustments int  `json:"adjustments"`
	NoOp        bool `json:"no_op"`
}

// ToWorksheetResponse maps a worksheet to its read model
func ToWorksheetResponse(w *opname.Worksheet) *WorksheetResponse {
	lines := make([]LineResponse, 0, len(w.Lines))
	for i := range w.Lines {
		line := &w.Lines[i]
		lines = append(lines, LineResponse{
			ID:          line.ID,
			SKU:         line.SKU,
			Name:        line.Name,
			Category:    line.Category,
			Brand:       line.Brand,
			StockSistem: line.StockSistem,
			StockFisik:  line.StockFisik,
			Selisih:     line.Selisih,
			Harga:       line.Harga,
			ValueSistem: line.ValueSistem,
			ValueFisik:  line.ValueFisik,
			Keterangan:  line.Keterangan,
		})
	}

	summary := w.Summary()
	return &WorksheetResponse{
		ID:             w.ID,
		Month:          w.Month.String(),
		Status:         w.Status.String(),
		Lines:          lines,
		TotalItems:     summary.TotalItems,
		TotalValue:     summary.TotalValue,
		SelisihPositif: summary.SelisihPositif,
		SelisihNegatif: summary.SelisihNegatif,
	}
}

// exportHeader is the column order for worksheet exports
var exportHeader = []string{
	"sku", "sparepart", "jenis", "merk", "stock_sistem", "stock_fisik",
	"selisih", "harga", "value_fisik", "keterangan",
}

// ExportRows flattens a worksheet into ordered tabular rows, header first
func ExportRows(w *opname.Worksheet) [][]string {
	rows := make([][]string, 0, len(w.Lines)+1)
	rows = append(rows, exportHeader)
	for i := range w.Lines {
		line := &w.Lines[i]
		rows = append(rows, []string{
			line.SKU,
			line.Name,
			line.Category,
			line.Brand,
			strconv.FormatInt(line.StockSistem, 10),
			strconv.FormatInt(line.StockFisik, 10),
			strconv.FormatInt(line.Selisih, 10),
			line.Harga.String(),
			line.ValueFisik.String(),
			line.Keterangan,
		})
	}
	return rows
}
