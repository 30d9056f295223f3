package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// dateLayout is the wire format for transaction dates
const dateLayout = "2006-01-02"

// CreateTransactionRequest is the payload for recording a stock movement.
// Field names follow the bookkeeping vocabulary the data files use.
type CreateTransactionRequest struct {
	Date      string          `json:"tanggal" binding:"required"`
	SKU       string          `json:"sku"`
	Name      string          `json:"sparepart" binding:"required"`
	Category  string          `json:"jenis" binding:"required"`
	Brand     string          `json:"merk" binding:"required"`
	Type      string          `json:"tipe_transaksi" binding:"required,oneof=stock_awal masuk keluar"`
	Quantity  int64           `json:"jumlah" binding:"required"`
	UnitPrice decimal.Decimal `json:"harga"`
	Notes     string          `json:"keterangan"`
	// Confirm acknowledges soft validation warnings from a prior attempt
	Confirm bool `json:"confirm"`
}

// UpdateTransactionRequest is a partial edit; nil fields stay unchanged
type UpdateTransactionRequest struct {
	Date      *string          `json:"tanggal"`
	SKU       *string          `json:"sku"`
	Name      *string          `json:"sparepart"`
	Category  *string          `json:"jenis"`
	Brand     *string          `json:"merk"`
	Type      *string          `json:"tipe_transaksi" binding:"omitempty,oneof=stock_awal masuk keluar"`
	Quantity  *int64           `json:"jumlah"`
	UnitPrice *decimal.Decimal `json:"harga"`
	Notes     *string          `json:"keterangan"`
}

// ListFilter narrows transaction listings
type ListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Date     string `form:"tanggal"`
	Month    string `form:"bulan"`
	Type     string `form:"tipe_transaksi"`
	Name     string `form:"sparepart"`
}

// TransactionResponse is the read model for one ledger record
type TransactionResponse struct {
	ID        uuid.UUID       `json:"id"`
	Date      string          `json:"tanggal"`
	SKU       string          `json:"sku,omitempty"`
	Name      string          `json:"sparepart"`
	Category  string          `json:"jenis"`
	Brand     string          `json:"merk"`
	Type      string          `json:"tipe_transaksi"`
	Quantity  int64           `json:"jumlah"`
	UnitPrice decimal.Decimal `json:"harga"`
	Total     decimal.Decimal `json:"total"`
	Notes     string          `json:"keterangan,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StatsResponse carries the dashboard totals for one day
type StatsResponse struct {
	Date             string          `json:"tanggal"`
	TransactionCount int64           `json:"transaction_count"`
	TotalIn          int64           `json:"total_masuk"`
	TotalOut         int64           `json:"total_keluar"`
	TotalValue       decimal.Decimal `json:"total_nilai"`
}

// DeleteAllResponse reports the outcome of a full wipe
type DeleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}

// ImportResult reports a successful bulk import
type ImportResult struct {
	Imported int `json:"imported"`
}

// ToTransactionResponse maps a domain record to its read model
func ToTransactionResponse(tx *ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        tx.ID,
		Date:      tx.Date.Format(dateLayout),
		SKU:       tx.SKU,
		Name:      tx.Name,
		Category:  tx.Category,
		Brand:     tx.Brand,
		Type:      tx.Type.String(),
		Quantity:  tx.Quantity,
		UnitPrice: tx.UnitPrice,
		Total:     tx.Total,
		Notes:     tx.Notes,
		CreatedAt: tx.CreatedAt,
		UpdatedAt: tx.UpdatedAt,
	}
}

// ToTransactionResponses maps a slice of domain records
func ToTransactionResponses(txs []ledger.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		responses = append(responses, ToTransactionResponse(&txs[i]))
	}
	return responses
}
