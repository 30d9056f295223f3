package ledger

import (
	"strings"
	"time"

	"github.com/gudang/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Type represents the kind of stock movement a transaction records
type Type string

const (
	// TypeStockAwal is the opening stock entry for an item
	TypeStockAwal Type = "stock_awal"
	// TypeMasuk is stock entering inventory
	TypeMasuk Type = "masuk"
	// TypeKeluar is stock leaving inventory
	TypeKeluar Type = "keluar"
)

// String returns the string representation of the type
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypeStockAwal, TypeMasuk, TypeKeluar:
		return true
	}
	return false
}

// IsInbound returns true if this type adds to stock on hand
func (t Type) IsInbound() bool {
	return t == TypeStockAwal || t == TypeMasuk
}

// Transaction is a single stock-movement record. The ledger owns its
// lifetime: records are appended on entry, mutated only through explicit
// edits, and removed only by privileged admin action.
type Transaction struct {
	shared.BaseEntity
	Date      time.Time       `gorm:"type:date;not null;index:idx_transactions_date"`
	SKU       string          `gorm:"type:varchar(50);index:idx_transactions_sku"`
	Name      string          `gorm:"type:varchar(120);not null"`
	Category  string          `gorm:"type:varchar(60);not null"`
	Brand     string          `gorm:"type:varchar(60);not null"`
	Type      Type            `gorm:"type:varchar(20);not null;index:idx_transactions_type"`
	Quantity  int64           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Notes     string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction creates a stock-movement record. Identity fields are trimmed
// and the SKU normalized to uppercase; Total is derived from quantity and
// price. Business-rule validation (field lengths, identity conflicts,
// duplicate heuristics) is the Validator's job and runs before the ledger
// accepts the record.
func NewTransaction(
	date time.Time,
	sku, name, category, brand string,
	txType Type,
	quantity int64,
	unitPrice decimal.Decimal,
	notes string,
) (*Transaction, error) {
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Transaction date cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Transaction type must be stock_awal, masuk or keluar")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	tx := &Transaction{
		BaseEntity: shared.NewBaseEntity(),
		Date:       date,
		SKU:        NormalizeSKU(sku),
		Name:       strings.TrimSpace(name),
		Category:   strings.TrimSpace(category),
		Brand:      strings.TrimSpace(brand),
		Type:       txType,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Notes:      notes,
	}
	tx.Total = tx.UnitPrice.Mul(decimal.NewFromInt(tx.Quantity))

	return tx, nil
}

// Key derives the item key identifying the unit this record moves
func (t *Transaction) Key() ItemKey {
	return KeyFor(t.SKU, t.Name, t.Category, t.Brand)
}

// SignedQuantity returns the quantity with sign based on movement direction
func (t *Transaction) SignedQuantity() int64 {
	if t.Type.IsInbound() {
		return t.Quantity
	}
	return -t.Quantity
}

// Patch describes a partial edit to an existing transaction. Nil fields are
// left unchanged.
type Patch struct {
	Date      *time.Time
	SKU       *string
	Name      *string
	Category  *string
	Brand     *string
	Type      *Type
	Quantity  *int64
	UnitPrice *decimal.Decimal
	Notes     *string
}

// Apply mutates the transaction with the patch, re-deriving the total. The
// same structural invariants as NewTransaction hold.
func (t *Transaction) Apply(p Patch) error {
	if p.Date != nil {
		if p.Date.IsZero() {
			return shared.NewDomainError("INVALID_DATE", "Transaction date cannot be empty")
		}
		t.Date = *p.Date
	}
	if p.Type != nil {
		if !p.Type.IsValid() {
			return shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Transaction type must be stock_awal, masuk or keluar")
		}
		t.Type = *p.Type
	}
	if p.Quantity != nil {
		if *p.Quantity <= 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		t.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		if p.UnitPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
		t.UnitPrice = *p.UnitPrice
	}
	if p.SKU != nil {
		t.SKU = NormalizeSKU(*p.SKU)
	}
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil {
		t.Category = strings.TrimSpace(*p.Category)
	}
	if p.Brand != nil {
		t.Brand = strings.TrimSpace(*p.Brand)
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}

	t.Total = t.UnitPrice.Mul(decimal.NewFromInt(t.Quantity))
	t.UpdatedAt = time.Now()
	return nil
}
