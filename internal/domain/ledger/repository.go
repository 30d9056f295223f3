package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gudang/backend/internal/domain/shared"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
)

// Filter narrows ledger queries. Zero-value fields are ignored.
type Filter struct {
	shared.Filter
	Date  *time.Time
	Month *valueobject.Month
	Type  Type
	Name  string // substring match on item name
}

// TransactionRepository is the ledger's storage collaborator. The core makes
// no assumption about the storage technology behind it; it calls synchronously
// and surfaces failures as ordinary errors. No ordering guarantee is imposed
// on returned sequences unless a method documents one.
type TransactionRepository interface {
	Save(ctx context.Context, tx *Transaction) error
	// SaveBatch appends all records atomically: either every record is
	// persisted or none are.
	SaveBatch(ctx context.Context, txs []*Transaction) error
	Update(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteAll wipes the ledger and returns the number of removed records.
	DeleteAll(ctx context.Context) (int64, error)

	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindAll(ctx context.Context, filter Filter) ([]Transaction, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	FindByMonth(ctx context.Context, month valueobject.Month) ([]Transaction, error)
	// FindForItem returns every record matching the SKU (when non-empty) or
	// the composite identity, for history-dependent validation.
	FindForItem(ctx context.Context, sku, name, category, brand string) ([]Transaction, error)
}

// Each returns the subsequence of txs matching pred, in input order. The
// ledger imposes no ordering; callers needing chronology sort explicitly.
func Each(txs []Transaction, pred func(*Transaction) bool) []Transaction {
	matched := make([]Transaction, 0)
	for i := range txs {
		if pred(&txs[i]) {
			matched = append(matched, txs[i])
		}
	}
	return matched
}
