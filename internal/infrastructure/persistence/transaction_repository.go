package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/shared"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
	"gorm.io/gorm"
)

// GormTransactionRepository implements ledger.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Save persists a new ledger record
func (r *GormTransactionRepository) Save(ctx context.Context, tx *ledger.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// SaveBatch persists all records in a single insert, so either every
// record lands or none do
func (r *GormTransactionRepository) SaveBatch(ctx context.Context, txs []*ledger.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&txs).Error
}

// Update updates an existing ledger record
func (r *GormTransactionRepository) Update(ctx context.Context, tx *ledger.Transaction) error {
	result := r.db.WithContext(ctx).Save(tx)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a ledger record by ID
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ledger.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAll wipes the ledger and returns the number of removed records
func (r *GormTransactionRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&ledger.Transaction{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindByID finds a ledger record by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var tx ledger.Transaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindAll returns ledger records matching the filter
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter ledger.Filter) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	query := applyPagination(r.applyFilter(r.baseQuery(ctx), filter), filter.Filter)
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Count counts ledger records matching the filter, ignoring pagination
func (r *GormTransactionRepository) Count(ctx context.Context, filter ledger.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.baseQuery(ctx), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByMonth returns every record dated within the month, ordered by date
func (r *GormTransactionRepository) FindByMonth(ctx context.Context, month valueobject.Month) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	if err := r.baseQuery(ctx).
		Where("date >= ? AND date < ?", month.Start(), month.End()).
		Order("date ASC, created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindForItem returns every record for one item. A non-empty SKU matches by
// SKU alone; otherwise records without a SKU are matched on the composite
// identity, name and brand case-insensitively.
func (r *GormTransactionRepository) FindForItem(ctx context.Context, sku, name, category, brand string) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	query := r.baseQuery(ctx)

	if normalized := ledger.NormalizeSKU(sku); normalized != "" {
		query = query.Where("sku = ?", normalized)
	} else {
		query = query.Where(
			"sku = '' AND LOWER(name) = LOWER(?) AND category = ? AND LOWER(brand) = LOWER(?)",
			name, category, brand,
		)
	}

	if err := query.Order("date ASC, created_at ASC").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *GormTransactionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&ledger.Transaction{})
}

func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter ledger.Filter) *gorm.DB {
	if filter.Date != nil {
		query = query.Where("date = ?", filter.Date.Format("2006-01-02"))
	}
	if filter.Month != nil {
		query = query.Where("date >= ? AND date < ?", filter.Month.Start(), filter.Month.End())
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	return query
}

// applyPagination applies ordering and paging. A non-positive page size
// means the caller wants the full result set, exports rely on that.
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, TransactionSortFields, "date")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormTransactionRepository implements ledger.TransactionRepository
var _ ledger.TransactionRepository = (*GormTransactionRepository)(nil)
