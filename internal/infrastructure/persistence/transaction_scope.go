package persistence

import (
	"context"

	appopname "github.com/gudang/backend/internal/application/opname"
	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/opname"
	"gorm.io/gorm"
)

// GormTransactionScope implements the opname TransactionScope using GORM
// transactions, so saving a worksheet's adjustments and clearing the
// worksheet commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. An error from fn rolls
// everything back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appopname.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Transactions returns the ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) Transactions() ledger.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

// Worksheets returns the worksheet repository scoped to the current transaction
func (r *gormTransactionalRepositories) Worksheets() opname.WorksheetRepository {
	return NewGormWorksheetRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appopname.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appopname.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
