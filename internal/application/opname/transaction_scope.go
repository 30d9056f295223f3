package opname

import (
	"context"

	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/opname"
)

// TransactionScope provides transactional access to the repositories an
// opname save touches. Within Execute all repository operations share one
// database transaction and commit or roll back together.
type TransactionScope interface {
	// Execute runs fn inside a transaction. An error from fn rolls the
	// transaction back; nil commits it.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories scoped to the running
// transaction. Saving a worksheet appends its adjustments to the ledger and
// clears the worksheet as one atomic unit.
type TransactionalRepositories interface {
	Transactions() ledger.TransactionRepository
	Worksheets() opname.WorksheetRepository
}

// NoOpTransactionScope runs the function without a real transaction. Used in
// tests and anywhere transactional guarantees are not required.
type NoOpTransactionScope struct {
	txRepo        ledger.TransactionRepository
	worksheetRepo opname.WorksheetRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(txRepo ledger.TransactionRepository, worksheetRepo opname.WorksheetRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{txRepo: txRepo, worksheetRepo: worksheetRepo}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Transactions returns the ledger repository
func (s *NoOpTransactionScope) Transactions() ledger.TransactionRepository {
	return s.txRepo
}

// Worksheets returns the worksheet repository
func (s *NoOpTransactionScope) Worksheets() opname.WorksheetRepository {
	return s.worksheetRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
