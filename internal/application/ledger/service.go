package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gudang/backend/internal/domain/identity"
	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/shared"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Confirmer decides whether a caller-supplied phrase authorizes a
// destructive bulk operation
type Confirmer interface {
	ConfirmDestructive(phrase string) bool
}

// Service provides application services for ledger operations
type Service struct {
	repo      ledger.TransactionRepository
	validator *ledger.Validator
	confirmer Confirmer
	logger    *zap.Logger
}

// NewService creates a new ledger Service
func NewService(
	repo ledger.TransactionRepository,
	validator *ledger.Validator,
	confirmer Confirmer,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		confirmer: confirmer,
		logger:    logger,
	}
}

// Add records a new stock movement. Hard rule violations return a
// ValidationError; warnings return a ConfirmationRequiredError unless the
// request carries confirm=true.
func (s *Service) Add(ctx context.Context, req CreateTransactionRequest) (*TransactionResponse, error) {
	tx, err := s.buildTransaction(req)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.FindForItem(ctx, tx.SKU, tx.Name, tx.Category, tx.Brand)
	if err != nil {
		return nil, err
	}

	result := s.validator.ValidateNew(tx, history)
	if !result.OK() {
		return nil, shared.NewValidationError(result.Errors...)
	}
	if result.HasWarnings() && !req.Confirm {
		return nil, shared.NewConfirmationRequiredError(result.Warnings)
	}

	if err := s.repo.Save(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("transaction recorded",
		zap.String("id", tx.ID.String()),
		zap.String("type", tx.Type.String()),
		zap.String("sparepart", tx.Name),
		zap.Int64("jumlah", tx.Quantity))

	response := ToTransactionResponse(tx)
	return &response, nil
}

// Get retrieves a transaction by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTransactionResponse(tx)
	return &response, nil
}

// List retrieves a paginated list of transactions
func (s *Service) List(ctx context.Context, filter ListFilter) ([]TransactionResponse, int64, error) {
	domainFilter, err := s.buildFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	txs, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransactionResponses(txs), total, nil
}

// Edit applies a partial update to an existing record. Editing history is a
// privileged action gated by the delete capability.
func (s *Service) Edit(ctx context.Context, caller identity.Capability, id uuid.UUID, req UpdateTransactionRequest) (*TransactionResponse, error) {
	if !caller.IsAllowed(identity.ActionDelete) {
		return nil, shared.ErrForbidden
	}

	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch, err := s.buildPatch(req)
	if err != nil {
		return nil, err
	}
	if err := tx.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("transaction edited", zap.String("id", tx.ID.String()))

	response := ToTransactionResponse(tx)
	return &response, nil
}

// Remove deletes a single record. Privileged.
func (s *Service) Remove(ctx context.Context, caller identity.Capability, id uuid.UUID) error {
	if !caller.IsAllowed(identity.ActionDelete) {
		return shared.ErrForbidden
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("transaction deleted", zap.String("id", id.String()))
	return nil
}

// DeleteAll wipes the entire ledger. It requires both the deleteAllData
// capability and the exact destructive-confirmation phrase.
func (s *Service) DeleteAll(ctx context.Context, caller identity.Capability, phrase string) (*DeleteAllResponse, error) {
	if !caller.IsAllowed(identity.ActionDeleteAllData) {
		return nil, shared.ErrForbidden
	}
	if !s.confirmer.ConfirmDestructive(phrase) {
		return nil, shared.NewDomainError("CONFIRMATION_MISMATCH", "Confirmation phrase does not match")
	}

	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Warn("ledger wiped", zap.Int64("deleted", deleted))
	return &DeleteAllResponse{Deleted: deleted}, nil
}

// Stats computes the dashboard totals for one day
func (s *Service) Stats(ctx context.Context, day time.Time) (*StatsResponse, error) {
	day = day.Truncate(24 * time.Hour)
	txs, err := s.repo.FindAll(ctx, ledger.Filter{Date: &day})
	if err != nil {
		return nil, err
	}

	stats := &StatsResponse{
		Date:             day.Format(dateLayout),
		TransactionCount: int64(len(txs)),
		TotalValue:       decimal.Zero,
	}
	for i := range txs {
		tx := &txs[i]
		if tx.Type.IsInbound() {
			stats.TotalIn += tx.Quantity
		} else {
			stats.TotalOut += tx.Quantity
		}
		stats.TotalValue = stats.TotalValue.Add(tx.Total)
	}
	return stats, nil
}

// buildTransaction converts the request to a domain record
func (s *Service) buildTransaction(req CreateTransactionRequest) (*ledger.Transaction, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Tanggal must use format YYYY-MM-DD")
	}
	return ledger.NewTransaction(
		date, req.SKU, req.Name, req.Category, req.Brand,
		ledger.Type(req.Type), req.Quantity, req.UnitPrice, req.Notes,
	)
}

// buildPatch converts the update request to a domain patch
func (s *Service) buildPatch(req UpdateTransactionRequest) (ledger.Patch, error) {
	patch := ledger.Patch{
		SKU:       req.SKU,
		Name:      req.Name,
		Category:  req.Category,
		Brand:     req.Brand,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Notes:     req.Notes,
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return ledger.Patch{}, shared.NewDomainError("INVALID_DATE", "Tanggal must use format YYYY-MM-DD")
		}
		patch.Date = &date
	}
	if req.Type != nil {
		txType := ledger.Type(*req.Type)
		patch.Type = &txType
	}
	return patch, nil
}

// buildFilter converts the list filter to a domain filter
func (s *Service) buildFilter(filter ListFilter) (ledger.Filter, error) {
	domainFilter := ledger.Filter{
		Filter: shared.DefaultFilter(),
		Type:   ledger.Type(filter.Type),
		Name:   strings.TrimSpace(filter.Name),
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Date != "" {
		date, err := time.Parse(dateLayout, filter.Date)
		if err != nil {
			return ledger.Filter{}, shared.NewDomainError("INVALID_DATE", "Tanggal must use format YYYY-MM-DD")
		}
		domainFilter.Date = &date
	}
	if filter.Month != "" {
		month, err := valueobject.ParseMonth(filter.Month)
		if err != nil {
			return ledger.Filter{}, err
		}
		domainFilter.Month = &month
	}
	return domainFilter, nil
}
