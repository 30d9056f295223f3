package opname

import (
	"context"
	"errors"
	"time"

	"github.com/gudang/backend/internal/domain/identity"
	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/opname"
	"github.com/gudang/backend/internal/domain/shared"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
	"github.com/gudang/backend/internal/domain/valuation"
	"go.uber.org/zap"
)

// Service provides application services for stock opname sessions
type Service struct {
	scope         TransactionScope
	worksheetRepo opname.WorksheetRepository
	txRepo        ledger.TransactionRepository
	reportRepo    valuation.ReportRepository
	engine        *valuation.Engine
	logger        *zap.Logger
}

// NewService creates a new opname Service
func NewService(
	scope TransactionScope,
	worksheetRepo opname.WorksheetRepository,
	txRepo ledger.TransactionRepository,
	reportRepo valuation.ReportRepository,
	engine *valuation.Engine,
	logger *zap.Logger,
) *Service {
	return &Service{
		scope:         scope,
		worksheetRepo: worksheetRepo,
		txRepo:        txRepo,
		reportRepo:    reportRepo,
		engine:        engine,
		logger:        logger,
	}
}

// Create starts a counting session for a month, snapshotting book stock from
// the monthly report (default) or the live ledger position. Privileged. An
// existing worksheet blocks creation unless replace is requested.
func (s *Service) Create(ctx context.Context, caller identity.Capability, req CreateRequest) (*WorksheetResponse, error) {
	if !caller.IsAllowed(identity.ActionOpnameCreate) {
		return nil, shared.ErrForbidden
	}

	month, err := valueobject.ParseMonth(req.Month)
	if err != nil {
		return nil, err
	}

	replaced := false
	if req.Replace {
		existing, err := s.worksheetRepo.FindByMonth(ctx, month)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			if err := s.worksheetRepo.Delete(ctx, existing.ID); err != nil {
				return nil, err
			}
			replaced = true
		}
	} else {
		exists, err := s.worksheetRepo.ExistsForMonth(ctx, month)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("WORKSHEET_EXISTS", "An opname worksheet already exists for this month")
		}
	}

	source, err := s.snapshot(ctx, month, req.Mode)
	if err != nil {
		return nil, err
	}

	worksheet, err := opname.NewWorksheet(month, source)
	if err != nil {
		return nil, err
	}
	if err := s.worksheetRepo.Save(ctx, worksheet); err != nil {
		return nil, err
	}

	s.logger.Info("opname worksheet created",
		zap.String("month", month.String()),
		zap.Int("lines", len(worksheet.Lines)),
		zap.Bool("replaced", replaced))

	return ToWorksheetResponse(worksheet), nil
}

// Get returns the month's worksheet
func (s *Service) Get(ctx context.Context, monthText string) (*WorksheetResponse, error) {
	worksheet, err := s.find(ctx, monthText)
	if err != nil {
		return nil, err
	}
	return ToWorksheetResponse(worksheet), nil
}

// SetCount records a physical count on one worksheet line
func (s *Service) SetCount(ctx context.Context, monthText string, req SetCountRequest) (*WorksheetResponse, error) {
	worksheet, err := s.findForUpdate(ctx, monthText)
	if err != nil {
		return nil, err
	}
	if err := worksheet.SetPhysicalCount(req.LineID, req.Count); err != nil {
		return nil, err
	}
	if err := s.worksheetRepo.Update(ctx, worksheet); err != nil {
		return nil, err
	}
	return ToWorksheetResponse(worksheet), nil
}

// SetNote annotates one worksheet line
func (s *Service) SetNote(ctx context.Context, monthText string, req SetNoteRequest) (*WorksheetResponse, error) {
	worksheet, err := s.findForUpdate(ctx, monthText)
	if err != nil {
		return nil, err
	}
	if err := worksheet.SetNote(req.LineID, req.Note); err != nil {
		return nil, err
	}
	if err := s.worksheetRepo.Update(ctx, worksheet); err != nil {
		return nil, err
	}
	return ToWorksheetResponse(worksheet), nil
}

// Save reconciles the worksheet: every line with a nonzero selisih becomes
// one adjustment transaction, the batch is appended to the ledger and the
// worksheet cleared, all atomically. A worksheet with no differences is
// cleared without touching the ledger and reported as a no-op.
func (s *Service) Save(ctx context.Context, monthText string) (*SaveResponse, error) {
	worksheet, err := s.findForUpdate(ctx, monthText)
	if err != nil {
		return nil, err
	}

	adjustments, err := worksheet.Adjustments(time.Now())
	if err != nil {
		return nil, err
	}
	if err := worksheet.MarkSaved(); err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if len(adjustments) > 0 {
			if err := repos.Transactions().SaveBatch(ctx, adjustments); err != nil {
				return err
			}
		}
		return repos.Worksheets().Delete(ctx, worksheet.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("opname saved",
		zap.String("month", worksheet.Month.String()),
		zap.Int("adjustments", len(adjustments)))

	return &SaveResponse{Adjustments: len(adjustments), NoOp: len(adjustments) == 0}, nil
}

// Delete discards the month's worksheet without emitting adjustments. Privileged.
func (s *Service) Delete(ctx context.Context, caller identity.Capability, monthText string) error {
	if !caller.IsAllowed(identity.ActionOpnameDelete) {
		return shared.ErrForbidden
	}

	worksheet, err := s.find(ctx, monthText)
	if err != nil {
		return err
	}
	if err := s.worksheetRepo.Delete(ctx, worksheet.ID); err != nil {
		return err
	}

	s.logger.Info("opname worksheet discarded", zap.String("month", worksheet.Month.String()))
	return nil
}

// Export returns the month's worksheet as ordered tabular rows
func (s *Service) Export(ctx context.Context, monthText string) ([][]string, error) {
	worksheet, err := s.find(ctx, monthText)
	if err != nil {
		return nil, err
	}
	return ExportRows(worksheet), nil
}

// find parses the month and loads its worksheet
func (s *Service) find(ctx context.Context, monthText string) (*opname.Worksheet, error) {
	month, err := valueobject.ParseMonth(monthText)
	if err != nil {
		return nil, err
	}
	return s.worksheetRepo.FindByMonth(ctx, month)
}

// findForUpdate loads the worksheet for a mutating operation. Mutating a
// month with no open worksheet is a state misuse, not a lookup miss.
func (s *Service) findForUpdate(ctx context.Context, monthText string) (*opname.Worksheet, error) {
	worksheet, err := s.find(ctx, monthText)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewStateError("NO_ACTIVE_WORKSHEET", "No opname worksheet is open for this month")
	}
	return worksheet, err
}

// snapshot resolves the book-stock source lines for a new worksheet
func (s *Service) snapshot(ctx context.Context, month valueobject.Month, mode string) ([]valuation.ReportLine, error) {
	if mode == ModeLive {
		txs, err := s.txRepo.FindAll(ctx, ledger.Filter{})
		if err != nil {
			return nil, err
		}
		return s.engine.Rollup(txs), nil
	}

	stored, err := s.reportRepo.FindByMonth(ctx, month)
	if err == nil {
		return stored.Lines, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	// no stored report yet; compute the month directly from the ledger
	txs, err := s.txRepo.FindByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	return s.engine.Generate(month, txs).Lines, nil
}
