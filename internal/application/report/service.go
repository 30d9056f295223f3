package report

import (
	"context"
	"errors"

	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/shared"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
	"github.com/gudang/backend/internal/domain/valuation"
	"go.uber.org/zap"
)

// Cache holds generated reports keyed by month. A miss returns
// shared.ErrNotFound; cache failures other than a miss are logged and
// treated as misses so the database stays authoritative.
type Cache interface {
	Get(ctx context.Context, month valueobject.Month) (*valuation.MonthlyReport, error)
	Set(ctx context.Context, report *valuation.MonthlyReport) error
	Invalidate(ctx context.Context, month valueobject.Month) error
}

// Service provides application services for monthly valuation reports
type Service struct {
	txRepo     ledger.TransactionRepository
	reportRepo valuation.ReportRepository
	engine     *valuation.Engine
	cache      Cache
	logger     *zap.Logger
}

// NewService creates a new report Service
func NewService(
	txRepo ledger.TransactionRepository,
	reportRepo valuation.ReportRepository,
	engine *valuation.Engine,
	cache Cache,
	logger *zap.Logger,
) *Service {
	return &Service{
		txRepo:     txRepo,
		reportRepo: reportRepo,
		engine:     engine,
		cache:      cache,
		logger:     logger,
	}
}

// Generate computes the report for a month from the ledger, replaces the
// stored copy and refreshes the cache. Regenerating is always safe: the
// ledger is the source of truth and the result is deterministic.
func (s *Service) Generate(ctx context.Context, monthText string) (*Response, error) {
	month, err := valueobject.ParseMonth(monthText)
	if err != nil {
		return nil, err
	}

	report, err := s.compute(ctx, month)
	if err != nil {
		return nil, err
	}

	if err := s.reportRepo.Replace(ctx, report); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, month); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.String("month", month.String()), zap.Error(err))
	}
	if err := s.cache.Set(ctx, report); err != nil {
		s.logger.Warn("report cache write failed", zap.String("month", month.String()), zap.Error(err))
	}

	s.logger.Info("monthly report generated",
		zap.String("month", month.String()),
		zap.Int("lines", len(report.Lines)))

	return ToResponse(report), nil
}

// Get returns the report for a month, fastest source first: cache, then the
// stored copy, then a fresh computation that is returned without persisting.
func (s *Service) Get(ctx context.Context, monthText string) (*Response, error) {
	month, err := valueobject.ParseMonth(monthText)
	if err != nil {
		return nil, err
	}

	if cached, err := s.cache.Get(ctx, month); err == nil {
		return ToResponse(cached), nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("report cache read failed", zap.String("month", month.String()), zap.Error(err))
	}

	stored, err := s.reportRepo.FindByMonth(ctx, month)
	if err == nil {
		if cacheErr := s.cache.Set(ctx, stored); cacheErr != nil {
			s.logger.Warn("report cache write failed", zap.String("month", month.String()), zap.Error(cacheErr))
		}
		return ToResponse(stored), nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	report, err := s.compute(ctx, month)
	if err != nil {
		return nil, err
	}
	return ToResponse(report), nil
}

// Export returns the month's report as ordered tabular rows
func (s *Service) Export(ctx context.Context, monthText string) ([][]string, error) {
	month, err := valueobject.ParseMonth(monthText)
	if err != nil {
		return nil, err
	}
	report, err := s.domainReport(ctx, month)
	if err != nil {
		return nil, err
	}
	return ExportRows(report), nil
}

// Months lists every month that has a stored report
func (s *Service) Months(ctx context.Context) ([]string, error) {
	months, err := s.reportRepo.Months(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(months))
	for _, m := range months {
		out = append(out, m.String())
	}
	return out, nil
}

// compute runs the valuation engine over the month's ledger slice
func (s *Service) compute(ctx context.Context, month valueobject.Month) (*valuation.MonthlyReport, error) {
	txs, err := s.txRepo.FindByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	return s.engine.Generate(month, txs), nil
}

// domainReport resolves the domain-form report: cache, store, then compute
func (s *Service) domainReport(ctx context.Context, month valueobject.Month) (*valuation.MonthlyReport, error) {
	if cached, err := s.cache.Get(ctx, month); err == nil {
		return cached, nil
	}
	stored, err := s.reportRepo.FindByMonth(ctx, month)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return s.compute(ctx, month)
}
