package audit

import (
	"context"

	"github.com/gudang/backend/internal/domain/audit"
	"github.com/gudang/backend/internal/domain/ledger"
	"go.uber.org/zap"
)

// Service runs the data integrity audit over the whole ledger
type Service struct {
	repo    ledger.TransactionRepository
	checker *audit.Checker
	logger  *zap.Logger
}

// NewService creates a new audit service
func NewService(repo ledger.TransactionRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		checker: audit.NewChecker(),
		logger:  logger,
	}
}

// Run loads every ledger record and returns the integrity findings
func (s *Service) Run(ctx context.Context) (*audit.Report, error) {
	txs, err := s.repo.FindAll(ctx, ledger.Filter{})
	if err != nil {
		return nil, err
	}

	records := make([]*ledger.Transaction, 0, len(txs))
	for i := range txs {
		records = append(records, &txs[i])
	}

	report := s.checker.Check(records)
	if !report.Clean() {
		s.logger.Info("integrity audit found issues",
			zap.Int("total", report.Total()),
			zap.Int("records", len(records)),
		)
	}
	return report, nil
}
