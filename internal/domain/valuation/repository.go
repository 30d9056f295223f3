package valuation

import (
	"context"

	"github.com/gudang/backend/internal/domain/shared/valueobject"
)

// ReportRepository persists generated monthly reports. Regenerating a month
// replaces its lines wholesale; FindByMonth returns shared.ErrNotFound when
// the month has never been generated.
type ReportRepository interface {
	Replace(ctx context.Context, report *MonthlyReport) error
	FindByMonth(ctx context.Context, month valueobject.Month) (*MonthlyReport, error)
	DeleteByMonth(ctx context.Context, month valueobject.Month) error
	Months(ctx context.Context) ([]valueobject.Month, error)
}
