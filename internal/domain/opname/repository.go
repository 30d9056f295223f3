package opname

import (
	"context"

	"github.com/google/uuid"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
)

// WorksheetRepository defines the persistence interface for opname
// worksheets. At most one worksheet exists per month; FindByMonth returns
// shared.ErrNotFound when the month has none.
type WorksheetRepository interface {
	Save(ctx context.Context, worksheet *Worksheet) error
	Update(ctx context.Context, worksheet *Worksheet) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Worksheet, error)
	FindByMonth(ctx context.Context, month valueobject.Month) (*Worksheet, error)
	ExistsForMonth(ctx context.Context, month valueobject.Month) (bool, error)
}
