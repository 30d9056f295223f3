package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gudang/backend/internal/domain/opname"
	"github.com/gudang/backend/internal/domain/shared"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
	"gorm.io/gorm"
)

// GormWorksheetRepository implements opname.WorksheetRepository using GORM
type GormWorksheetRepository struct {
	db *gorm.DB
}

// NewGormWorksheetRepository creates a new GormWorksheetRepository
func NewGormWorksheetRepository(db *gorm.DB) *GormWorksheetRepository {
	return &GormWorksheetRepository{db: db}
}

// Save persists a new worksheet together with its lines
func (r *GormWorksheetRepository) Save(ctx context.Context, worksheet *opname.Worksheet) error {
	return r.db.WithContext(ctx).Create(worksheet).Error
}

// Update persists worksheet and line changes. Lines are replaced wholesale
// so count edits on individual lines always land.
func (r *GormWorksheetRepository) Update(ctx context.Context, worksheet *opname.Worksheet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Omit("Lines").Save(worksheet)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Where("worksheet_id = ?", worksheet.ID).Delete(&opname.Line{}).Error; err != nil {
			return err
		}
		if len(worksheet.Lines) == 0 {
			return nil
		}
		return tx.Create(&worksheet.Lines).Error
	})
}

// Delete removes a worksheet and its lines
func (r *GormWorksheetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("worksheet_id = ?", id).Delete(&opname.Line{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&opname.Worksheet{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID loads a worksheet with its lines
func (r *GormWorksheetRepository) FindByID(ctx context.Context, id uuid.UUID) (*opname.Worksheet, error) {
	var worksheet opname.Worksheet
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&worksheet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &worksheet, nil
}

// FindByMonth loads the worksheet for a month, with its lines
func (r *GormWorksheetRepository) FindByMonth(ctx context.Context, month valueobject.Month) (*opname.Worksheet, error) {
	var worksheet opname.Worksheet
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&worksheet, "month = ?", month).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &worksheet, nil
}

// ExistsForMonth reports whether a worksheet exists for the month
func (r *GormWorksheetRepository) ExistsForMonth(ctx context.Context, month valueobject.Month) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&opname.Worksheet{}).
		Where("month = ?", month).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormWorksheetRepository implements opname.WorksheetRepository
var _ opname.WorksheetRepository = (*GormWorksheetRepository)(nil)
