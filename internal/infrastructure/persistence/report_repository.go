package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/shared"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
	"github.com/gudang/backend/internal/domain/valuation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportLineModel is the storage shape of one valuation report line
type ReportLineModel struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key"`
	Month            valueobject.Month `gorm:"type:varchar(7);not null;index:idx_report_lines_month"`
	ItemKey          string            `gorm:"type:varchar(250);not null"`
	SKU              string            `gorm:"type:varchar(50)"`
	Name             string            `gorm:"type:varchar(120);not null"`
	Category         string            `gorm:"type:varchar(60);not null"`
	Brand            string            `gorm:"type:varchar(60);not null"`
	StockAwal        int64             `gorm:"not null"`
	HargaAwal        decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Masuk            int64             `gorm:"not null"`
	Keluar           int64             `gorm:"not null"`
	StockAkhir       int64             `gorm:"not null"`
	WeightedAvgPrice decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	TotalValue       decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Degenerate       bool              `gorm:"not null;default:false"`
	GeneratedAt      time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReportLineModel) TableName() string {
	return "monthly_report_lines"
}

func reportLineModelFromDomain(month valueobject.Month, generatedAt time.Time, line *valuation.ReportLine) *ReportLineModel {
	return &ReportLineModel{
		ID:               uuid.New(),
		Month:            month,
		ItemKey:          line.ItemKey.String(),
		SKU:              line.SKU,
		Name:             line.Name,
		Category:         line.Category,
		Brand:            line.Brand,
		StockAwal:        line.StockAwal,
		HargaAwal:        line.HargaAwal,
		Masuk:            line.Masuk,
		Keluar:           line.Keluar,
		StockAkhir:       line.StockAkhir,
		WeightedAvgPrice: line.WeightedAvgPrice,
		TotalValue:       line.TotalValue,
		Degenerate:       line.Degenerate,
		GeneratedAt:      generatedAt,
	}
}

func (m *ReportLineModel) toDomain() valuation.ReportLine {
	return valuation.ReportLine{
		ItemKey:          ledger.ItemKey(m.ItemKey),
		SKU:              m.SKU,
		Name:             m.Name,
		Category:         m.Category,
		Brand:            m.Brand,
		StockAwal:        m.StockAwal,
		HargaAwal:        m.HargaAwal,
		Masuk:            m.Masuk,
		Keluar:           m.Keluar,
		StockAkhir:       m.StockAkhir,
		WeightedAvgPrice: m.WeightedAvgPrice,
		TotalValue:       m.TotalValue,
		Degenerate:       m.Degenerate,
	}
}

// GormReportRepository implements valuation.ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// Replace swaps out the stored lines for the report's month in one
// transaction
func (r *GormReportRepository) Replace(ctx context.Context, report *valuation.MonthlyReport) error {
	models := make([]*ReportLineModel, 0, len(report.Lines))
	for i := range report.Lines {
		models = append(models, reportLineModelFromDomain(report.Month, report.GeneratedAt, &report.Lines[i]))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("month = ?", report.Month).Delete(&ReportLineModel{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.Create(&models).Error
	})
}

// FindByMonth loads a stored report. Returns shared.ErrNotFound when the
// month has never been generated.
func (r *GormReportRepository) FindByMonth(ctx context.Context, month valueobject.Month) (*valuation.MonthlyReport, error) {
	var models []ReportLineModel
	if err := r.db.WithContext(ctx).
		Where("month = ?", month).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, shared.ErrNotFound
	}

	report := &valuation.MonthlyReport{
		Month:       month,
		Lines:       make([]valuation.ReportLine, 0, len(models)),
		GeneratedAt: models[0].GeneratedAt,
	}
	for i := range models {
		report.Lines = append(report.Lines, models[i].toDomain())
	}
	return report, nil
}

// DeleteByMonth removes the stored report for a month, if any
func (r *GormReportRepository) DeleteByMonth(ctx context.Context, month valueobject.Month) error {
	return r.db.WithContext(ctx).Where("month = ?", month).Delete(&ReportLineModel{}).Error
}

// Months lists every month with a stored report, most recent first
func (r *GormReportRepository) Months(ctx context.Context) ([]valueobject.Month, error) {
	var months []valueobject.Month
	if err := r.db.WithContext(ctx).
		Model(&ReportLineModel{}).
		Distinct("month").
		Order("month DESC").
		Pluck("month", &months).Error; err != nil {
		return nil, err
	}
	return months, nil
}

// Ensure GormReportRepository implements valuation.ReportRepository
var _ valuation.ReportRepository = (*GormReportRepository)(nil)
