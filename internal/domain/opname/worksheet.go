package opname

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/shared"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
	"github.com/gudang/backend/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// Status represents the state of an opname worksheet. A month with no
// worksheet row is the implicit NONE state; saving clears the worksheet so a
// fresh create is required to reopen the month.
type Status string

const (
	// StatusCreated is a freshly snapshotted worksheet with no counts yet
	StatusCreated Status = "CREATED"
	// StatusInProgress is a worksheet with at least one recorded count
	StatusInProgress Status = "IN_PROGRESS"
	// StatusSaved marks a worksheet whose adjustments have been emitted
	StatusSaved Status = "SAVED"
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the status is a valid worksheet status
func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusSaved:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusCreated:
		return target == StatusInProgress || target == StatusSaved
	case StatusInProgress:
		return target == StatusSaved
	case StatusSaved:
		return false // terminal; the worksheet is cleared after save
	}
	return false
}

// Line is one item on the counting worksheet. StockSistem and Harga are
// frozen at snapshot time; StockFisik starts equal to StockSistem and is
// edited in place as the physical count proceeds.
type Line struct {
	shared.BaseEntity
	WorksheetID uuid.UUID       `gorm:"type:uuid;not null;index:idx_opname_lines_worksheet"`
	SKU         string          `gorm:"type:varchar(50)"`
	Name        string          `gorm:"type:varchar(120);not null"`
	Category    string          `gorm:"type:varchar(60);not null"`
	Brand       string          `gorm:"type:varchar(60);not null"`
	StockSistem int64           `gorm:"not null"`
	StockFisik  int64           `gorm:"not null"`
	Selisih     int64           `gorm:"not null"`
	Harga       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ValueSistem decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ValueFisik  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Keterangan  string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "opname_lines"
}

// Key derives the item key for the counted unit
func (l *Line) Key() ledger.ItemKey {
	return ledger.KeyFor(l.SKU, l.Name, l.Category, l.Brand)
}

// setCount records the physical count, recomputing only this line. Negative
// or otherwise invalid input coerces to 0.
func (l *Line) setCount(count int64) {
	if count < 0 {
		count = 0
	}
	l.StockFisik = count
	l.Selisih = l.StockFisik - l.StockSistem
	l.ValueFisik = l.Harga.Mul(decimal.NewFromInt(l.StockFisik))
	l.UpdatedAt = time.Now()
}

// HasSelisih reports whether the physical count differs from book stock
func (l *Line) HasSelisih() bool {
	return l.Selisih != 0
}

// Worksheet is the per-month physical count session. It is the aggregate
// root for opname operations; at most one worksheet exists per month.
type Worksheet struct {
	shared.BaseAggregateRoot
	Month  valueobject.Month `gorm:"type:varchar(7);not null;uniqueIndex:idx_opname_worksheets_month"`
	Status Status            `gorm:"type:varchar(20);not null"`
	Lines  []Line            `gorm:"foreignKey:WorksheetID"`
}

// TableName returns the table name for GORM
func (Worksheet) TableName() string {
	return "opname_worksheets"
}

// NewWorksheet snapshots valuation lines into a counting worksheet. The
// source may be a generated monthly report or a live stock rollup; either
// way book stock and the weighted average price are frozen here.
func NewWorksheet(month valueobject.Month, source []valuation.ReportLine) (*Worksheet, error) {
	if month.IsZero() {
		return nil, shared.NewDomainError("INVALID_MONTH", "Opname month cannot be empty")
	}

	w := &Worksheet{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Month:             month,
		Status:            StatusCreated,
		Lines:             make([]Line, 0, len(source)),
	}

	for i := range source {
		src := &source[i]
		line := Line{
			BaseEntity:  shared.NewBaseEntity(),
			WorksheetID: w.ID,
			SKU:         src.SKU,
			Name:        src.Name,
			Category:    src.Category,
			Brand:       src.Brand,
			StockSistem: src.StockAkhir,
			StockFisik:  src.StockAkhir, // defaults to book stock
			Selisih:     0,
			Harga:       src.WeightedAvgPrice,
			ValueSistem: src.TotalValue,
			ValueFisik:  src.TotalValue,
		}
		w.Lines = append(w.Lines, line)
	}

	return w, nil
}

// SetPhysicalCount records the counted quantity for one line and moves the
// worksheet into IN_PROGRESS (idempotent once there)
func (w *Worksheet) SetPhysicalCount(lineID uuid.UUID, count int64) error {
	if w.Status == StatusSaved {
		return shared.NewStateError("WORKSHEET_SAVED", "Worksheet has been saved; create a new opname to edit counts")
	}

	line := w.line(lineID)
	if line == nil {
		return shared.NewDomainError("LINE_NOT_FOUND", "Worksheet line not found")
	}

	line.setCount(count)
	if w.Status == StatusCreated {
		w.Status = StatusInProgress
	}
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// SetNote annotates a line without recomputing anything
func (w *Worksheet) SetNote(lineID uuid.UUID, text string) error {
	if w.Status == StatusSaved {
		return shared.NewStateError("WORKSHEET_SAVED", "Worksheet has been saved; create a new opname to edit notes")
	}

	line := w.line(lineID)
	if line == nil {
		return shared.NewDomainError("LINE_NOT_FOUND", "Worksheet line not found")
	}

	line.Keterangan = text
	line.UpdatedAt = time.Now()
	w.UpdatedAt = time.Now()
	return nil
}

// Adjustments builds one correcting ledger transaction per line whose
// physical count differs from book stock: masuk for surplus, keluar for
// shortage, quantity |selisih|, priced at the frozen weighted average. An
// empty result means there is nothing to adjust.
func (w *Worksheet) Adjustments(today time.Time) ([]*ledger.Transaction, error) {
	adjustments := make([]*ledger.Transaction, 0)
	for i := range w.Lines {
		line := &w.Lines[i]
		if !line.HasSelisih() {
			continue
		}

		txType := ledger.TypeMasuk
		quantity := line.Selisih
		if line.Selisih < 0 {
			txType = ledger.TypeKeluar
			quantity = -line.Selisih
		}

		notes := fmt.Sprintf("Adjustment Stock Opname %s - %s", w.Month, line.Keterangan)
		adjustment, err := ledger.NewTransaction(
			today, line.SKU, line.Name, line.Category, line.Brand,
			txType, quantity, line.Harga, notes,
		)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adjustment)
	}
	return adjustments, nil
}

// MarkSaved transitions the worksheet to SAVED once its adjustments have
// been appended to the ledger
func (w *Worksheet) MarkSaved() error {
	if !w.Status.CanTransitionTo(StatusSaved) {
		return shared.NewStateError("INVALID_TRANSITION", fmt.Sprintf("Cannot save worksheet in status %s", w.Status))
	}
	w.Status = StatusSaved
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// line finds a worksheet line by ID
func (w *Worksheet) line(lineID uuid.UUID) *Line {
	for i := range w.Lines {
		if w.Lines[i].ID == lineID {
			return &w.Lines[i]
		}
	}
	return nil
}

// Summary aggregates the counting session totals shown on the opname screen
type Summary struct {
	TotalItems     int             `json:"total_items"`
	TotalValue     decimal.Decimal `json:"total_value"`
	SelisihPositif int64           `json:"selisih_positif"`
	SelisihNegatif int64           `json:"selisih_negatif"`
}

// Summary computes the worksheet totals. SelisihNegatif is reported as a
// positive magnitude.
func (w *Worksheet) Summary() Summary {
	s := Summary{TotalItems: len(w.Lines), TotalValue: decimal.Zero}
	for i := range w.Lines {
		line := &w.Lines[i]
		s.TotalValue = s.TotalValue.Add(line.ValueFisik)
		if line.Selisih > 0 {
			s.SelisihPositif += line.Selisih
		} else if line.Selisih < 0 {
			s.SelisihNegatif += -line.Selisih
		}
	}
	return s
}
