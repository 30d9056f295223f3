package opname

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gudang/backend/internal/domain/identity"
	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/opname"
	"github.com/gudang/backend/internal/domain/shared"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
	"github.com/gudang/backend/internal/domain/valuation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryTxRepo is an in-memory ledger repository
type memoryTxRepo struct {
	ledger.TransactionRepository
	txs []*ledger.Transaction
}

func (r *memoryTxRepo) SaveBatch(_ context.Context, txs []*ledger.Transaction) error {
	r.txs = append(r.txs, txs...)
	return nil
}

func (r *memoryTxRepo) FindAll(_ context.Context, _ ledger.Filter) ([]ledger.Transaction, error) {
	out := make([]ledger.Transaction, 0, len(r.txs))
	for _, tx := range r.txs {
		out = append(out, *tx)
	}
	return out, nil
}

func (r *memoryTxRepo) FindByMonth(_ context.Context, month valueobject.Month) ([]ledger.Transaction, error) {
	out := make([]ledger.Transaction, 0)
	for _, tx := range r.txs {
		if month.Contains(tx.Date) {
			out = append(out, *tx)
		}
	}
	return out, nil
}

// memoryWorksheetRepo stores at most one worksheet per month
type memoryWorksheetRepo struct {
	worksheets map[uuid.UUID]*opname.Worksheet
}

func newMemoryWorksheetRepo() *memoryWorksheetRepo {
	return &memoryWorksheetRepo{worksheets: make(map[uuid.UUID]*opname.Worksheet)}
}

func (r *memoryWorksheetRepo) Save(_ context.Context, w *opname.Worksheet) error {
	r.worksheets[w.ID] = w
	return nil
}

func (r *memoryWorksheetRepo) Update(_ context.Context, w *opname.Worksheet) error {
	if _, ok := r.worksheets[w.ID]; !ok {
		return shared.ErrNotFound
	}
	r.worksheets[w.ID] = w
	return nil
}

func (r *memoryWorksheetRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.worksheets[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.worksheets, id)
	return nil
}

func (r *memoryWorksheetRepo) FindByID(_ context.Context, id uuid.UUID) (*opname.Worksheet, error) {
	w, ok := r.worksheets[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return w, nil
}

func (r *memoryWorksheetRepo) FindByMonth(_ context.Context, month valueobject.Month) (*opname.Worksheet, error) {
	for _, w := range r.worksheets {
		if w.Month == month {
			return w, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryWorksheetRepo) ExistsForMonth(ctx context.Context, month valueobject.Month) (bool, error) {
	_, err := r.FindByMonth(ctx, month)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// emptyReportRepo never has a stored report, forcing fresh computation
type emptyReportRepo struct{}

func (emptyReportRepo) Replace(context.Context, *valuation.MonthlyReport) error { return nil }
func (emptyReportRepo) FindByMonth(context.Context, valueobject.Month) (*valuation.MonthlyReport, error) {
	return nil, shared.ErrNotFound
}
func (emptyReportRepo) DeleteByMonth(context.Context, valueobject.Month) error { return nil }
func (emptyReportRepo) Months(context.Context) ([]valueobject.Month, error)    { return nil, nil }

func asAdmin() identity.Actor { return identity.Actor{Role: identity.RoleAdmin} }
func asStaff() identity.Actor { return identity.Actor{Role: identity.RoleStaff} }

type fixture struct {
	svc           *Service
	txRepo        *memoryTxRepo
	worksheetRepo *memoryWorksheetRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	txRepo := &memoryTxRepo{}
	worksheetRepo := newMemoryWorksheetRepo()
	scope := NewNoOpTransactionScope(txRepo, worksheetRepo)
	svc := NewService(scope, worksheetRepo, txRepo, emptyReportRepo{}, valuation.NewEngine(), zap.NewNop())
	return &fixture{svc: svc, txRepo: txRepo, worksheetRepo: worksheetRepo}
}

func (f *fixture) seed(t *testing.T, day string, txType ledger.Type, qty int64, price int64) {
	t.Helper()
	date, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	tx, err := ledger.NewTransaction(date, "OLI-01", "Oli Mesin", "Sparepart", "Astra",
		txType, qty, decimal.NewFromInt(price), "")
	require.NoError(t, err)
	f.txRepo.txs = append(f.txRepo.txs, tx)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots the month", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "2025-03-01", ledger.TypeStockAwal, 50, 150)

		resp, err := f.svc.Create(ctx, asAdmin(), CreateRequest{Month: "2025-03"})
		require.NoError(t, err)
		assert.Equal(t, "CREATED", resp.Status)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, int64(50), resp.Lines[0].StockSistem)
		assert.Equal(t, int64(50), resp.Lines[0].StockFisik)
	})

	t.Run("staff is refused", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Create(ctx, asStaff(), CreateRequest{Month: "2025-03"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("existing worksheet blocks unless replace", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "2025-03-01", ledger.TypeStockAwal, 50, 150)

		_, err := f.svc.Create(ctx, asAdmin(), CreateRequest{Month: "2025-03"})
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, asAdmin(), CreateRequest{Month: "2025-03"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "WORKSHEET_EXISTS", domainErr.Code)

		resp, err := f.svc.Create(ctx, asAdmin(), CreateRequest{Month: "2025-03", Replace: true})
		require.NoError(t, err)
		assert.Len(t, f.worksheetRepo.worksheets, 1)
		assert.Equal(t, "CREATED", resp.Status)
	})

	t.Run("live mode rolls up the whole ledger", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "2025-02-01", ledger.TypeStockAwal, 40, 150)
		f.seed(t, "2025-03-05", ledger.TypeMasuk, 10, 150)

		resp, err := f.svc.Create(ctx, asAdmin(), CreateRequest{Month: "2025-03", Mode: ModeLive})
		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, int64(50), resp.Lines[0].StockSistem)
	})
}

func TestService_SaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "2025-03-01", ledger.TypeStockAwal, 50, 150)

	created, err := f.svc.Create(ctx, asAdmin(), CreateRequest{Month: "2025-03"})
	require.NoError(t, err)

	_, err = f.svc.SetCount(ctx, "2025-03", SetCountRequest{LineID: created.Lines[0].ID, Count: 45})
	require.NoError(t, err)
	_, err = f.svc.SetNote(ctx, "2025-03", SetNoteRequest{LineID: created.Lines[0].ID, Note: "botol pecah"})
	require.NoError(t, err)

	result, err := f.svc.Save(ctx, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Adjustments)
	assert.False(t, result.NoOp)

	// worksheet is cleared
	_, err = f.svc.Get(ctx, "2025-03")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// the ledger gained one keluar adjustment priced at the frozen average
	require.Len(t, f.txRepo.txs, 2)
	adj := f.txRepo.txs[1]
	assert.Equal(t, ledger.TypeKeluar, adj.Type)
	assert.Equal(t, int64(5), adj.Quantity)
	assert.True(t, adj.UnitPrice.Equal(decimal.NewFromInt(150)))
	assert.Contains(t, adj.Notes, "Adjustment Stock Opname 2025-03")
	assert.Contains(t, adj.Notes, "botol pecah")

	// the adjusted stock position now matches the physical count
	txs, err := f.txRepo.FindAll(ctx, ledger.Filter{})
	require.NoError(t, err)
	lines := valuation.NewEngine().Rollup(txs)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(45), lines[0].StockAkhir)
}

func TestService_Save_NoOp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "2025-03-01", ledger.TypeStockAwal, 50, 150)

	_, err := f.svc.Create(ctx, asAdmin(), CreateRequest{Month: "2025-03"})
	require.NoError(t, err)

	result, err := f.svc.Save(ctx, "2025-03")
	require.NoError(t, err)
	assert.True(t, result.NoOp)
	assert.Equal(t, 0, result.Adjustments)

	// no adjustments appended, worksheet still cleared
	assert.Len(t, f.txRepo.txs, 1)
	assert.Empty(t, f.worksheetRepo.worksheets)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "2025-03-01", ledger.TypeStockAwal, 50, 150)

	created, err := f.svc.Create(ctx, asAdmin(), CreateRequest{Month: "2025-03"})
	require.NoError(t, err)

	_, err = f.svc.SetCount(ctx, "2025-03", SetCountRequest{LineID: created.Lines[0].ID, Count: 10})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, asStaff(), "2025-03"), shared.ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, asAdmin(), "2025-03"))

	// discarded without adjustments
	assert.Len(t, f.txRepo.txs, 1)
	_, err = f.svc.Get(ctx, "2025-03")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_Export(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "2025-03-01", ledger.TypeStockAwal, 50, 150)

	created, err := f.svc.Create(ctx, asAdmin(), CreateRequest{Month: "2025-03"})
	require.NoError(t, err)
	_, err = f.svc.SetCount(ctx, "2025-03", SetCountRequest{LineID: created.Lines[0].ID, Count: 45})
	require.NoError(t, err)

	rows, err := f.svc.Export(ctx, "2025-03")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "stock_sistem", rows[0][4])
	assert.Equal(t, "50", rows[1][4])
	assert.Equal(t, "45", rows[1][5])
	assert.Equal(t, "-5", rows[1][6])
}

func TestService_MutateWithoutWorksheet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var stateErr *shared.StateError

	_, err := f.svc.SetCount(ctx, "2025-03", SetCountRequest{LineID: uuid.New(), Count: 1})
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "NO_ACTIVE_WORKSHEET", stateErr.Code)

	_, err = f.svc.SetNote(ctx, "2025-03", SetNoteRequest{LineID: uuid.New(), Note: "hilang"})
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "NO_ACTIVE_WORKSHEET", stateErr.Code)

	_, err = f.svc.Save(ctx, "2025-03")
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "NO_ACTIVE_WORKSHEET", stateErr.Code)

	// Reads keep reporting a plain miss.
	_, err = f.svc.Get(ctx, "2025-03")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
