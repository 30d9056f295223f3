package report

import (
	"context"
	"testing"
	"time"

	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/shared"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
	"github.com/gudang/backend/internal/domain/valuation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTxRepo serves a fixed ledger slice per month
type fakeTxRepo struct {
	ledger.TransactionRepository
	txs []ledger.Transaction
}

func (r *fakeTxRepo) FindByMonth(_ context.Context, month valueobject.Month) ([]ledger.Transaction, error) {
	out := make([]ledger.Transaction, 0)
	for _, tx := range r.txs {
		if month.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// fakeReportRepo stores reports by month
type fakeReportRepo struct {
	reports map[string]*valuation.MonthlyReport
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*valuation.MonthlyReport)}
}

func (r *fakeReportRepo) Replace(_ context.Context, report *valuation.MonthlyReport) error {
	r.reports[report.Month.String()] = report
	return nil
}

func (r *fakeReportRepo) FindByMonth(_ context.Context, month valueobject.Month) (*valuation.MonthlyReport, error) {
	report, ok := r.reports[month.String()]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return report, nil
}

func (r *fakeReportRepo) DeleteByMonth(_ context.Context, month valueobject.Month) error {
	delete(r.reports, month.String())
	return nil
}

func (r *fakeReportRepo) Months(_ context.Context) ([]valueobject.Month, error) {
	months := make([]valueobject.Month, 0, len(r.reports))
	for key := range r.reports {
		month, err := valueobject.ParseMonth(key)
		if err != nil {
			return nil, err
		}
		months = append(months, month)
	}
	return months, nil
}

// fakeCache is an in-memory Cache recording hits and writes
type fakeCache struct {
	entries map[string]*valuation.MonthlyReport
	gets    int
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*valuation.MonthlyReport)}
}

func (c *fakeCache) Get(_ context.Context, month valueobject.Month) (*valuation.MonthlyReport, error) {
	c.gets++
	report, ok := c.entries[month.String()]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c.hits++
	return report, nil
}

func (c *fakeCache) Set(_ context.Context, report *valuation.MonthlyReport) error {
	c.entries[report.Month.String()] = report
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, month valueobject.Month) error {
	delete(c.entries, month.String())
	return nil
}

func txAt(t *testing.T, day string, txType ledger.Type, qty int64, price int64) ledger.Transaction {
	t.Helper()
	date, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	tx, err := ledger.NewTransaction(date, "OLI-01", "Oli Mesin", "Sparepart", "Astra",
		txType, qty, decimal.NewFromInt(price), "")
	require.NoError(t, err)
	return *tx
}

func TestService_Generate(t *testing.T) {
	ctx := context.Background()
	txRepo := &fakeTxRepo{txs: []ledger.Transaction{
		txAt(t, "2025-03-01", ledger.TypeStockAwal, 10, 100),
		txAt(t, "2025-03-05", ledger.TypeMasuk, 10, 200),
		txAt(t, "2025-03-10", ledger.TypeKeluar, 5, 0),
	}}
	reportRepo := newFakeReportRepo()
	cache := newFakeCache()
	svc := NewService(txRepo, reportRepo, valuation.NewEngine(), cache, zap.NewNop())

	resp, err := svc.Generate(ctx, "2025-03")
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1)
	line := resp.Lines[0]
	assert.Equal(t, int64(15), line.StockAkhir)
	assert.True(t, line.WeightedAvgPrice.Equal(decimal.NewFromInt(150)))
	assert.True(t, resp.TotalValue.Equal(decimal.NewFromInt(2250)))

	// persisted and cached
	_, err = reportRepo.FindByMonth(ctx, mustMonth(t, "2025-03"))
	assert.NoError(t, err)
	assert.Contains(t, cache.entries, "2025-03")
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("prefers the cache", func(t *testing.T) {
		txRepo := &fakeTxRepo{}
		reportRepo := newFakeReportRepo()
		cache := newFakeCache()
		svc := NewService(txRepo, reportRepo, valuation.NewEngine(), cache, zap.NewNop())

		_, err := svc.Generate(ctx, "2025-03")
		require.NoError(t, err)

		_, err = svc.Get(ctx, "2025-03")
		require.NoError(t, err)
		assert.Equal(t, 1, cache.hits)
	})

	t.Run("falls back to the stored report and warms the cache", func(t *testing.T) {
		txRepo := &fakeTxRepo{}
		reportRepo := newFakeReportRepo()
		cache := newFakeCache()
		svc := NewService(txRepo, reportRepo, valuation.NewEngine(), cache, zap.NewNop())

		_, err := svc.Generate(ctx, "2025-03")
		require.NoError(t, err)
		require.NoError(t, cache.Invalidate(ctx, mustMonth(t, "2025-03")))

		_, err = svc.Get(ctx, "2025-03")
		require.NoError(t, err)
		assert.Contains(t, cache.entries, "2025-03")
	})

	t.Run("computes fresh without persisting when nothing is stored", func(t *testing.T) {
		txRepo := &fakeTxRepo{txs: []ledger.Transaction{
			txAt(t, "2025-03-01", ledger.TypeStockAwal, 10, 100),
		}}
		reportRepo := newFakeReportRepo()
		cache := newFakeCache()
		svc := NewService(txRepo, reportRepo, valuation.NewEngine(), cache, zap.NewNop())

		resp, err := svc.Get(ctx, "2025-03")
		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)

		assert.Empty(t, reportRepo.reports)
		assert.NotContains(t, cache.entries, "2025-03")
	})

	t.Run("invalid month", func(t *testing.T) {
		svc := NewService(&fakeTxRepo{}, newFakeReportRepo(), valuation.NewEngine(), newFakeCache(), zap.NewNop())
		_, err := svc.Get(ctx, "03-2025")
		assert.Error(t, err)
	})
}

func TestService_Export(t *testing.T) {
	ctx := context.Background()
	txRepo := &fakeTxRepo{txs: []ledger.Transaction{
		txAt(t, "2025-03-01", ledger.TypeStockAwal, 10, 100),
	}}
	svc := NewService(txRepo, newFakeReportRepo(), valuation.NewEngine(), newFakeCache(), zap.NewNop())

	rows, err := svc.Export(ctx, "2025-03")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "sku", rows[0][0])
	assert.Equal(t, "OLI-01", rows[1][0])
	assert.Equal(t, "10", rows[1][4])
}

func mustMonth(t *testing.T, text string) valueobject.Month {
	t.Helper()
	month, err := valueobject.ParseMonth(text)
	require.NoError(t, err)
	return month
}
