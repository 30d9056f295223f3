package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gudang/backend/internal/domain/identity"
	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/shared"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryRepo is an in-memory TransactionRepository for service tests
type memoryRepo struct {
	txs []*ledger.Transaction
}

func (r *memoryRepo) Save(_ context.Context, tx *ledger.Transaction) error {
	r.txs = append(r.txs, tx)
	return nil
}

func (r *memoryRepo) SaveBatch(_ context.Context, txs []*ledger.Transaction) error {
	r.txs = append(r.txs, txs...)
	return nil
}

func (r *memoryRepo) Update(_ context.Context, tx *ledger.Transaction) error {
	for i := range r.txs {
		if r.txs[i].ID == tx.ID {
			r.txs[i] = tx
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.txs {
		if r.txs[i].ID == id {
			r.txs = append(r.txs[:i], r.txs[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memoryRepo) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(r.txs))
	r.txs = nil
	return n, nil
}

func (r *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	for _, tx := range r.txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) FindAll(_ context.Context, filter ledger.Filter) ([]ledger.Transaction, error) {
	out := make([]ledger.Transaction, 0)
	for _, tx := range r.txs {
		if filter.Date != nil && !sameDay(tx.Date, *filter.Date) {
			continue
		}
		if filter.Month != nil && !filter.Month.Contains(tx.Date) {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		out = append(out, *tx)
	}
	return out, nil
}

func (r *memoryRepo) Count(ctx context.Context, filter ledger.Filter) (int64, error) {
	txs, err := r.FindAll(ctx, filter)
	return int64(len(txs)), err
}

func (r *memoryRepo) FindByMonth(_ context.Context, month valueobject.Month) ([]ledger.Transaction, error) {
	out := make([]ledger.Transaction, 0)
	for _, tx := range r.txs {
		if month.Contains(tx.Date) {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *memoryRepo) FindForItem(_ context.Context, sku, name, category, brand string) ([]ledger.Transaction, error) {
	out := make([]ledger.Transaction, 0)
	for _, tx := range r.txs {
		if tx.Key() == ledger.KeyFor(sku, name, category, brand) {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// stubConfirmer accepts one exact phrase
type stubConfirmer struct{ phrase string }

func (c stubConfirmer) ConfirmDestructive(phrase string) bool { return phrase == c.phrase }

func asAdmin() identity.Actor { return identity.Actor{Role: identity.RoleAdmin} }
func asStaff() identity.Actor { return identity.Actor{Role: identity.RoleStaff} }

func newService(repo *memoryRepo) *Service {
	return NewService(repo, ledger.NewValidator(), stubConfirmer{phrase: "HAPUS SEMUA DATA"}, zap.NewNop())
}

func createReq() CreateTransactionRequest {
	return CreateTransactionRequest{
		Date:      "2025-03-01",
		SKU:       "OLI-01",
		Name:      "Oli Mesin",
		Category:  "Sparepart",
		Brand:     "Astra",
		Type:      "stock_awal",
		Quantity:  10,
		UnitPrice: decimal.NewFromInt(100),
	}
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("records a valid transaction", func(t *testing.T) {
		repo := &memoryRepo{}
		svc := newService(repo)

		resp, err := svc.Add(ctx, createReq())
		require.NoError(t, err)
		assert.Equal(t, "OLI-01", resp.SKU)
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(1000)))
		assert.Len(t, repo.txs, 1)
	})

	t.Run("hard rule violation blocks", func(t *testing.T) {
		repo := &memoryRepo{}
		svc := newService(repo)

		req := createReq()
		req.Name = "O"
		_, err := svc.Add(ctx, req)

		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.NotEmpty(t, verr.Messages)
		assert.Empty(t, repo.txs)
	})

	t.Run("warning requires confirmation", func(t *testing.T) {
		repo := &memoryRepo{}
		svc := newService(repo)

		_, err := svc.Add(ctx, createReq())
		require.NoError(t, err)

		// second stock_awal for the same item on the same day draws warnings
		_, err = svc.Add(ctx, createReq())
		var cerr *shared.ConfirmationRequiredError
		require.True(t, errors.As(err, &cerr))
		assert.NotEmpty(t, cerr.Warnings)
		assert.Len(t, repo.txs, 1)

		// resubmitting with confirm proceeds
		req := createReq()
		req.Confirm = true
		_, err = svc.Add(ctx, req)
		require.NoError(t, err)
		assert.Len(t, repo.txs, 2)
	})

	t.Run("bad date format", func(t *testing.T) {
		svc := newService(&memoryRepo{})
		req := createReq()
		req.Date = "01/03/2025"
		_, err := svc.Add(ctx, req)
		assert.Error(t, err)
	})
}

func TestService_Edit(t *testing.T) {
	ctx := context.Background()

	t.Run("staff cannot edit", func(t *testing.T) {
		repo := &memoryRepo{}
		svc := newService(repo)
		resp, err := svc.Add(ctx, createReq())
		require.NoError(t, err)

		qty := int64(5)
		_, err = svc.Edit(ctx, asStaff(), resp.ID, UpdateTransactionRequest{Quantity: &qty})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("admin edit re-derives total", func(t *testing.T) {
		repo := &memoryRepo{}
		svc := newService(repo)
		resp, err := svc.Add(ctx, createReq())
		require.NoError(t, err)

		qty := int64(5)
		updated, err := svc.Edit(ctx, asAdmin(), resp.ID, UpdateTransactionRequest{Quantity: &qty})
		require.NoError(t, err)
		assert.Equal(t, int64(5), updated.Quantity)
		assert.True(t, updated.Total.Equal(decimal.NewFromInt(500)))
	})
}

func TestService_Remove(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	svc := newService(repo)

	resp, err := svc.Add(ctx, createReq())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(ctx, asStaff(), resp.ID), shared.ErrForbidden)
	require.NoError(t, svc.Remove(ctx, asAdmin(), resp.ID))
	assert.Empty(t, repo.txs)
}

func TestService_DeleteAll(t *testing.T) {
	ctx := context.Background()

	t.Run("requires capability and exact phrase", func(t *testing.T) {
		repo := &memoryRepo{}
		svc := newService(repo)
		_, err := svc.Add(ctx, createReq())
		require.NoError(t, err)

		_, err = svc.DeleteAll(ctx, asStaff(), "HAPUS SEMUA DATA")
		assert.ErrorIs(t, err, shared.ErrForbidden)

		_, err = svc.DeleteAll(ctx, asAdmin(), "hapus semua data")
		assert.Error(t, err)
		assert.Len(t, repo.txs, 1)

		result, err := svc.DeleteAll(ctx, asAdmin(), "HAPUS SEMUA DATA")
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Deleted)
		assert.Empty(t, repo.txs)
	})
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	svc := newService(repo)

	reqs := []CreateTransactionRequest{
		createReq(),
		{Date: "2025-03-01", SKU: "OLI-01", Name: "Oli Mesin", Category: "Sparepart", Brand: "Astra",
			Type: "keluar", Quantity: 3, Confirm: true},
		{Date: "2025-03-02", SKU: "BAN-02", Name: "Ban Luar", Category: "Sparepart", Brand: "IRC",
			Type: "masuk", Quantity: 4, UnitPrice: decimal.NewFromInt(50)},
	}
	for _, req := range reqs {
		_, err := svc.Add(ctx, req)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TransactionCount)
	assert.Equal(t, int64(10), stats.TotalIn)
	assert.Equal(t, int64(3), stats.TotalOut)
	assert.True(t, stats.TotalValue.Equal(decimal.NewFromInt(1000)))
}

func TestService_ExportRows(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	svc := newService(repo)

	_, err := svc.Add(ctx, createReq())
	require.NoError(t, err)

	rows, err := svc.ExportRows(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "tanggal", rows[0][0])
	assert.Equal(t, "2025-03-01", rows[1][0])
	assert.Equal(t, "OLI-01", rows[1][1])
	assert.Equal(t, "1000", rows[1][8])
}
