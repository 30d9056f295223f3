package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEach(t *testing.T) {
	txs := []Transaction{
		mustTx(t, "2026-01-05", "BRK-001", "Bearing", "SKF", TypeStockAwal, 10, 100),
		mustTx(t, "2026-01-10", "BRK-001", "Bearing", "SKF", TypeMasuk, 5, 100),
		mustTx(t, "2026-02-01", "OLI-001", "Oli Mesin", "Shell", TypeMasuk, 3, 45),
	}

	masuk := Each(txs, func(tx *Transaction) bool { return tx.Type == TypeMasuk })
	assert.Len(t, masuk, 2)

	none := Each(txs, func(*Transaction) bool { return false })
	assert.Empty(t, none)

	all := Each(txs, func(*Transaction) bool { return true })
	assert.Equal(t, txs, all)

	assert.Empty(t, Each(nil, func(*Transaction) bool { return true }))
}
