package ledger

import (
	"context"
	"strconv"
)

// exportHeader is the column order for tabular transaction exports. It
// matches the import layout so an exported file can be re-imported.
var exportHeader = []string{
	"tanggal", "sku", "sparepart", "jenis", "merk",
	"tipe_transaksi", "jumlah", "harga", "total", "keterangan",
}

// ExportRows returns the filtered transactions as ordered tabular rows,
// header first. The HTTP layer encodes them as a CSV download.
func (s *Service) ExportRows(ctx context.Context, filter ListFilter) ([][]string, error) {
	domainFilter, err := s.buildFilter(filter)
	if err != nil {
		return nil, err
	}
	// export is unpaginated
	domainFilter.Page = 1
	domainFilter.PageSize = 0

	txs, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(txs)+1)
	rows = append(rows, exportHeader)
	for i := range txs {
		tx := &txs[i]
		rows = append(rows, []string{
			tx.Date.Format(dateLayout),
			tx.SKU,
			tx.Name,
			tx.Category,
			tx.Brand,
			tx.Type.String(),
			strconv.FormatInt(tx.Quantity, 10),
			tx.UnitPrice.String(),
			tx.Total.String(),
			tx.Notes,
		})
	}
	return rows, nil
}
