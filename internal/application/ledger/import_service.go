package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gudang/backend/internal/domain/identity"
	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// csvRequiredHeaders are the columns an import file must carry. sku is
// optional for files exported before SKUs existed.
var csvRequiredHeaders = []string{
	"tanggal", "sparepart", "jenis", "merk", "tipe_transaksi", "jumlah", "harga", "keterangan",
}

// ImportService ingests bulk transaction files. Imports are all or nothing:
// any invalid row rejects the whole file.
type ImportService struct {
	repo      ledger.TransactionRepository
	validator *ledger.Validator
	logger    *zap.Logger
}

// NewImportService creates a new ImportService
func NewImportService(repo ledger.TransactionRepository, validator *ledger.Validator, logger *zap.Logger) *ImportService {
	return &ImportService{repo: repo, validator: validator, logger: logger}
}

// ImportCSV parses and imports a CSV file of transactions. Privileged.
func (s *ImportService) ImportCSV(ctx context.Context, caller identity.Capability, r io.Reader) (*ImportResult, error) {
	if !caller.IsAllowed(identity.ActionImportCSV) {
		return nil, shared.ErrForbidden
	}

	requests, err := s.parseCSV(r)
	if err != nil {
		return nil, err
	}
	return s.importAll(ctx, requests)
}

// ImportRecords imports an already-parsed batch of transactions, as produced
// by a JSON backup file. Privileged.
func (s *ImportService) ImportRecords(ctx context.Context, caller identity.Capability, requests []CreateTransactionRequest) (*ImportResult, error) {
	if !caller.IsAllowed(identity.ActionImportData) {
		return nil, shared.ErrForbidden
	}
	return s.importAll(ctx, requests)
}

// importAll validates every row and appends the batch atomically
func (s *ImportService) importAll(ctx context.Context, requests []CreateTransactionRequest) (*ImportResult, error) {
	if len(requests) == 0 {
		return nil, shared.NewDomainError("EMPTY_IMPORT", "Import file contains no data rows")
	}

	var rowErrors []string
	txs := make([]*ledger.Transaction, 0, len(requests))
	for i, req := range requests {
		// +2: rows are 1-based and follow the header line
		line := i + 2
		tx, err := s.buildRow(req)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %s", line, err.Error()))
			continue
		}

		result := s.validator.ValidateImport(tx, nil)
		for _, msg := range result.Errors {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %s", line, msg))
		}
		txs = append(txs, tx)
	}
	if len(rowErrors) > 0 {
		return nil, shared.NewValidationError(rowErrors...)
	}

	if err := s.repo.SaveBatch(ctx, txs); err != nil {
		return nil, err
	}

	s.logger.Info("bulk import completed", zap.Int("imported", len(txs)))
	return &ImportResult{Imported: len(txs)}, nil
}

// buildRow converts one import row into a domain record
func (s *ImportService) buildRow(req CreateTransactionRequest) (*ledger.Transaction, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("tanggal must use format YYYY-MM-DD (%s)", req.Date)
	}
	txType := ledger.Type(req.Type)
	if !txType.IsValid() {
		return nil, fmt.Errorf("tipe_transaksi must be one of stock_awal, masuk, keluar (%s)", req.Type)
	}
	return ledger.NewTransaction(
		date, req.SKU, req.Name, req.Category, req.Brand,
		txType, req.Quantity, req.UnitPrice, req.Notes,
	)
}

// parseCSV reads the header and data rows into requests
func (s *ImportService) parseCSV(r io.Reader) ([]CreateTransactionRequest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CSV", "CSV file must contain a header line")
	}

	index := make(map[string]int, len(header))
	for i, column := range header {
		index[strings.ToLower(strings.TrimSpace(column))] = i
	}
	var missing []string
	for _, required := range csvRequiredHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, shared.NewDomainError("INVALID_CSV", "Missing CSV headers: "+strings.Join(missing, ", "))
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var requests []CreateTransactionRequest
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, shared.NewDomainError("INVALID_CSV", fmt.Sprintf("line %d: malformed CSV row", line))
		}

		quantity, err := strconv.ParseInt(field(row, "jumlah"), 10, 64)
		if err != nil {
			return nil, shared.NewValidationError(fmt.Sprintf("line %d: jumlah must be a positive integer", line))
		}
		priceText := field(row, "harga")
		price := decimal.Zero
		if priceText != "" {
			price, err = decimal.NewFromString(priceText)
			if err != nil {
				return nil, shared.NewValidationError(fmt.Sprintf("line %d: harga must be a number", line))
			}
		}

		requests = append(requests, CreateTransactionRequest{
			Date:      field(row, "tanggal"),
			SKU:       field(row, "sku"),
			Name:      field(row, "sparepart"),
			Category:  field(row, "jenis"),
			Brand:     field(row, "merk"),
			Type:      field(row, "tipe_transaksi"),
			Quantity:  quantity,
			UnitPrice: price,
			Notes:     field(row, "keterangan"),
		})
	}
	return requests, nil
}
