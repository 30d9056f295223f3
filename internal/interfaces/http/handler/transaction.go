package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/gudang/backend/internal/application/ledger"
)

// maxImportSize bounds uploaded CSV files
const maxImportSize = 10 << 20

// TransactionHandler handles ledger API endpoints
type TransactionHandler struct {
	BaseHandler
	service       *ledgerapp.Service
	importService *ledgerapp.ImportService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(service *ledgerapp.Service, importService *ledgerapp.ImportService) *TransactionHandler {
	return &TransactionHandler{
		service:       service,
		importService: importService,
	}
}

// RegisterRoutes registers the ledger routes
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/transactions", h.Create)
	rg.GET("/transactions", h.List)
	rg.GET("/transactions/export", h.Export)
	rg.GET("/transactions/stats", h.Stats)
	rg.POST("/transactions/import", h.Import)
	rg.POST("/transactions/import/csv", h.ImportCSV)
	rg.DELETE("/transactions", h.DeleteAll)
	rg.GET("/transactions/:id", h.GetByID)
	rg.PUT("/transactions/:id", h.Update)
	rg.DELETE("/transactions/:id", h.Delete)
}

// Create records a new stock movement
func (h *TransactionHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Add(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns a page of ledger records
func (h *TransactionHandler) List(c *gin.Context) {
	var filter ledgerapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID returns one ledger record
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update edits an existing ledger record
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req ledgerapp.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Edit(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes one ledger record
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	actor, ok := getActor(c)
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DeleteAllRequest carries the typed confirmation phrase for a full wipe
type DeleteAllRequest struct {
	Phrase string `json:"konfirmasi" binding:"required"`
}

// DeleteAll wipes the whole ledger after phrase confirmation
func (h *TransactionHandler) DeleteAll(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req DeleteAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.DeleteAll(c.Request.Context(), actor, req.Phrase)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Stats returns the dashboard totals for one day, today by default
func (h *TransactionHandler) Stats(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("tanggal"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid tanggal: expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	resp, err := h.service.Stats(c.Request.Context(), day)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Export streams the filtered ledger as CSV
func (h *TransactionHandler) Export(c *gin.Context) {
	var filter ledgerapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	rows, err := h.service.ExportRows(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeCSV(c, "transaksi.csv", rows)
}

// Import records a batch of transactions sent as JSON
func (h *TransactionHandler) Import(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var requests []ledgerapp.CreateTransactionRequest
	if err := c.ShouldBindJSON(&requests); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.importService.ImportRecords(c.Request.Context(), actor, requests)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ImportCSV records a batch of transactions from an uploaded CSV file
func (h *TransactionHandler) ImportCSV(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}
	if fileHeader.Size > maxImportSize {
		h.BadRequest(c, "File too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Cannot read file upload")
		return
	}
	defer file.Close()

	result, err := h.importService.ImportCSV(c.Request.Context(), actor, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *TransactionHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid id: expected UUID")
		return uuid.Nil, false
	}
	return id, true
}

// writeCSV streams tabular rows as a CSV attachment
func writeCSV(c *gin.Context, filename string, rows [][]string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.WriteAll(rows)
}
