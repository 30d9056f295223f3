package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/gudang/backend/internal/application/report"
)

// ReportHandler handles monthly valuation report endpoints
type ReportHandler struct {
	BaseHandler
	service *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *reportapp.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

// RegisterRoutes registers the report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/months", h.Months)
	rg.GET("/reports/:month", h.Get)
	rg.POST("/reports/:month/generate", h.Generate)
	rg.GET("/reports/:month/export", h.Export)
}

// Get returns the month's valuation report, from cache or store when
// available, computed fresh otherwise
func (h *ReportHandler) Get(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context(), c.Param("month"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Generate recomputes and persists the month's report
func (h *ReportHandler) Generate(c *gin.Context) {
	resp, err := h.service.Generate(c.Request.Context(), c.Param("month"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Export streams the month's report as CSV
func (h *ReportHandler) Export(c *gin.Context) {
	month := c.Param("month")
	rows, err := h.service.Export(c.Request.Context(), month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeCSV(c, "laporan-"+month+".csv", rows)
}

// Months lists every month with a stored report
func (h *ReportHandler) Months(c *gin.Context) {
	months, err := h.service.Months(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, months)
}
