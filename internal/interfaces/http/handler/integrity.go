package handler

import (
	"github.com/gin-gonic/gin"
	auditapp "github.com/gudang/backend/internal/application/audit"
)

// IntegrityHandler exposes the ledger integrity audit
type IntegrityHandler struct {
	BaseHandler
	service *auditapp.Service
}

// NewIntegrityHandler creates a new IntegrityHandler
func NewIntegrityHandler(service *auditapp.Service) *IntegrityHandler {
	return &IntegrityHandler{service: service}
}

// RegisterRoutes registers the integrity routes
func (h *IntegrityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/integrity", h.Run)
}

// Run audits the whole ledger and returns the findings
func (h *IntegrityHandler) Run(c *gin.Context) {
	report, err := h.service.Run(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
