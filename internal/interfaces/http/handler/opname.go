package handler

import (
	"github.com/gin-gonic/gin"
	opnameapp "github.com/gudang/backend/internal/application/opname"
)

// OpnameHandler handles stock opname endpoints
type OpnameHandler struct {
	BaseHandler
	service *opnameapp.Service
}

// NewOpnameHandler creates a new OpnameHandler
func NewOpnameHandler(service *opnameapp.Service) *OpnameHandler {
	return &OpnameHandler{service: service}
}

// RegisterRoutes registers the opname routes
func (h *OpnameHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/opname", h.Create)
	rg.GET("/opname/:month", h.Get)
	rg.PUT("/opname/:month/count", h.SetCount)
	rg.PUT("/opname/:month/note", h.SetNote)
	rg.POST("/opname/:month/save", h.Save)
	rg.DELETE("/opname/:month", h.Delete)
	rg.GET("/opname/:month/export", h.Export)
}

// Create starts a counting session for a month
func (h *OpnameHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req opnameapp.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns the month's worksheet
func (h *OpnameHandler) Get(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context(), c.Param("month"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetCount records the physical count for one line
func (h *OpnameHandler) SetCount(c *gin.Context) {
	var req opnameapp.SetCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.SetCount(c.Request.Context(), c.Param("month"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetNote annotates one worksheet line
func (h *OpnameHandler) SetNote(c *gin.Context) {
	var req opnameapp.SetNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.SetNote(c.Request.Context(), c.Param("month"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Save commits the worksheet, appending adjustment transactions for every
// counted difference
func (h *OpnameHandler) Save(c *gin.Context) {
	resp, err := h.service.Save(c.Request.Context(), c.Param("month"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete discards the month's worksheet without adjustments
func (h *OpnameHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, c.Param("month")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Export streams the month's worksheet as CSV
func (h *OpnameHandler) Export(c *gin.Context) {
	month := c.Param("month")
	rows, err := h.service.Export(c.Request.Context(), month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeCSV(c, "opname-"+month+".csv", rows)
}
