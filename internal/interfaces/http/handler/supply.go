package handler

import (
	ledgerapp "github.com/bomcraft/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// SupplyHandler handles supply and ledger entry API endpoints
type SupplyHandler struct {
	BaseHandler
	supplyService *ledgerapp.SupplyService
	entryService  *ledgerapp.EntryService
}

// NewSupplyHandler creates a new SupplyHandler
func NewSupplyHandler(supplyService *ledgerapp.SupplyService, entryService *ledgerapp.EntryService) *SupplyHandler {
	return &SupplyHandler{
		supplyService: supplyService,
		entryService:  entryService,
	}
}

// RegisterRoutes registers supply and entry routes
func (h *SupplyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	supplies := rg.Group("/supplies")
	{
		supplies.GET("", h.List)
		supplies.POST("", h.Create)
		supplies.GET("/:id", h.Get)
		supplies.PUT("/:id", h.Update)
		supplies.DELETE("/:id", h.Deactivate)
		supplies.GET("/:id/stock", h.Stock)
		supplies.GET("/:id/entries", h.History)
	}

	entries := rg.Group("/entries")
	{
		entries.POST("/additions", h.RecordAddition)
		entries.POST("/consumptions", h.RecordConsumption)
		entries.DELETE("/:id", h.DeactivateEntry)
	}
}

// Create creates a new supply
func (h *SupplyHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req ledgerapp.CreateSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supply, err := h.supplyService.Create(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supply)
}

// Update modifies an existing supply
func (h *SupplyHandler) Update(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	supplyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supply ID")
		return
	}

	var req ledgerapp.UpdateSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supply, err := h.supplyService.Update(c.Request.Context(), businessID, supplyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supply)
}

// Get retrieves a single supply with its derived stock and cost
func (h *SupplyHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	supplyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supply ID")
		return
	}

	supply, err := h.supplyService.GetByID(c.Request.Context(), businessID, supplyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supply)
}

// List returns supplies matching the filter
func (h *SupplyHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var filter ledgerapp.SupplyListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.supplyService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Stock reports the supply's derived stock position
func (h *SupplyHandler) Stock(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	supplyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supply ID")
		return
	}

	stock, err := h.supplyService.Stock(c.Request.Context(), businessID, supplyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// Deactivate soft-deletes a supply
func (h *SupplyHandler) Deactivate(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	supplyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supply ID")
		return
	}

	if err := h.supplyService.Deactivate(c.Request.Context(), businessID, supplyID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// History returns the supply's entries in chronological order
func (h *SupplyHandler) History(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	supplyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supply ID")
		return
	}

	entries, err := h.entryService.History(c.Request.Context(), businessID, supplyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// RecordAddition appends an addition entry to the ledger
func (h *SupplyHandler) RecordAddition(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req ledgerapp.RecordAdditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.entryService.RecordAddition(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// RecordConsumption appends consumption entries to the ledger
func (h *SupplyHandler) RecordConsumption(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req ledgerapp.RecordConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, err := h.entryService.RecordConsumption(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entries)
}

// DeactivateEntry soft-deletes a ledger entry as an administrative correction
func (h *SupplyHandler) DeactivateEntry(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	if err := h.entryService.DeactivateEntry(c.Request.Context(), businessID, entryID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
