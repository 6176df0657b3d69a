package handler

import (
	"strconv"

	productionapp "github.com/bomcraft/backend/internal/application/production"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductionHandler handles production batch API endpoints
type ProductionHandler struct {
	BaseHandler
	productionService *productionapp.ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(productionService *productionapp.ProductionService) *ProductionHandler {
	return &ProductionHandler{productionService: productionService}
}

// RegisterRoutes registers production routes
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	productions := rg.Group("/productions")
	{
		productions.GET("", h.List)
		productions.POST("", h.Produce)
		productions.GET("/expiring", h.Expiring)
		productions.GET("/:id", h.Get)
		productions.POST("/:id/consume", h.Consume)
	}

	rg.GET("/components/:id/availability", h.Availability)
}

// Produce runs a production batch for a component
func (h *ProductionHandler) Produce(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req productionapp.ProduceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.productionService.Produce(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, batch)
}

// Get retrieves a single production batch
func (h *ProductionHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	productionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid production ID")
		return
	}

	batch, err := h.productionService.GetByID(c.Request.Context(), businessID, productionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// List returns production batches matching the filter
func (h *ProductionHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var filter productionapp.ProductionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.productionService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Consume draws quantity from one batch
func (h *ProductionHandler) Consume(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	productionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid production ID")
		return
	}

	var req productionapp.ConsumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.productionService.Consume(c.Request.Context(), businessID, productionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// Availability reports a component's usable quantity over its batches
func (h *ProductionHandler) Availability(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	componentID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid component ID")
		return
	}

	availability, err := h.productionService.Availability(c.Request.Context(), businessID, componentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, availability)
}

// Expiring lists available batches expiring within the requested window
func (h *ProductionHandler) Expiring(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	withinDays, err := strconv.Atoi(c.DefaultQuery("within_days", "3"))
	if err != nil {
		h.BadRequest(c, "Invalid within_days value")
		return
	}

	var componentID *uuid.UUID
	if raw := c.Query("component_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid component_id value")
			return
		}
		componentID = &id
	}

	batches, err := h.productionService.ExpiringBatches(c.Request.Context(), businessID, componentID, withinDays)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batches)
}
