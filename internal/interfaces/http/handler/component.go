package handler

import (
	bomapp "github.com/bomcraft/backend/internal/application/bom"
	"github.com/bomcraft/backend/internal/domain/bom"
	"github.com/gin-gonic/gin"
)

// ComponentHandler handles component, recipe and costing API endpoints
type ComponentHandler struct {
	BaseHandler
	componentService *bomapp.ComponentService
	costingService   *bomapp.CostingService
}

// NewComponentHandler creates a new ComponentHandler
func NewComponentHandler(componentService *bomapp.ComponentService, costingService *bomapp.CostingService) *ComponentHandler {
	return &ComponentHandler{
		componentService: componentService,
		costingService:   costingService,
	}
}

// RegisterRoutes registers component routes
func (h *ComponentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	components := rg.Group("/components")
	{
		components.GET("", h.List)
		components.POST("", h.Create)
		components.GET("/:id", h.Get)
		components.PUT("/:id", h.Update)
		components.DELETE("/:id", h.Deactivate)
		components.GET("/:id/recipe", h.GetRecipe)
		components.PUT("/:id/recipe", h.SetRecipe)
		components.GET("/:id/cost", h.UnitCost)
		components.GET("/:id/tree", h.Tree)
		components.GET("/:id/usage", h.Usage)
	}
}

// Create creates a new component
func (h *ComponentHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req bomapp.CreateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	component, err := h.componentService.Create(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, component)
}

// Update modifies an existing component
func (h *ComponentHandler) Update(c *gin.Context) {
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

	var req bomapp.UpdateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	component, err := h.componentService.Update(c.Request.Context(), businessID, componentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, component)
}

// Get retrieves a single component
func (h *ComponentHandler) Get(c *gin.Context) {
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

	component, err := h.componentService.GetByID(c.Request.Context(), businessID, componentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, component)
}

// List returns components matching the filter
func (h *ComponentHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var filter bomapp.ComponentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.componentService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Deactivate soft-deletes a component
func (h *ComponentHandler) Deactivate(c *gin.Context) {
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

	if err := h.componentService.Deactivate(c.Request.Context(), businessID, componentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetRecipe returns the component's recipe with resolved child names
func (h *ComponentHandler) GetRecipe(c *gin.Context) {
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

	recipe, err := h.componentService.GetRecipe(c.Request.Context(), businessID, componentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recipe)
}

// SetRecipe replaces the component's full recipe atomically
func (h *ComponentHandler) SetRecipe(c *gin.Context) {
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

	var req bomapp.SetRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.componentService.SetRecipe(c.Request.Context(), businessID, componentID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	recipe, err := h.componentService.GetRecipe(c.Request.Context(), businessID, componentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recipe)
}

// UnitCost computes the component's rolled-up cost per unit of yield
func (h *ComponentHandler) UnitCost(c *gin.Context) {
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

	cost, err := h.costingService.UnitCost(c.Request.Context(), businessID, componentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cost)
}

// Tree builds the displayable BOM tree with per-node costs
func (h *ComponentHandler) Tree(c *gin.Context) {
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

	tree, err := h.costingService.Tree(c.Request.Context(), businessID, componentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tree)
}

// Usage reports how many recipe lines and batches reference an item
func (h *ComponentHandler) Usage(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	itemType := bom.ItemType(c.DefaultQuery("item_type", string(bom.ItemTypeComponent)))
	usage, err := h.componentService.Usage(c.Request.Context(), businessID, itemID, itemType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, usage)
}
