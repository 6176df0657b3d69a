package bom

import (
	"time"

	"github.com/bomcraft/backend/internal/domain/bom"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateComponentRequest represents a request to create a component
type CreateComponentRequest struct {
	Name            string          `json:"name" binding:"required"`
	Unit            string          `json:"unit" binding:"required"`
	YieldAmount     decimal.Decimal `json:"yield_amount" binding:"required"`
	PrepTimeMinutes int             `json:"prep_time_minutes"`
}

// UpdateComponentRequest represents a request to update a component
type UpdateComponentRequest struct {
	Name            string          `json:"name" binding:"required"`
	Unit            string          `json:"unit" binding:"required"`
	YieldAmount     decimal.Decimal `json:"yield_amount" binding:"required"`
	PrepTimeMinutes int             `json:"prep_time_minutes"`
	MinStock        decimal.Decimal `json:"min_stock"`
}

// RecipeEdgeRequest is one recipe line in a set-recipe request
type RecipeEdgeRequest struct {
	ItemType  bom.ItemType    `json:"item_type" binding:"required"`
	ItemID    uuid.UUID       `json:"item_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	SortOrder int             `json:"sort_order"`
	Optional  bool            `json:"optional"`
}

// SetRecipeRequest replaces a component's full recipe
type SetRecipeRequest struct {
	Edges []RecipeEdgeRequest `json:"edges" binding:"required"`
}

// ComponentResponse represents a component in API responses
type ComponentResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	YieldAmount     decimal.Decimal `json:"yield_amount"`
	PrepTimeMinutes int             `json:"prep_time_minutes"`
	MinStock        decimal.Decimal `json:"min_stock"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// EdgeResponse represents a recipe line in API responses
type EdgeResponse struct {
	ID        uuid.UUID       `json:"id"`
	ItemType  bom.ItemType    `json:"item_type"`
	ItemID    uuid.UUID       `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Quantity  decimal.Decimal `json:"quantity"`
	SortOrder int             `json:"sort_order"`
	Optional  bool            `json:"optional"`
}

// ComponentListFilter represents filter options for the component list
type ComponentListFilter struct {
	Search     string `form:"search"`
	ActiveOnly *bool  `form:"active_only"`
	Page       int    `form:"page" binding:"min=0"`
	PageSize   int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UsageResponse reports how many recipe lines and batches reference an item
type UsageResponse struct {
	ItemID               uuid.UUID    `json:"item_id"`
	ItemType             bom.ItemType `json:"item_type"`
	ComponentUsageCount  int64        `json:"component_usage_count"`
	ProductionUsageCount int64        `json:"production_usage_count"`
}

// UnitCostResponse reports a component's rolled-up unit cost
type UnitCostResponse struct {
	ComponentID uuid.UUID       `json:"component_id"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// ToComponentResponse converts a component to a response
func ToComponentResponse(component *bom.Component) ComponentResponse {
	return ComponentResponse{
		ID:              component.ID,
		Name:            component.Name,
		Unit:            component.Unit,
		YieldAmount:     component.YieldAmount,
		PrepTimeMinutes: component.PrepTimeMinutes,
		MinStock:        component.MinStock,
		Active:          component.Active,
		CreatedAt:       component.CreatedAt,
		UpdatedAt:       component.UpdatedAt,
		Version:         component.Version,
	}
}
