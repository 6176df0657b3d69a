package bom

import (
	"context"

	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UsageCounts holds the reference counts gating item deletion
type UsageCounts struct {
	ComponentUsageCount  int64 `json:"component_usage_count"`
	ProductionUsageCount int64 `json:"production_usage_count"`
}

// Total returns the combined reference count
func (u UsageCounts) Total() int64 {
	return u.ComponentUsageCount + u.ProductionUsageCount
}

// ComponentRepository defines persistence for components and their recipes
type ComponentRepository interface {
	Create(ctx context.Context, component *Component) error
	Update(ctx context.Context, component *Component) error
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*Component, error)
	FindByName(ctx context.Context, businessID uuid.UUID, name string) (*Component, error)
	FindAll(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[Component], error)
	// EdgesOf returns the component's active recipe ordered by sort order
	EdgesOf(ctx context.Context, businessID, componentID uuid.UUID) ([]BOMEdge, error)
	// ReplaceEdges swaps the component's full edge set. Callers run it inside
	// a transaction together with the cycle check so no partial recipe is
	// ever visible.
	ReplaceEdges(ctx context.Context, businessID, componentID uuid.UUID, edges []BOMEdge) error
	// UsageCount counts recipe edges referencing the item as a child
	UsageCount(ctx context.Context, businessID, itemID uuid.UUID, itemType ItemType) (int64, error)
}
