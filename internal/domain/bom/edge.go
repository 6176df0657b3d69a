package bom

import (
	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemType tags the child side of a recipe edge
type ItemType string

const (
	// ItemTypeSupply means the edge consumes a raw supply
	ItemTypeSupply ItemType = "SUPPLY"
	// ItemTypeComponent means the edge consumes another producible component
	ItemTypeComponent ItemType = "COMPONENT"
)

// IsValid returns true if the item type is known
func (t ItemType) IsValid() bool {
	return t == ItemTypeSupply || t == ItemTypeComponent
}

// BOMEdge is one line of a component's recipe. The child is a tagged variant:
// exactly one item referenced by ChildID, discriminated by ItemType. Edges are
// owned by the parent and replaced as a whole set when the recipe is edited.
type BOMEdge struct {
	shared.BaseEntity
	BusinessID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ParentComponentID uuid.UUID       `gorm:"type:uuid;not null;index:idx_bom_edge_parent"`
	ItemType          ItemType        `gorm:"type:varchar(20);not null;index:idx_bom_edge_child,priority:1"`
	ChildID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_bom_edge_child,priority:2"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"` // per one unit of parent yield
	SortOrder         int             `gorm:"not null;default:0"`
	Optional          bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (BOMEdge) TableName() string {
	return "bom_edges"
}

// NewBOMEdge creates a recipe line for a parent component
func NewBOMEdge(businessID, parentComponentID uuid.UUID, itemType ItemType, childID uuid.UUID, quantity decimal.Decimal, sortOrder int, optional bool) (*BOMEdge, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewValidationError("Business ID cannot be empty")
	}
	if parentComponentID == uuid.Nil {
		return nil, shared.NewValidationError("Parent component ID cannot be empty")
	}
	if !itemType.IsValid() {
		return nil, shared.NewValidationError("Item type must be SUPPLY or COMPONENT")
	}
	if childID == uuid.Nil {
		return nil, shared.NewValidationError("Child item ID cannot be empty")
	}
	if itemType == ItemTypeComponent && childID == parentComponentID {
		return nil, shared.NewCircularReferenceError(parentComponentID.String())
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Edge quantity must be positive")
	}

	return &BOMEdge{
		BaseEntity:        shared.NewBaseEntity(),
		BusinessID:        businessID,
		ParentComponentID: parentComponentID,
		ItemType:          itemType,
		ChildID:           childID,
		Quantity:          quantity,
		SortOrder:         sortOrder,
		Optional:          optional,
	}, nil
}

// IsComponentChild reports whether the edge points at a sub-component
func (e *BOMEdge) IsComponentChild() bool {
	return e.ItemType == ItemTypeComponent
}
