package bom

import (
	"strings"

	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Component is a producible item. It owns its recipe (outgoing edges) and is
// referenced by other components' recipes when used as a sub-component.
type Component struct {
	shared.ScopedAggregateRoot
	Name string `gorm:"type:varchar(120);not null;index"`
	Unit string `gorm:"type:varchar(30);not null"`
	// YieldAmount is the output quantity of one recipe execution. Costs are
	// normalized per unit of output by dividing by this value.
	YieldAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
	PrepTimeMinutes int             `gorm:"not null;default:0"`
	MinStock        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active          bool            `gorm:"not null;index"`

	Edges []BOMEdge `gorm:"foreignKey:ParentComponentID;references:ID"`
}

// TableName returns the table name for GORM
func (Component) TableName() string {
	return "components"
}

// NewComponent creates a new producible component
func NewComponent(businessID uuid.UUID, name, unit string, yieldAmount decimal.Decimal, prepTimeMinutes int) (*Component, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewValidationError("Business ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("Component name cannot be empty")
	}
	if strings.TrimSpace(unit) == "" {
		return nil, shared.NewValidationError("Unit of measure cannot be empty")
	}
	if yieldAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Yield amount must be positive")
	}
	if prepTimeMinutes < 0 {
		return nil, shared.NewValidationError("Preparation time cannot be negative")
	}

	return &Component{
		ScopedAggregateRoot: shared.NewScopedAggregateRoot(businessID),
		Name:                name,
		Unit:                unit,
		YieldAmount:         yieldAmount,
		PrepTimeMinutes:     prepTimeMinutes,
		MinStock:            decimal.Zero,
		Active:              true,
	}, nil
}

// Update changes the mutable attributes of the component
func (c *Component) Update(name, unit string, yieldAmount decimal.Decimal, prepTimeMinutes int, minStock decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("Component name cannot be empty")
	}
	if strings.TrimSpace(unit) == "" {
		return shared.NewValidationError("Unit of measure cannot be empty")
	}
	if yieldAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Yield amount must be positive")
	}
	if prepTimeMinutes < 0 {
		return shared.NewValidationError("Preparation time cannot be negative")
	}
	if minStock.IsNegative() {
		return shared.NewValidationError("Minimum stock cannot be negative")
	}

	c.Name = name
	c.Unit = unit
	c.YieldAmount = yieldAmount
	c.PrepTimeMinutes = prepTimeMinutes
	c.MinStock = minStock
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Deactivate soft-deletes the component
func (c *Component) Deactivate() {
	if !c.Active {
		return
	}
	c.Active = false
	c.Touch()
	c.IncrementVersion()
}

// Activate re-enables a deactivated component
func (c *Component) Activate() {
	if c.Active {
		return
	}
	c.Active = true
	c.Touch()
	c.IncrementVersion()
}
