package ledger

import (
	"strings"

	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supply represents a raw, purchasable item. It is the aggregate root for
// ledger operations; its stock is never stored, only derived from entries.
type Supply struct {
	shared.ScopedAggregateRoot
	Name     string          `gorm:"type:varchar(120);not null;index"`
	Unit     string          `gorm:"type:varchar(30);not null"` // unit of measure (kg, l, unit, ...)
	MinStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active   bool            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Supply) TableName() string {
	return "supplies"
}

// NewSupply creates a new supply owned by a business
func NewSupply(businessID uuid.UUID, name, unit string, minStock decimal.Decimal) (*Supply, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewValidationError("Business ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("Supply name cannot be empty")
	}
	if strings.TrimSpace(unit) == "" {
		return nil, shared.NewValidationError("Unit of measure cannot be empty")
	}
	if minStock.IsNegative() {
		return nil, shared.NewValidationError("Minimum stock cannot be negative")
	}

	return &Supply{
		ScopedAggregateRoot: shared.NewScopedAggregateRoot(businessID),
		Name:                name,
		Unit:                unit,
		MinStock:            minStock,
		Active:              true,
	}, nil
}

// Update changes the mutable attributes of the supply
func (s *Supply) Update(name, unit string, minStock decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("Supply name cannot be empty")
	}
	if strings.TrimSpace(unit) == "" {
		return shared.NewValidationError("Unit of measure cannot be empty")
	}
	if minStock.IsNegative() {
		return shared.NewValidationError("Minimum stock cannot be negative")
	}

	s.Name = name
	s.Unit = unit
	s.MinStock = minStock
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Deactivate soft-deletes the supply. Supplies referenced by ledger entries or
// recipe lines are never physically deleted.
func (s *Supply) Deactivate() {
	if !s.Active {
		return
	}
	s.Active = false
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewSupplyDeactivatedEvent(s))
}

// Activate re-enables a deactivated supply
func (s *Supply) Activate() {
	if s.Active {
		return
	}
	s.Active = true
	s.Touch()
	s.IncrementVersion()
}
