package ledger

import (
	"time"

	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType discriminates ledger entries by direction
type EntryType string

const (
	// EntryTypeAddition records stock received (purchase, manual correction up)
	EntryTypeAddition EntryType = "ADDITION"
	// EntryTypeConsumption records stock removed (production run, waste, correction down)
	EntryTypeConsumption EntryType = "CONSUMPTION"
)

// IsValid returns true if the entry type is known
func (t EntryType) IsValid() bool {
	return t == EntryTypeAddition || t == EntryTypeConsumption
}

// SupplyEntry is one immutable ledger event for a supply. The stored amount is
// signed: positive for additions, negative for consumptions. Current stock is
// always derived by summing signed amounts over active entries; no entry is
// ever mutated after creation except for soft deactivation.
type SupplyEntry struct {
	shared.BaseEntity
	BusinessID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_supply_entry_business_time,priority:1"`
	SupplyID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_supply_entry_supply"`
	EntryType    EntryType       `gorm:"type:varchar(20);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // signed
	UnitCost     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ProviderID   *uuid.UUID      `gorm:"type:uuid;index"` // who supplied the stock (additions)
	ProductionID *uuid.UUID      `gorm:"type:uuid;index"` // production run that consumed it
	// SourceEntryID points a consumption back at the addition it drew from.
	// Informational only: traceability and history UIs, never stock math.
	SourceEntryID *uuid.UUID `gorm:"type:uuid;index"`
	Notes         string     `gorm:"type:varchar(255)"`
	Active        bool       `gorm:"not null;index"`
	EntryDate     time.Time  `gorm:"not null;index:idx_supply_entry_business_time,priority:2"`
}

// TableName returns the table name for GORM
func (SupplyEntry) TableName() string {
	return "supply_entries"
}

// NewAdditionEntry appends a positive entry for stock received
func NewAdditionEntry(businessID, supplyID uuid.UUID, amount, unitCost decimal.Decimal, providerID *uuid.UUID) (*SupplyEntry, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewValidationError("Business ID cannot be empty")
	}
	if supplyID == uuid.Nil {
		return nil, shared.NewValidationError("Supply ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Addition amount must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewValidationError("Unit cost cannot be negative")
	}

	return &SupplyEntry{
		BaseEntity: shared.NewBaseEntity(),
		BusinessID: businessID,
		SupplyID:   supplyID,
		EntryType:  EntryTypeAddition,
		Amount:     amount,
		UnitCost:   unitCost,
		ProviderID: providerID,
		Active:     true,
		EntryDate:  time.Now(),
	}, nil
}

// NewConsumptionEntry appends a negative entry for stock removed. The amount
// argument is the consumption magnitude; the stored amount is its negation.
func NewConsumptionEntry(businessID, supplyID uuid.UUID, amount, unitCost decimal.Decimal, sourceEntryID *uuid.UUID) (*SupplyEntry, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewValidationError("Business ID cannot be empty")
	}
	if supplyID == uuid.Nil {
		return nil, shared.NewValidationError("Supply ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Consumption amount must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewValidationError("Unit cost cannot be negative")
	}

	return &SupplyEntry{
		BaseEntity:    shared.NewBaseEntity(),
		BusinessID:    businessID,
		SupplyID:      supplyID,
		EntryType:     EntryTypeConsumption,
		Amount:        amount.Neg(),
		UnitCost:      unitCost,
		SourceEntryID: sourceEntryID,
		Active:        true,
		EntryDate:     time.Now(),
	}, nil
}

// WithProduction links the entry to the production run that caused it
func (e *SupplyEntry) WithProduction(productionID uuid.UUID) *SupplyEntry {
	e.ProductionID = &productionID
	return e
}

// WithNotes attaches free-form notes to the entry
func (e *SupplyEntry) WithNotes(notes string) *SupplyEntry {
	e.Notes = notes
	return e
}

// Magnitude returns the unsigned amount of the entry
func (e *SupplyEntry) Magnitude() decimal.Decimal {
	return e.Amount.Abs()
}

// TotalCost returns the unsigned cost of the movement
func (e *SupplyEntry) TotalCost() decimal.Decimal {
	return e.Magnitude().Mul(e.UnitCost)
}

// IsAddition reports whether the entry increases stock
func (e *SupplyEntry) IsAddition() bool {
	return e.Amount.GreaterThan(decimal.Zero)
}

// CurrentStock folds the signed amounts of the given entries. Inactive
// entries are skipped; an empty history yields zero. The fold is order
// independent, so callers may pass entries in any order.
func CurrentStock(entries []SupplyEntry) decimal.Decimal {
	total := decimal.Zero
	for i := range entries {
		if !entries[i].Active {
			continue
		}
		total = total.Add(entries[i].Amount)
	}
	return total
}
