package ledger

import (
	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the ledger context
const (
	EventTypeSupplyDeactivated = "ledger.supply.deactivated"
	EventTypeEntryRecorded     = "ledger.entry.recorded"
	EventTypeStockBelowMinimum = "ledger.stock.below_minimum"
)

// SupplyDeactivatedEvent is raised when a supply is soft-deleted
type SupplyDeactivatedEvent struct {
	shared.BaseDomainEvent
	SupplyName string `json:"supply_name"`
}

// NewSupplyDeactivatedEvent creates a supply deactivated event
func NewSupplyDeactivatedEvent(s *Supply) *SupplyDeactivatedEvent {
	return &SupplyDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplyDeactivated, "Supply", s.ID, s.BusinessID),
		SupplyName:      s.Name,
	}
}

// EntryRecordedEvent is raised when a ledger entry is appended
type EntryRecordedEvent struct {
	shared.BaseDomainEvent
	EntryType EntryType       `json:"entry_type"`
	Amount    decimal.Decimal `json:"amount"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// NewEntryRecordedEvent creates an entry recorded event
func NewEntryRecordedEvent(e *SupplyEntry) *EntryRecordedEvent {
	return &EntryRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntryRecorded, "SupplyEntry", e.SupplyID, e.BusinessID),
		EntryType:       e.EntryType,
		Amount:          e.Amount,
		UnitCost:        e.UnitCost,
	}
}

// StockBelowMinimumEvent is raised when a movement leaves stock under the
// supply's minimum threshold
type StockBelowMinimumEvent struct {
	shared.BaseDomainEvent
	SupplyName   string          `json:"supply_name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
}

// NewStockBelowMinimumEvent creates a low stock event
func NewStockBelowMinimumEvent(s *Supply, currentStock decimal.Decimal) *StockBelowMinimumEvent {
	return &StockBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowMinimum, "Supply", s.ID, s.BusinessID),
		SupplyName:      s.Name,
		CurrentStock:    currentStock,
		MinStock:        s.MinStock,
	}
}
