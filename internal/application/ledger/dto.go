package ledger

import (
	"time"

	"github.com/bomcraft/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSupplyRequest represents a request to create a supply
type CreateSupplyRequest struct {
	Name     string          `json:"name" binding:"required"`
	Unit     string          `json:"unit" binding:"required"`
	MinStock decimal.Decimal `json:"min_stock"`
}

// UpdateSupplyRequest represents a request to update a supply
type UpdateSupplyRequest struct {
	Name     string          `json:"name" binding:"required"`
	Unit     string          `json:"unit" binding:"required"`
	MinStock decimal.Decimal `json:"min_stock"`
}

// SupplyResponse represents a supply in API responses
type SupplyResponse struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Unit         string             `json:"unit"`
	MinStock     decimal.Decimal    `json:"min_stock"`
	CurrentStock decimal.Decimal    `json:"current_stock"`
	UnitCost     decimal.Decimal    `json:"unit_cost"`
	StockStatus  ledger.StockStatus `json:"stock_status"`
	Active       bool               `json:"active"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Version      int                `json:"version"`
}

// SupplyListFilter represents filter options for the supply list
type SupplyListFilter struct {
	Search       string `form:"search"`
	ActiveOnly   *bool  `form:"active_only"`
	BelowMinimum *bool  `form:"below_minimum"`
	Page         int    `form:"page" binding:"min=0"`
	PageSize     int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RecordAdditionRequest represents a request to append an addition entry
type RecordAdditionRequest struct {
	SupplyID   uuid.UUID       `json:"supply_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	UnitCost   decimal.Decimal `json:"unit_cost" binding:"required"`
	ProviderID *uuid.UUID      `json:"provider_id"`
	Notes      string          `json:"notes"`
}

// RecordConsumptionRequest represents a request to append a consumption entry
type RecordConsumptionRequest struct {
	SupplyID uuid.UUID       `json:"supply_id" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Notes    string          `json:"notes"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID            uuid.UUID        `json:"id"`
	SupplyID      uuid.UUID        `json:"supply_id"`
	EntryType     ledger.EntryType `json:"entry_type"`
	Amount        decimal.Decimal  `json:"amount"`
	UnitCost      decimal.Decimal  `json:"unit_cost"`
	TotalCost     decimal.Decimal  `json:"total_cost"`
	ProviderID    *uuid.UUID       `json:"provider_id,omitempty"`
	ProductionID  *uuid.UUID       `json:"production_id,omitempty"`
	SourceEntryID *uuid.UUID       `json:"source_entry_id,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Active        bool             `json:"active"`
	EntryDate     time.Time        `json:"entry_date"`
}

// StockResponse reports a supply's derived stock position
type StockResponse struct {
	SupplyID     uuid.UUID          `json:"supply_id"`
	CurrentStock decimal.Decimal    `json:"current_stock"`
	MinStock     decimal.Decimal    `json:"min_stock"`
	UnitCost     decimal.Decimal    `json:"unit_cost"`
	StockStatus  ledger.StockStatus `json:"stock_status"`
}

// ToSupplyResponse converts a supply with its derived figures to a response
func ToSupplyResponse(supply *ledger.Supply, currentStock, unitCost decimal.Decimal) SupplyResponse {
	return SupplyResponse{
		ID:           supply.ID,
		Name:         supply.Name,
		Unit:         supply.Unit,
		MinStock:     supply.MinStock,
		CurrentStock: currentStock,
		UnitCost:     unitCost,
		StockStatus:  supply.Status(currentStock),
		Active:       supply.Active,
		CreatedAt:    supply.CreatedAt,
		UpdatedAt:    supply.UpdatedAt,
		Version:      supply.Version,
	}
}

// ToEntryResponse converts a ledger entry to a response
func ToEntryResponse(entry *ledger.SupplyEntry) EntryResponse {
	return EntryResponse{
		ID:            entry.ID,
		SupplyID:      entry.SupplyID,
		EntryType:     entry.EntryType,
		Amount:        entry.Amount,
		UnitCost:      entry.UnitCost,
		TotalCost:     entry.TotalCost(),
		ProviderID:    entry.ProviderID,
		ProductionID:  entry.ProductionID,
		SourceEntryID: entry.SourceEntryID,
		Notes:         entry.Notes,
		Active:        entry.Active,
		EntryDate:     entry.EntryDate,
	}
}

// ToEntryResponses converts a slice of ledger entries
func ToEntryResponses(entries []ledger.SupplyEntry) []EntryResponse {
	responses := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, ToEntryResponse(&entries[i]))
	}
	return responses
}
