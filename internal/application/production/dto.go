package production

import (
	"time"

	"github.com/bomcraft/backend/internal/domain/production"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProduceRequest represents a request to run a production batch
type ProduceRequest struct {
	ComponentID    uuid.UUID       `json:"component_id" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	ExpirationDate *time.Time      `json:"expiration_date"`
	Notes          string          `json:"notes"`
}

// ConsumeRequest represents a request to draw quantity from a batch
type ConsumeRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ProductionResponse represents a production batch in API responses
type ProductionResponse struct {
	ID             uuid.UUID       `json:"id"`
	ComponentID    uuid.UUID       `json:"component_id"`
	BatchNumber    string          `json:"batch_number"`
	ProducedAmount decimal.Decimal `json:"produced_amount"`
	AmountConsumed decimal.Decimal `json:"amount_consumed"`
	Remaining      decimal.Decimal `json:"remaining"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	ProductionDate time.Time       `json:"production_date"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Active         bool            `json:"active"`
	Version        int             `json:"version"`
}

// AvailabilityResponse reports a component's usable quantity across batches
type AvailabilityResponse struct {
	ComponentID       uuid.UUID       `json:"component_id"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	BatchCount        int             `json:"batch_count"`
}

// ProductionListFilter represents filter options for the batch list
type ProductionListFilter struct {
	ComponentID *uuid.UUID `form:"component_id"`
	ActiveOnly  *bool      `form:"active_only"`
	Page        int        `form:"page" binding:"min=0"`
	PageSize    int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductionResponse converts a production batch to a response
func ToProductionResponse(batch *production.ComponentProduction) ProductionResponse {
	return ProductionResponse{
		ID:             batch.ID,
		ComponentID:    batch.ComponentID,
		BatchNumber:    batch.BatchNumber,
		ProducedAmount: batch.ProducedAmount,
		AmountConsumed: batch.AmountConsumed,
		Remaining:      batch.RemainingQuantity(),
		UnitCost:       batch.UnitCost,
		TotalCost:      batch.ProducedAmount.Mul(batch.UnitCost),
		ProductionDate: batch.ProductionDate,
		ExpirationDate: batch.ExpirationDate,
		Notes:          batch.Notes,
		Active:         batch.Active,
		Version:        batch.Version,
	}
}

// ToProductionResponses converts a slice of production batches
func ToProductionResponses(batches []production.ComponentProduction) []ProductionResponse {
	responses := make([]ProductionResponse, 0, len(batches))
	for i := range batches {
		responses = append(responses, ToProductionResponse(&batches[i]))
	}
	return responses
}
