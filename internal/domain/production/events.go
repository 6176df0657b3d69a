package production

import (
	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the production context
const (
	EventTypeBatchProduced  = "production.batch.produced"
	EventTypeBatchConsumed  = "production.batch.consumed"
	EventTypeBatchExhausted = "production.batch.exhausted"
)

// BatchProducedEvent is raised when a production batch is created
type BatchProducedEvent struct {
	shared.BaseDomainEvent
	BatchNumber    string          `json:"batch_number"`
	ProducedAmount decimal.Decimal `json:"produced_amount"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
}

// NewBatchProducedEvent creates a batch produced event
func NewBatchProducedEvent(batch *ComponentProduction) *BatchProducedEvent {
	return &BatchProducedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchProduced, "ComponentProduction", batch.ID, batch.BusinessID),
		BatchNumber:     batch.BatchNumber,
		ProducedAmount:  batch.ProducedAmount,
		UnitCost:        batch.UnitCost,
	}
}

// BatchConsumedEvent is raised when quantity is drawn from a batch
type BatchConsumedEvent struct {
	shared.BaseDomainEvent
	BatchNumber string          `json:"batch_number"`
	Amount      decimal.Decimal `json:"amount"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// NewBatchConsumedEvent creates a batch consumed event
func NewBatchConsumedEvent(batch *ComponentProduction, amount decimal.Decimal) *BatchConsumedEvent {
	return &BatchConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchConsumed, "ComponentProduction", batch.ID, batch.BusinessID),
		BatchNumber:     batch.BatchNumber,
		Amount:          amount,
		Remaining:       batch.RemainingQuantity(),
	}
}

// BatchExhaustedEvent is raised when a batch is fully consumed
type BatchExhaustedEvent struct {
	shared.BaseDomainEvent
	BatchNumber string `json:"batch_number"`
}

// NewBatchExhaustedEvent creates a batch exhausted event
func NewBatchExhaustedEvent(batch *ComponentProduction) *BatchExhaustedEvent {
	return &BatchExhaustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchExhausted, "ComponentProduction", batch.ID, batch.BusinessID),
		BatchNumber:     batch.BatchNumber,
	}
}
