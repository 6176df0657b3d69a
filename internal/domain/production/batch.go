package production

import (
	"fmt"
	"strings"
	"time"

	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ComponentProduction is one produced batch of a component. The unit cost is
// computed by the cost roll-up at creation time and frozen thereafter, so the
// batch keeps its historical cost even when ingredient prices move. A batch
// is never deleted, only deactivated; the amount-consumed counter may only
// grow, bounded by the produced amount.
type ComponentProduction struct {
	shared.ScopedAggregateRoot
	ComponentID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_production_component"`
	BatchNumber    string          `gorm:"type:varchar(60);not null;index"`
	ProducedAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmountConsumed decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ProductionDate time.Time       `gorm:"not null;index"`
	ExpirationDate *time.Time      `gorm:"index"`
	Notes          string          `gorm:"type:varchar(255)"`
	Active         bool            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ComponentProduction) TableName() string {
	return "component_productions"
}

// NewComponentProduction creates a production batch with nothing consumed yet
func NewComponentProduction(businessID, componentID uuid.UUID, batchNumber string, producedAmount, unitCost decimal.Decimal, expirationDate *time.Time, notes string) (*ComponentProduction, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewValidationError("Business ID cannot be empty")
	}
	if componentID == uuid.Nil {
		return nil, shared.NewValidationError("Component ID cannot be empty")
	}
	if strings.TrimSpace(batchNumber) == "" {
		return nil, shared.NewValidationError("Batch number cannot be empty")
	}
	if producedAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Produced amount must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewValidationError("Unit cost cannot be negative")
	}
	now := time.Now()
	if expirationDate != nil && !expirationDate.After(now) {
		return nil, shared.NewValidationError("Expiration date must be in the future")
	}

	batch := &ComponentProduction{
		ScopedAggregateRoot: shared.NewScopedAggregateRoot(businessID),
		ComponentID:         componentID,
		BatchNumber:         batchNumber,
		ProducedAmount:      producedAmount,
		AmountConsumed:      decimal.Zero,
		UnitCost:            unitCost,
		ProductionDate:      now,
		ExpirationDate:      expirationDate,
		Notes:               notes,
		Active:              true,
	}
	batch.AddDomainEvent(NewBatchProducedEvent(batch))
	return batch, nil
}

// GenerateBatchNumber builds a batch number from the component ID and time.
// Collisions within the same millisecond are acceptable; the number is a
// display handle, the UUID is the identity.
func GenerateBatchNumber(componentID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("PB-%s-%s", at.Format("20060102-150405"), componentID.String()[:8])
}

// RemainingQuantity returns the usable quantity left in the batch
func (p *ComponentProduction) RemainingQuantity() decimal.Decimal {
	return p.ProducedAmount.Sub(p.AmountConsumed)
}

// IsExhausted reports whether the batch has been fully consumed
func (p *ComponentProduction) IsExhausted() bool {
	return p.AmountConsumed.GreaterThanOrEqual(p.ProducedAmount)
}

// IsExpired reports whether the batch has expired at the given instant.
// Batches without an expiration date never expire.
func (p *ComponentProduction) IsExpired(at time.Time) bool {
	return p.ExpirationDate != nil && !p.ExpirationDate.After(at)
}

// IsAvailable reports whether the batch can still be drawn from
func (p *ComponentProduction) IsAvailable(at time.Time) bool {
	return p.Active && !p.IsExhausted() && !p.IsExpired(at)
}

// WillExpireWithin reports whether the batch expires inside the window. The
// window end is inclusive; a batch expiring exactly at the deadline counts.
// Already expired batches are excluded; the caller lists those separately.
func (p *ComponentProduction) WillExpireWithin(window time.Duration, now time.Time) bool {
	if p.ExpirationDate == nil || p.IsExpired(now) {
		return false
	}
	return !p.ExpirationDate.After(now.Add(window))
}

// Consume increases the consumed counter. Fails with OverConsumption and
// leaves the batch unchanged when the increase would exceed the produced
// amount. Exhausting the batch clears its active flag.
func (p *ComponentProduction) Consume(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Consumption amount must be positive")
	}
	newConsumed := p.AmountConsumed.Add(amount)
	if newConsumed.GreaterThan(p.ProducedAmount) {
		return shared.NewOverConsumptionError(p.BatchNumber)
	}

	p.AmountConsumed = newConsumed
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewBatchConsumedEvent(p, amount))
	if p.IsExhausted() {
		p.Active = false
		p.AddDomainEvent(NewBatchExhaustedEvent(p))
	}
	return nil
}

// CorrectConsumed administratively overwrites the consumed counter, still
// bounded by the produced amount. Reactivates the batch if quantity returns.
func (p *ComponentProduction) CorrectConsumed(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewValidationError("Consumed amount cannot be negative")
	}
	if amount.GreaterThan(p.ProducedAmount) {
		return shared.NewOverConsumptionError(p.BatchNumber)
	}

	p.AmountConsumed = amount
	if !p.IsExhausted() {
		p.Active = true
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Deactivate soft-deletes the batch
func (p *ComponentProduction) Deactivate() {
	if !p.Active {
		return
	}
	p.Active = false
	p.Touch()
	p.IncrementVersion()
}
