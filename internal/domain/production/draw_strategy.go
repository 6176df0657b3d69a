package production

import (
	"sort"
	"time"

	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/bomcraft/backend/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchDrawStrategyType defines the order in which production batches are
// drawn down when a sub-component is consumed
type BatchDrawStrategyType string

const (
	// BatchDrawStrategyTypeFIFO draws from the oldest batch first (by production date)
	BatchDrawStrategyTypeFIFO BatchDrawStrategyType = "FIFO"
	// BatchDrawStrategyTypeFEFO draws from the batch expiring soonest first
	BatchDrawStrategyTypeFEFO BatchDrawStrategyType = "FEFO"
)

// IsValid checks if the strategy type is valid
func (t BatchDrawStrategyType) IsValid() bool {
	return t == BatchDrawStrategyTypeFIFO || t == BatchDrawStrategyTypeFEFO
}

// String returns the string representation
func (t BatchDrawStrategyType) String() string {
	return string(t)
}

// BatchDraw is the planned draw against one batch
type BatchDraw struct {
	BatchID          uuid.UUID
	BatchNumber      string
	Amount           decimal.Decimal
	UnitCost         decimal.Decimal
	TotalCost        decimal.Decimal
	RemainingInBatch decimal.Decimal
	FullyConsumed    bool
}

// BatchDrawPlan is the complete plan for drawing a quantity across batches.
// The plan only describes intent; ApplyBatchDraws executes it on the
// aggregates so the over-consumption invariant is enforced in one place.
type BatchDrawPlan struct {
	Draws          []BatchDraw
	TotalDrawn     decimal.Decimal
	TotalCost      decimal.Decimal
	Shortfall      decimal.Decimal
	FullyFulfilled bool
}

// BatchDrawStrategy plans which batches satisfy a consumption request
type BatchDrawStrategy interface {
	strategy.Strategy
	// StrategyType returns the batch draw strategy type
	StrategyType() BatchDrawStrategyType
	// PlanDraws orders the available batches and plans per-batch draws
	PlanDraws(requested decimal.Decimal, batches []ComponentProduction, now time.Time) (*BatchDrawPlan, error)
}

// FIFOBatchDrawStrategy draws from the oldest batches first by production
// date, falling back to creation date on ties
type FIFOBatchDrawStrategy struct {
	strategy.BaseStrategy
}

// NewFIFOBatchDrawStrategy creates a new FIFO batch draw strategy
func NewFIFOBatchDrawStrategy() *FIFOBatchDrawStrategy {
	return &FIFOBatchDrawStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"fifo_batch_draw",
			strategy.StrategyTypeBatch,
			"FIFO batch draw strategy - draws oldest batches first by production date",
		),
	}
}

// StrategyType returns the batch draw strategy type
func (s *FIFOBatchDrawStrategy) StrategyType() BatchDrawStrategyType {
	return BatchDrawStrategyTypeFIFO
}

// PlanDraws plans draws in oldest-first order
func (s *FIFOBatchDrawStrategy) PlanDraws(requested decimal.Decimal, batches []ComponentProduction, now time.Time) (*BatchDrawPlan, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Requested quantity must be positive")
	}

	available := filterAvailableBatches(batches, now)
	sort.Slice(available, func(i, j int) bool {
		if !available[i].ProductionDate.Equal(available[j].ProductionDate) {
			return available[i].ProductionDate.Before(available[j].ProductionDate)
		}
		return available[i].CreatedAt.Before(available[j].CreatedAt)
	})

	return planDraws(requested, available), nil
}

// FEFOBatchDrawStrategy draws from the batch closest to expiry first; batches
// without an expiration date go last, ordered by production date among
// themselves
type FEFOBatchDrawStrategy struct {
	strategy.BaseStrategy
}

// NewFEFOBatchDrawStrategy creates a new FEFO batch draw strategy
func NewFEFOBatchDrawStrategy() *FEFOBatchDrawStrategy {
	return &FEFOBatchDrawStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"fefo_batch_draw",
			strategy.StrategyTypeBatch,
			"FEFO batch draw strategy - draws batches closest to expiry first",
		),
	}
}

// StrategyType returns the batch draw strategy type
func (s *FEFOBatchDrawStrategy) StrategyType() BatchDrawStrategyType {
	return BatchDrawStrategyTypeFEFO
}

// PlanDraws plans draws in earliest-expiry-first order
func (s *FEFOBatchDrawStrategy) PlanDraws(requested decimal.Decimal, batches []ComponentProduction, now time.Time) (*BatchDrawPlan, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Requested quantity must be positive")
	}

	available := filterAvailableBatches(batches, now)
	sort.Slice(available, func(i, j int) bool {
		ei, ej := available[i].ExpirationDate, available[j].ExpirationDate
		switch {
		case ei != nil && ej != nil:
			if !ei.Equal(*ej) {
				return ei.Before(*ej)
			}
		case ei != nil:
			return true
		case ej != nil:
			return false
		}
		if !available[i].ProductionDate.Equal(available[j].ProductionDate) {
			return available[i].ProductionDate.Before(available[j].ProductionDate)
		}
		return available[i].CreatedAt.Before(available[j].CreatedAt)
	})

	return planDraws(requested, available), nil
}

func filterAvailableBatches(batches []ComponentProduction, now time.Time) []ComponentProduction {
	available := make([]ComponentProduction, 0, len(batches))
	for i := range batches {
		if batches[i].IsAvailable(now) {
			available = append(available, batches[i])
		}
	}
	return available
}

func planDraws(requested decimal.Decimal, sorted []ComponentProduction) *BatchDrawPlan {
	plan := &BatchDrawPlan{
		Draws:      make([]BatchDraw, 0, len(sorted)),
		TotalDrawn: decimal.Zero,
		TotalCost:  decimal.Zero,
	}
	remaining := requested

	for i := range sorted {
		if remaining.IsZero() {
			break
		}
		batch := &sorted[i]
		drawAmount := decimal.Min(remaining, batch.RemainingQuantity())
		if drawAmount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		remainingInBatch := batch.RemainingQuantity().Sub(drawAmount)
		cost := drawAmount.Mul(batch.UnitCost)

		plan.Draws = append(plan.Draws, BatchDraw{
			BatchID:          batch.ID,
			BatchNumber:      batch.BatchNumber,
			Amount:           drawAmount,
			UnitCost:         batch.UnitCost,
			TotalCost:        cost,
			RemainingInBatch: remainingInBatch,
			FullyConsumed:    remainingInBatch.IsZero(),
		})
		plan.TotalDrawn = plan.TotalDrawn.Add(drawAmount)
		plan.TotalCost = plan.TotalCost.Add(cost)
		remaining = remaining.Sub(drawAmount)
	}

	plan.Shortfall = remaining
	plan.FullyFulfilled = remaining.IsZero()
	return plan
}

// ApplyBatchDraws executes a plan against the real batch aggregates
func ApplyBatchDraws(batches []*ComponentProduction, plan *BatchDrawPlan) error {
	if plan == nil {
		return shared.NewValidationError("Batch draw plan cannot be nil")
	}

	byID := make(map[uuid.UUID]*ComponentProduction, len(batches))
	for _, batch := range batches {
		byID[batch.ID] = batch
	}

	for _, draw := range plan.Draws {
		batch, ok := byID[draw.BatchID]
		if !ok {
			return shared.NewDomainError("BATCH_NOT_FOUND", "Batch not found: "+draw.BatchID.String())
		}
		if err := batch.Consume(draw.Amount); err != nil {
			return err
		}
	}
	return nil
}

// AvailableQuantity sums the remaining quantity over batches usable now
func AvailableQuantity(batches []ComponentProduction, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for i := range batches {
		if batches[i].IsAvailable(now) {
			total = total.Add(batches[i].RemainingQuantity())
		}
	}
	return total
}

// BatchesByExpiryWindow returns available batches expiring within the window
func BatchesByExpiryWindow(batches []ComponentProduction, window time.Duration, now time.Time) []ComponentProduction {
	expiring := make([]ComponentProduction, 0)
	for i := range batches {
		if batches[i].IsAvailable(now) && batches[i].WillExpireWithin(window, now) {
			expiring = append(expiring, batches[i])
		}
	}
	return expiring
}

// BatchDrawStrategyFactory creates batch draw strategies
type BatchDrawStrategyFactory struct{}

// NewBatchDrawStrategyFactory creates a new factory
func NewBatchDrawStrategyFactory() *BatchDrawStrategyFactory {
	return &BatchDrawStrategyFactory{}
}

// GetStrategy returns a strategy by type
func (f *BatchDrawStrategyFactory) GetStrategy(strategyType BatchDrawStrategyType) (BatchDrawStrategy, error) {
	switch strategyType {
	case BatchDrawStrategyTypeFIFO:
		return NewFIFOBatchDrawStrategy(), nil
	case BatchDrawStrategyTypeFEFO:
		return NewFEFOBatchDrawStrategy(), nil
	default:
		return nil, shared.NewDomainError("INVALID_STRATEGY", "Unknown batch draw strategy type")
	}
}

// GetDefaultStrategy returns the default strategy (FEFO)
func (f *BatchDrawStrategyFactory) GetDefaultStrategy() BatchDrawStrategy {
	return NewFEFOBatchDrawStrategy()
}
