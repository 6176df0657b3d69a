package ledger

import (
	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/bomcraft/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// costScale is the precision used for derived unit costs
const costScale = 4

// SupplyCostStrategyType defines how a supply's current unit cost is derived
type SupplyCostStrategyType string

const (
	// SupplyCostStrategyTypeWeightedAverage averages addition costs by quantity
	SupplyCostStrategyTypeWeightedAverage SupplyCostStrategyType = "WEIGHTED_AVERAGE"
	// SupplyCostStrategyTypeLatestEntry uses the cost of the newest addition
	SupplyCostStrategyTypeLatestEntry SupplyCostStrategyType = "LATEST_ENTRY"
)

// IsValid checks if the strategy type is valid
func (t SupplyCostStrategyType) IsValid() bool {
	return t == SupplyCostStrategyTypeWeightedAverage || t == SupplyCostStrategyTypeLatestEntry
}

// SupplyCostStrategy derives a supply's current unit cost from its ledger
// history. Strategies are stateless; the entries are passed per call.
type SupplyCostStrategy interface {
	strategy.Strategy
	// StrategyType returns the supply cost strategy type
	StrategyType() SupplyCostStrategyType
	// UnitCost derives the current unit cost from the entry history
	UnitCost(entries []SupplyEntry) decimal.Decimal
}

// WeightedAverageCostStrategy prices a supply at the quantity-weighted average
// unit cost of its active addition entries. Consumptions do not move the
// average; they draw stock out at whatever the average was when recorded.
type WeightedAverageCostStrategy struct {
	strategy.BaseStrategy
}

// NewWeightedAverageCostStrategy creates the default cost strategy
func NewWeightedAverageCostStrategy() *WeightedAverageCostStrategy {
	return &WeightedAverageCostStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"weighted_average_supply_cost",
			strategy.StrategyTypeCost,
			"Weighted average supply cost - averages addition entry costs by quantity",
		),
	}
}

// StrategyType returns the supply cost strategy type
func (s *WeightedAverageCostStrategy) StrategyType() SupplyCostStrategyType {
	return SupplyCostStrategyTypeWeightedAverage
}

// UnitCost returns sum(amount*cost)/sum(amount) over active additions,
// rounded to the cost scale. No additions yields zero.
func (s *WeightedAverageCostStrategy) UnitCost(entries []SupplyEntry) decimal.Decimal {
	totalAmount := decimal.Zero
	totalCost := decimal.Zero
	for i := range entries {
		e := &entries[i]
		if !e.Active || !e.IsAddition() {
			continue
		}
		totalAmount = totalAmount.Add(e.Amount)
		totalCost = totalCost.Add(e.Amount.Mul(e.UnitCost))
	}
	if totalAmount.IsZero() {
		return decimal.Zero
	}
	return totalCost.Div(totalAmount).Round(costScale)
}

// LatestEntryCostStrategy prices a supply at the unit cost of its most recent
// active addition. Useful when replacement cost matters more than history.
type LatestEntryCostStrategy struct {
	strategy.BaseStrategy
}

// NewLatestEntryCostStrategy creates the latest-entry cost strategy
func NewLatestEntryCostStrategy() *LatestEntryCostStrategy {
	return &LatestEntryCostStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"latest_entry_supply_cost",
			strategy.StrategyTypeCost,
			"Latest entry supply cost - uses the unit cost of the newest addition entry",
		),
	}
}

// StrategyType returns the supply cost strategy type
func (s *LatestEntryCostStrategy) StrategyType() SupplyCostStrategyType {
	return SupplyCostStrategyTypeLatestEntry
}

// UnitCost returns the unit cost of the newest active addition, zero if none
func (s *LatestEntryCostStrategy) UnitCost(entries []SupplyEntry) decimal.Decimal {
	var latest *SupplyEntry
	for i := range entries {
		e := &entries[i]
		if !e.Active || !e.IsAddition() {
			continue
		}
		if latest == nil || e.EntryDate.After(latest.EntryDate) {
			latest = e
		}
	}
	if latest == nil {
		return decimal.Zero
	}
	return latest.UnitCost
}

// SupplyCostStrategyFactory creates supply cost strategies
type SupplyCostStrategyFactory struct{}

// NewSupplyCostStrategyFactory creates a new factory
func NewSupplyCostStrategyFactory() *SupplyCostStrategyFactory {
	return &SupplyCostStrategyFactory{}
}

// GetStrategy returns a strategy by type
func (f *SupplyCostStrategyFactory) GetStrategy(strategyType SupplyCostStrategyType) (SupplyCostStrategy, error) {
	switch strategyType {
	case SupplyCostStrategyTypeWeightedAverage:
		return NewWeightedAverageCostStrategy(), nil
	case SupplyCostStrategyTypeLatestEntry:
		return NewLatestEntryCostStrategy(), nil
	default:
		return nil, shared.NewDomainError("INVALID_STRATEGY", "Unknown supply cost strategy type")
	}
}

// GetDefaultStrategy returns the default strategy (weighted average)
func (f *SupplyCostStrategyFactory) GetDefaultStrategy() SupplyCostStrategy {
	return NewWeightedAverageCostStrategy()
}
