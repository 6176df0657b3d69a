package bom

import (
	"context"

	"github.com/bomcraft/backend/internal/domain/bom"
	"github.com/bomcraft/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// supplyPricer adapts the ledger to the calculator's pricing port: a supply's
// current unit cost is derived from its entry history by the configured cost
// strategy.
type supplyPricer struct {
	supplyRepo   ledger.SupplyRepository
	entryRepo    ledger.SupplyEntryRepository
	costStrategy ledger.SupplyCostStrategy
}

// NewSupplyPricer creates a bom.SupplyPricer backed by the ledger
func NewSupplyPricer(
	supplyRepo ledger.SupplyRepository,
	entryRepo ledger.SupplyEntryRepository,
	costStrategy ledger.SupplyCostStrategy,
) bom.SupplyPricer {
	if costStrategy == nil {
		costStrategy = ledger.NewWeightedAverageCostStrategy()
	}
	return &supplyPricer{
		supplyRepo:   supplyRepo,
		entryRepo:    entryRepo,
		costStrategy: costStrategy,
	}
}

// SupplyCost derives the supply's current unit cost from its ledger history
func (p *supplyPricer) SupplyCost(ctx context.Context, businessID, supplyID uuid.UUID) (decimal.Decimal, error) {
	if _, err := p.supplyRepo.FindByID(ctx, businessID, supplyID); err != nil {
		return decimal.Zero, err
	}
	entries, err := p.entryRepo.FindBySupply(ctx, businessID, supplyID)
	if err != nil {
		return decimal.Zero, err
	}
	return p.costStrategy.UnitCost(entries), nil
}

// SupplyName resolves the supply's display name
func (p *supplyPricer) SupplyName(ctx context.Context, businessID, supplyID uuid.UUID) (string, error) {
	supply, err := p.supplyRepo.FindByID(ctx, businessID, supplyID)
	if err != nil {
		return "", err
	}
	return supply.Name, nil
}

// CostingService exposes the recursive cost roll-up
type CostingService struct {
	calculator *bom.Calculator
}

// NewCostingService creates a costing service over the component graph and
// the ledger-backed pricer
func NewCostingService(componentRepo bom.ComponentRepository, pricer bom.SupplyPricer) *CostingService {
	return &CostingService{
		calculator: bom.NewCalculator(componentRepo, pricer),
	}
}

// Calculator returns the underlying calculator for in-transaction use
func (s *CostingService) Calculator() *bom.Calculator {
	return s.calculator
}

// UnitCost computes the component's rolled-up cost per unit of yield
func (s *CostingService) UnitCost(ctx context.Context, businessID, componentID uuid.UUID) (*UnitCostResponse, error) {
	cost, err := s.calculator.UnitCost(ctx, businessID, componentID)
	if err != nil {
		return nil, err
	}
	return &UnitCostResponse{ComponentID: componentID, UnitCost: cost}, nil
}

// Tree builds the displayable BOM tree with per-node costs
func (s *CostingService) Tree(ctx context.Context, businessID, componentID uuid.UUID) (*bom.TreeNode, error) {
	return s.calculator.BuildTree(ctx, businessID, componentID)
}
