package bom

import (
	"context"
	"errors"

	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// unitCostScale is the precision of rolled-up component costs
const unitCostScale = 4

// SupplyPricer resolves a supply's current unit cost and display name.
// A supply that no longer exists prices at zero, keeping the roll-up total.
type SupplyPricer interface {
	SupplyCost(ctx context.Context, businessID, supplyID uuid.UUID) (decimal.Decimal, error)
	SupplyName(ctx context.Context, businessID, supplyID uuid.UUID) (string, error)
}

// ComponentSource loads components and their recipes for traversal
type ComponentSource interface {
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*Component, error)
	EdgesOf(ctx context.Context, businessID, componentID uuid.UUID) ([]BOMEdge, error)
}

// TreeNode is one node of the displayable BOM tree. The root carries the
// target component at level 0 with quantity 1.
type TreeNode struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Type     ItemType        `json:"type"`
	Quantity decimal.Decimal `json:"quantity"`
	Level    int             `json:"level"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Children []*TreeNode     `json:"children,omitempty"`
}

// Calculator rolls a component's recipe up into a per-unit cost. Every public
// call opens a fresh memo so cost changes between calls are always observed;
// within one call each component is priced exactly once even on diamond
// shaped graphs.
type Calculator struct {
	components ComponentSource
	supplies   SupplyPricer
}

// NewCalculator creates a cost roll-up calculator
func NewCalculator(components ComponentSource, supplies SupplyPricer) *Calculator {
	return &Calculator{components: components, supplies: supplies}
}

type costRun struct {
	businessID uuid.UUID
	memo       map[uuid.UUID]decimal.Decimal
	visiting   map[uuid.UUID]bool
}

// UnitCost computes the component's cost per unit of yield: the sum of each
// edge's quantity times its child's unit cost, divided by the component's
// yield amount. A component with no edges costs zero. Missing children price
// at zero; a cycle in stored edges fails with a circular reference error.
func (c *Calculator) UnitCost(ctx context.Context, businessID, componentID uuid.UUID) (decimal.Decimal, error) {
	run := &costRun{
		businessID: businessID,
		memo:       make(map[uuid.UUID]decimal.Decimal),
		visiting:   make(map[uuid.UUID]bool),
	}
	return c.unitCost(ctx, run, componentID)
}

func (c *Calculator) unitCost(ctx context.Context, run *costRun, componentID uuid.UUID) (decimal.Decimal, error) {
	if cost, ok := run.memo[componentID]; ok {
		return cost, nil
	}
	if run.visiting[componentID] {
		return decimal.Zero, shared.NewCircularReferenceError(componentID.String())
	}
	run.visiting[componentID] = true
	defer delete(run.visiting, componentID)

	component, err := c.components.FindByID(ctx, run.businessID, componentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			run.memo[componentID] = decimal.Zero
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	edges, err := c.components.EdgesOf(ctx, run.businessID, componentID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i := range edges {
		edge := &edges[i]
		childCost, err := c.childCost(ctx, run, edge)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(edge.Quantity.Mul(childCost))
	}

	cost := decimal.Zero
	if !component.YieldAmount.IsZero() {
		cost = total.Div(component.YieldAmount).Round(unitCostScale)
	}
	run.memo[componentID] = cost
	return cost, nil
}

func (c *Calculator) childCost(ctx context.Context, run *costRun, edge *BOMEdge) (decimal.Decimal, error) {
	if edge.IsComponentChild() {
		return c.unitCost(ctx, run, edge.ChildID)
	}
	cost, err := c.supplies.SupplyCost(ctx, run.businessID, edge.ChildID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return cost, nil
}

// BuildTree produces the displayable recipe tree for a component, annotating
// every node with its depth and its own per-unit cost. The traversal shares
// the memo of a single run, so repeated sub-components are priced once.
func (c *Calculator) BuildTree(ctx context.Context, businessID, componentID uuid.UUID) (*TreeNode, error) {
	run := &costRun{
		businessID: businessID,
		memo:       make(map[uuid.UUID]decimal.Decimal),
		visiting:   make(map[uuid.UUID]bool),
	}
	return c.buildNode(ctx, run, componentID, decimal.NewFromInt(1), 0)
}

func (c *Calculator) buildNode(ctx context.Context, run *costRun, componentID uuid.UUID, quantity decimal.Decimal, level int) (*TreeNode, error) {
	if run.visiting[componentID] {
		return nil, shared.NewCircularReferenceError(componentID.String())
	}

	component, err := c.components.FindByID(ctx, run.businessID, componentID)
	if err != nil {
		return nil, err
	}
	cost, err := c.unitCost(ctx, run, componentID)
	if err != nil {
		return nil, err
	}

	node := &TreeNode{
		ID:       componentID,
		Name:     component.Name,
		Type:     ItemTypeComponent,
		Quantity: quantity,
		Level:    level,
		UnitCost: cost,
	}

	run.visiting[componentID] = true
	defer delete(run.visiting, componentID)

	edges, err := c.components.EdgesOf(ctx, run.businessID, componentID)
	if err != nil {
		return nil, err
	}
	for i := range edges {
		edge := &edges[i]
		if edge.IsComponentChild() {
			child, err := c.buildNode(ctx, run, edge.ChildID, edge.Quantity, level+1)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
			continue
		}

		name, err := c.supplies.SupplyName(ctx, run.businessID, edge.ChildID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		supplyCost, err := c.supplies.SupplyCost(ctx, run.businessID, edge.ChildID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		node.Children = append(node.Children, &TreeNode{
			ID:       edge.ChildID,
			Name:     name,
			Type:     ItemTypeSupply,
			Quantity: edge.Quantity,
			Level:    level + 1,
			UnitCost: supplyCost,
		})
	}
	return node, nil
}
