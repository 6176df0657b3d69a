package bom

import (
	"context"

	"github.com/google/uuid"
)

// EdgeLoader reads the outgoing recipe edges of a component. Satisfied by
// ComponentRepository; kept narrow so the cycle checker stays testable with
// an in-memory graph.
type EdgeLoader interface {
	EdgesOf(ctx context.Context, businessID, componentID uuid.UUID) ([]BOMEdge, error)
}

// CycleChecker validates that recipe edits keep the BOM graph acyclic
type CycleChecker struct {
	edges EdgeLoader
}

// NewCycleChecker creates a cycle checker over the given edge source
func NewCycleChecker(edges EdgeLoader) *CycleChecker {
	return &CycleChecker{edges: edges}
}

// WouldCreateCycle reports whether adding candidate as a sub-component of
// parent would close a cycle: true when candidate is parent itself, or when
// parent is reachable from candidate through component-type edges. The walk
// is iterative with a visited set, so it terminates even on graphs that are
// already corrupt.
func (c *CycleChecker) WouldCreateCycle(ctx context.Context, businessID, parentID, candidateID uuid.UUID) (bool, error) {
	if candidateID == parentID {
		return true, nil
	}

	visited := map[uuid.UUID]bool{candidateID: true}
	stack := []uuid.UUID{candidateID}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		edges, err := c.edges.EdgesOf(ctx, businessID, current)
		if err != nil {
			return false, err
		}
		for i := range edges {
			if !edges[i].IsComponentChild() {
				continue
			}
			child := edges[i].ChildID
			if child == parentID {
				return true, nil
			}
			if visited[child] {
				continue
			}
			visited[child] = true
			stack = append(stack, child)
		}
	}
	return false, nil
}
