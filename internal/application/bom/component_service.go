package bom

import (
	"context"
	"errors"

	"github.com/bomcraft/backend/internal/domain/bom"
	"github.com/bomcraft/backend/internal/domain/ledger"
	"github.com/bomcraft/backend/internal/domain/production"
	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ComponentService handles component CRUD and recipe editing
type ComponentService struct {
	txScope        TransactionScope
	componentRepo  bom.ComponentRepository
	supplyRepo     ledger.SupplyRepository
	productionRepo production.ProductionRepository
}

// NewComponentService creates a new ComponentService
func NewComponentService(
	txScope TransactionScope,
	componentRepo bom.ComponentRepository,
	supplyRepo ledger.SupplyRepository,
	productionRepo production.ProductionRepository,
) *ComponentService {
	return &ComponentService{
		txScope:        txScope,
		componentRepo:  componentRepo,
		supplyRepo:     supplyRepo,
		productionRepo: productionRepo,
	}
}

// Create creates a new component
func (s *ComponentService) Create(ctx context.Context, businessID uuid.UUID, req CreateComponentRequest) (*ComponentResponse, error) {
	existing, err := s.componentRepo.FindByName(ctx, businessID, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	component, err := bom.NewComponent(businessID, req.Name, req.Unit, req.YieldAmount, req.PrepTimeMinutes)
	if err != nil {
		return nil, err
	}
	if err := s.componentRepo.Create(ctx, component); err != nil {
		return nil, err
	}

	response := ToComponentResponse(component)
	return &response, nil
}

// Update modifies an existing component
func (s *ComponentService) Update(ctx context.Context, businessID, componentID uuid.UUID, req UpdateComponentRequest) (*ComponentResponse, error) {
	component, err := s.componentRepo.FindByID(ctx, businessID, componentID)
	if err != nil {
		return nil, err
	}
	if err := component.Update(req.Name, req.Unit, req.YieldAmount, req.PrepTimeMinutes, req.MinStock); err != nil {
		return nil, err
	}
	if err := s.componentRepo.Update(ctx, component); err != nil {
		return nil, err
	}
	response := ToComponentResponse(component)
	return &response, nil
}

// GetByID retrieves a component
func (s *ComponentService) GetByID(ctx context.Context, businessID, componentID uuid.UUID) (*ComponentResponse, error) {
	component, err := s.componentRepo.FindByID(ctx, businessID, componentID)
	if err != nil {
		return nil, err
	}
	response := ToComponentResponse(component)
	return &response, nil
}

// List returns components matching the filter
func (s *ComponentService) List(ctx context.Context, businessID uuid.UUID, filter ComponentListFilter) (*shared.Paginated[ComponentResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.ActiveOnly != nil && *filter.ActiveOnly {
		domainFilter.Filters["active"] = true
	}

	page, err := s.componentRepo.FindAll(ctx, businessID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]ComponentResponse, 0, len(page.Items))
	for i := range page.Items {
		responses = append(responses, ToComponentResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// GetRecipe returns a component's recipe with resolved child names
func (s *ComponentService) GetRecipe(ctx context.Context, businessID, componentID uuid.UUID) ([]EdgeResponse, error) {
	if _, err := s.componentRepo.FindByID(ctx, businessID, componentID); err != nil {
		return nil, err
	}
	edges, err := s.componentRepo.EdgesOf(ctx, businessID, componentID)
	if err != nil {
		return nil, err
	}

	responses := make([]EdgeResponse, 0, len(edges))
	for i := range edges {
		edge := &edges[i]
		name, err := s.childName(ctx, businessID, edge)
		if err != nil {
			return nil, err
		}
		responses = append(responses, EdgeResponse{
			ID:        edge.ID,
			ItemType:  edge.ItemType,
			ItemID:    edge.ChildID,
			ItemName:  name,
			Quantity:  edge.Quantity,
			SortOrder: edge.SortOrder,
			Optional:  edge.Optional,
		})
	}
	return responses, nil
}

// SetRecipe replaces the component's full edge set atomically. Each proposed
// component-type edge is cycle-checked against the stored graph inside the
// same transaction that swaps the edges, so a violation leaves the prior
// recipe intact and concurrent readers never see a partial recipe.
func (s *ComponentService) SetRecipe(ctx context.Context, businessID, componentID uuid.UUID, req SetRecipeRequest) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		parent, err := repos.ComponentRepo().FindByID(ctx, businessID, componentID)
		if err != nil {
			return err
		}

		checker := bom.NewCycleChecker(repos.ComponentRepo())
		edges := make([]bom.BOMEdge, 0, len(req.Edges))
		for _, line := range req.Edges {
			edge, err := bom.NewBOMEdge(businessID, parent.ID, line.ItemType, line.ItemID, line.Quantity, line.SortOrder, line.Optional)
			if err != nil {
				return err
			}

			if edge.IsComponentChild() {
				child, err := repos.ComponentRepo().FindByID(ctx, businessID, edge.ChildID)
				if err != nil {
					return err
				}
				cyclic, err := checker.WouldCreateCycle(ctx, businessID, parent.ID, child.ID)
				if err != nil {
					return err
				}
				if cyclic {
					return shared.NewCircularReferenceError(child.Name)
				}
			} else {
				if _, err := repos.SupplyRepo().FindByID(ctx, businessID, edge.ChildID); err != nil {
					return err
				}
			}
			edges = append(edges, *edge)
		}

		return repos.ComponentRepo().ReplaceEdges(ctx, businessID, parent.ID, edges)
	})
}

// Usage reports how many recipe lines and production batches reference an item
func (s *ComponentService) Usage(ctx context.Context, businessID, itemID uuid.UUID, itemType bom.ItemType) (*UsageResponse, error) {
	if !itemType.IsValid() {
		return nil, shared.NewValidationError("Item type must be SUPPLY or COMPONENT")
	}

	edgeCount, err := s.componentRepo.UsageCount(ctx, businessID, itemID, itemType)
	if err != nil {
		return nil, err
	}

	var batchCount int64
	if itemType == bom.ItemTypeComponent && s.productionRepo != nil {
		batchCount, err = s.productionRepo.CountByComponent(ctx, businessID, itemID)
		if err != nil {
			return nil, err
		}
	}

	return &UsageResponse{
		ItemID:               itemID,
		ItemType:             itemType,
		ComponentUsageCount:  edgeCount,
		ProductionUsageCount: batchCount,
	}, nil
}

// Deactivate soft-deletes a component. Fails with ReferentialConflict while
// other recipes still reference it.
func (s *ComponentService) Deactivate(ctx context.Context, businessID, componentID uuid.UUID) error {
	component, err := s.componentRepo.FindByID(ctx, businessID, componentID)
	if err != nil {
		return err
	}

	usage, err := s.componentRepo.UsageCount(ctx, businessID, componentID, bom.ItemTypeComponent)
	if err != nil {
		return err
	}
	if usage > 0 {
		return shared.NewReferentialConflictError(component.Name, usage)
	}

	component.Deactivate()
	return s.componentRepo.Update(ctx, component)
}

func (s *ComponentService) childName(ctx context.Context, businessID uuid.UUID, edge *bom.BOMEdge) (string, error) {
	if edge.IsComponentChild() {
		child, err := s.componentRepo.FindByID(ctx, businessID, edge.ChildID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return "", nil
			}
			return "", err
		}
		return child.Name, nil
	}
	supply, err := s.supplyRepo.FindByID(ctx, businessID, edge.ChildID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return supply.Name, nil
}
