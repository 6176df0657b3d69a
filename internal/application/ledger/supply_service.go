package ledger

import (
	"context"
	"errors"

	"github.com/bomcraft/backend/internal/domain/bom"
	"github.com/bomcraft/backend/internal/domain/ledger"
	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplyService handles supply CRUD and derived stock reporting
type SupplyService struct {
	supplyRepo     ledger.SupplyRepository
	entryRepo      ledger.SupplyEntryRepository
	componentRepo  bom.ComponentRepository
	costStrategy   ledger.SupplyCostStrategy
	eventPublisher shared.EventPublisher
}

// NewSupplyService creates a new SupplyService
func NewSupplyService(
	supplyRepo ledger.SupplyRepository,
	entryRepo ledger.SupplyEntryRepository,
	componentRepo bom.ComponentRepository,
	costStrategy ledger.SupplyCostStrategy,
) *SupplyService {
	if costStrategy == nil {
		costStrategy = ledger.NewWeightedAverageCostStrategy()
	}
	return &SupplyService{
		supplyRepo:    supplyRepo,
		entryRepo:     entryRepo,
		componentRepo: componentRepo,
		costStrategy:  costStrategy,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SupplyService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new supply
func (s *SupplyService) Create(ctx context.Context, businessID uuid.UUID, req CreateSupplyRequest) (*SupplyResponse, error) {
	existing, err := s.supplyRepo.FindByName(ctx, businessID, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	supply, err := ledger.NewSupply(businessID, req.Name, req.Unit, req.MinStock)
	if err != nil {
		return nil, err
	}
	if err := s.supplyRepo.Create(ctx, supply); err != nil {
		return nil, err
	}

	response := ToSupplyResponse(supply, decimal.Zero, decimal.Zero)
	return &response, nil
}

// Update modifies an existing supply
func (s *SupplyService) Update(ctx context.Context, businessID, supplyID uuid.UUID, req UpdateSupplyRequest) (*SupplyResponse, error) {
	supply, err := s.supplyRepo.FindByID(ctx, businessID, supplyID)
	if err != nil {
		return nil, err
	}
	if err := supply.Update(req.Name, req.Unit, req.MinStock); err != nil {
		return nil, err
	}
	if err := s.supplyRepo.Update(ctx, supply); err != nil {
		return nil, err
	}
	return s.respond(ctx, supply)
}

// GetByID retrieves a supply with its derived stock and cost
func (s *SupplyService) GetByID(ctx context.Context, businessID, supplyID uuid.UUID) (*SupplyResponse, error) {
	supply, err := s.supplyRepo.FindByID(ctx, businessID, supplyID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, supply)
}

// List returns supplies matching the filter, with derived figures per row
func (s *SupplyService) List(ctx context.Context, businessID uuid.UUID, filter SupplyListFilter) (*shared.Paginated[SupplyResponse], error) {
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

	page, err := s.supplyRepo.FindAll(ctx, businessID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]SupplyResponse, 0, len(page.Items))
	for i := range page.Items {
		response, err := s.respond(ctx, &page.Items[i])
		if err != nil {
			return nil, err
		}
		if filter.BelowMinimum != nil && *filter.BelowMinimum &&
			response.StockStatus == ledger.StockStatusIn {
			continue
		}
		responses = append(responses, *response)
	}

	result := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Stock reports the derived stock position of one supply
func (s *SupplyService) Stock(ctx context.Context, businessID, supplyID uuid.UUID) (*StockResponse, error) {
	supply, err := s.supplyRepo.FindByID(ctx, businessID, supplyID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.FindBySupply(ctx, businessID, supplyID)
	if err != nil {
		return nil, err
	}
	current := ledger.CurrentStock(entries)
	return &StockResponse{
		SupplyID:     supply.ID,
		CurrentStock: current,
		MinStock:     supply.MinStock,
		UnitCost:     s.costStrategy.UnitCost(entries),
		StockStatus:  supply.Status(current),
	}, nil
}

// Deactivate soft-deletes a supply. Fails with ReferentialConflict while
// recipe edges still reference it.
func (s *SupplyService) Deactivate(ctx context.Context, businessID, supplyID uuid.UUID) error {
	supply, err := s.supplyRepo.FindByID(ctx, businessID, supplyID)
	if err != nil {
		return err
	}

	usage, err := s.componentRepo.UsageCount(ctx, businessID, supplyID, bom.ItemTypeSupply)
	if err != nil {
		return err
	}
	if usage > 0 {
		return shared.NewReferentialConflictError(supply.Name, usage)
	}

	supply.Deactivate()
	if err := s.supplyRepo.Update(ctx, supply); err != nil {
		return err
	}
	s.publishDomainEvents(ctx, supply)
	return nil
}

func (s *SupplyService) respond(ctx context.Context, supply *ledger.Supply) (*SupplyResponse, error) {
	entries, err := s.entryRepo.FindBySupply(ctx, supply.BusinessID, supply.ID)
	if err != nil {
		return nil, err
	}
	response := ToSupplyResponse(supply, ledger.CurrentStock(entries), s.costStrategy.UnitCost(entries))
	return &response, nil
}

func (s *SupplyService) publishDomainEvents(ctx context.Context, supply *ledger.Supply) {
	if s.eventPublisher == nil {
		return
	}
	events := supply.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	supply.ClearDomainEvents()
}
