package production

import (
	"context"
	"errors"
	"time"

	bomapp "github.com/bomcraft/backend/internal/application/bom"
	ledgerapp "github.com/bomcraft/backend/internal/application/ledger"
	"github.com/bomcraft/backend/internal/domain/bom"
	"github.com/bomcraft/backend/internal/domain/ledger"
	"github.com/bomcraft/backend/internal/domain/production"
	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Policy carries the configurable production behaviors. Negative stock and
// automatic shortfall production are both off unless configuration enables
// them.
type Policy struct {
	AllowNegativeStock   bool
	AutoProduceShortfall bool
	BatchDrawStrategy    production.BatchDrawStrategyType
}

// DefaultPolicy returns the default production policy
func DefaultPolicy() Policy {
	return Policy{
		AllowNegativeStock:   false,
		AutoProduceShortfall: false,
		BatchDrawStrategy:    production.BatchDrawStrategyTypeFEFO,
	}
}

// ProductionService realizes production runs: it prices the run via the cost
// roll-up, consumes supplies from the ledger and sub-components from their
// batches, and records the resulting batch. The whole run executes inside
// one transaction scope.
type ProductionService struct {
	txScope        TransactionScope
	productionRepo production.ProductionRepository
	componentRepo  bom.ComponentRepository
	costStrategy   ledger.SupplyCostStrategy
	drawStrategy   production.BatchDrawStrategy
	policy         Policy
	eventPublisher shared.EventPublisher
}

// NewProductionService creates a new ProductionService
func NewProductionService(
	txScope TransactionScope,
	productionRepo production.ProductionRepository,
	componentRepo bom.ComponentRepository,
	costStrategy ledger.SupplyCostStrategy,
	policy Policy,
) *ProductionService {
	if costStrategy == nil {
		costStrategy = ledger.NewWeightedAverageCostStrategy()
	}
	drawStrategy, err := production.NewBatchDrawStrategyFactory().GetStrategy(policy.BatchDrawStrategy)
	if err != nil {
		drawStrategy = production.NewBatchDrawStrategyFactory().GetDefaultStrategy()
	}
	return &ProductionService{
		txScope:        txScope,
		productionRepo: productionRepo,
		componentRepo:  componentRepo,
		costStrategy:   costStrategy,
		drawStrategy:   drawStrategy,
		policy:         policy,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Produce runs a production batch for a component. All consumption entries,
// sub-batch draws and the new batch row commit atomically; any validation or
// stock failure rolls the whole run back.
func (s *ProductionService) Produce(ctx context.Context, businessID uuid.UUID, req ProduceRequest) (*ProductionResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Production amount must be positive")
	}

	var created *production.ComponentProduction
	var touched []*production.ComponentProduction

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		run := &productionRun{
			repos:     repos,
			producing: make(map[uuid.UUID]bool),
		}
		batch, err := s.produce(ctx, run, businessID, req.ComponentID, req.Amount, req.ExpirationDate, req.Notes)
		if err != nil {
			return err
		}
		created = batch
		touched = run.touched
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, created)
	for _, batch := range touched {
		s.publishDomainEvents(ctx, batch)
	}

	response := ToProductionResponse(created)
	return &response, nil
}

// productionRun carries per-run state through the recursive produce calls
type productionRun struct {
	repos TransactionalRepositories
	// producing guards against recipe cycles reappearing through the
	// auto-shortfall recursion
	producing map[uuid.UUID]bool
	// touched collects sub-batches drawn from, for event publication after commit
	touched []*production.ComponentProduction
}

func (s *ProductionService) produce(ctx context.Context, run *productionRun, businessID, componentID uuid.UUID, amount decimal.Decimal, expiration *time.Time, notes string) (*production.ComponentProduction, error) {
	if run.producing[componentID] {
		return nil, shared.NewCircularReferenceError(componentID.String())
	}
	run.producing[componentID] = true
	defer delete(run.producing, componentID)

	component, err := run.repos.ComponentRepo().FindByID(ctx, businessID, componentID)
	if err != nil {
		return nil, err
	}

	pricer := bomapp.NewSupplyPricer(run.repos.SupplyRepo(), run.repos.EntryRepo(), s.costStrategy)
	calculator := bom.NewCalculator(run.repos.ComponentRepo(), pricer)
	unitCost, err := calculator.UnitCost(ctx, businessID, componentID)
	if err != nil {
		return nil, err
	}

	batch, err := production.NewComponentProduction(
		businessID, component.ID,
		production.GenerateBatchNumber(component.ID, time.Now()),
		amount, unitCost, expiration, notes,
	)
	if err != nil {
		return nil, err
	}

	edges, err := run.repos.ComponentRepo().EdgesOf(ctx, businessID, componentID)
	if err != nil {
		return nil, err
	}
	for i := range edges {
		edge := &edges[i]
		required := edge.Quantity.Mul(amount).Div(component.YieldAmount)
		if required.LessThanOrEqual(decimal.Zero) {
			continue
		}

		if edge.IsComponentChild() {
			err = s.consumeComponent(ctx, run, businessID, edge.ChildID, required)
		} else {
			err = s.consumeSupply(ctx, run, businessID, edge.ChildID, required, batch.ID)
		}
		if err != nil {
			if edge.Optional && isInsufficientStock(err) {
				continue
			}
			return nil, err
		}
	}

	if err := run.repos.ProductionRepo().Create(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

func (s *ProductionService) consumeSupply(ctx context.Context, run *productionRun, businessID, supplyID uuid.UUID, required decimal.Decimal, productionID uuid.UUID) error {
	entries, _, err := ledgerapp.ConsumeFromSupply(ctx, run.repos, businessID, supplyID, required, &productionID, s.policy.AllowNegativeStock)
	if err != nil {
		return err
	}
	return run.repos.EntryRepo().CreateBatch(ctx, entries)
}

func (s *ProductionService) consumeComponent(ctx context.Context, run *productionRun, businessID, componentID uuid.UUID, required decimal.Decimal) error {
	child, err := run.repos.ComponentRepo().FindByID(ctx, businessID, componentID)
	if err != nil {
		return err
	}

	now := time.Now()
	batches, err := run.repos.ProductionRepo().FindAvailableByComponent(ctx, businessID, componentID, now)
	if err != nil {
		return err
	}

	available := production.AvailableQuantity(batches, now)
	if available.LessThan(required) {
		if !s.policy.AutoProduceShortfall {
			return shared.NewInsufficientStockError(child.Name, required, available)
		}
		shortfall := required.Sub(available)
		if _, err := s.produce(ctx, run, businessID, componentID, shortfall, nil, "auto-produced for shortfall"); err != nil {
			return err
		}
		batches, err = run.repos.ProductionRepo().FindAvailableByComponent(ctx, businessID, componentID, now)
		if err != nil {
			return err
		}
	}

	plan, err := s.drawStrategy.PlanDraws(required, batches, now)
	if err != nil {
		return err
	}
	if !plan.FullyFulfilled {
		return shared.NewInsufficientStockError(child.Name, required, plan.TotalDrawn)
	}

	pointers := make([]*production.ComponentProduction, len(batches))
	for i := range batches {
		pointers[i] = &batches[i]
	}
	if err := production.ApplyBatchDraws(pointers, plan); err != nil {
		return err
	}

	drawn := make(map[uuid.UUID]bool, len(plan.Draws))
	for _, draw := range plan.Draws {
		drawn[draw.BatchID] = true
	}
	for _, batch := range pointers {
		if !drawn[batch.ID] {
			continue
		}
		if err := run.repos.ProductionRepo().Update(ctx, batch); err != nil {
			return err
		}
		run.touched = append(run.touched, batch)
	}
	return nil
}

// Consume draws quantity from one batch, administrative counterpart of the
// automatic draws performed by Produce. The locked read and the version
// predicate on Update together serialize concurrent draws on one batch.
func (s *ProductionService) Consume(ctx context.Context, businessID, productionID uuid.UUID, req ConsumeRequest) (*ProductionResponse, error) {
	var batch *production.ComponentProduction
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		loaded, err := repos.ProductionRepo().FindByIDForUpdate(ctx, businessID, productionID)
		if err != nil {
			return err
		}
		if err := loaded.Consume(req.Amount); err != nil {
			return err
		}
		if err := repos.ProductionRepo().Update(ctx, loaded); err != nil {
			return err
		}
		batch = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, batch)

	response := ToProductionResponse(batch)
	return &response, nil
}

// GetByID retrieves a production batch
func (s *ProductionService) GetByID(ctx context.Context, businessID, productionID uuid.UUID) (*ProductionResponse, error) {
	batch, err := s.productionRepo.FindByID(ctx, businessID, productionID)
	if err != nil {
		return nil, err
	}
	response := ToProductionResponse(batch)
	return &response, nil
}

// List returns production batches matching the filter
func (s *ProductionService) List(ctx context.Context, businessID uuid.UUID, filter ProductionListFilter) (*shared.Paginated[ProductionResponse], error) {
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
	if filter.ComponentID != nil {
		domainFilter.Filters["component_id"] = *filter.ComponentID
	}
	if filter.ActiveOnly != nil && *filter.ActiveOnly {
		domainFilter.Filters["active"] = true
	}

	page, err := s.productionRepo.FindAll(ctx, businessID, domainFilter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToProductionResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Availability reports a component's usable quantity over its batches
func (s *ProductionService) Availability(ctx context.Context, businessID, componentID uuid.UUID) (*AvailabilityResponse, error) {
	if _, err := s.componentRepo.FindByID(ctx, businessID, componentID); err != nil {
		return nil, err
	}
	now := time.Now()
	batches, err := s.productionRepo.FindAvailableByComponent(ctx, businessID, componentID, now)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResponse{
		ComponentID:       componentID,
		AvailableQuantity: production.AvailableQuantity(batches, now),
		BatchCount:        len(batches),
	}, nil
}

// ExpiringBatches lists available batches expiring within the given number
// of days, for an external notifier to act on
func (s *ProductionService) ExpiringBatches(ctx context.Context, businessID uuid.UUID, componentID *uuid.UUID, withinDays int) ([]ProductionResponse, error) {
	if withinDays <= 0 {
		return nil, shared.NewValidationError("Expiry window must be positive")
	}
	now := time.Now()
	window := time.Duration(withinDays) * 24 * time.Hour
	batches, err := s.productionRepo.FindExpiring(ctx, businessID, componentID, window, now)
	if err != nil {
		return nil, err
	}
	return ToProductionResponses(batches), nil
}

func (s *ProductionService) publishDomainEvents(ctx context.Context, batch *production.ComponentProduction) {
	if s.eventPublisher == nil || batch == nil {
		return
	}
	events := batch.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	batch.ClearDomainEvents()
}

func isInsufficientStock(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.CodeInsufficientStock
}
