package ledger

import (
	"context"

	"github.com/bomcraft/backend/internal/domain/ledger"
	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryService appends ledger entries and answers history queries. All
// mutating operations run inside the transaction scope so that the stock
// check and the append are one atomic unit per supply.
type EntryService struct {
	txScope            TransactionScope
	supplyRepo         ledger.SupplyRepository
	entryRepo          ledger.SupplyEntryRepository
	costStrategy       ledger.SupplyCostStrategy
	allowNegativeStock bool
	eventPublisher     shared.EventPublisher
}

// NewEntryService creates a new EntryService
func NewEntryService(
	txScope TransactionScope,
	supplyRepo ledger.SupplyRepository,
	entryRepo ledger.SupplyEntryRepository,
	costStrategy ledger.SupplyCostStrategy,
	allowNegativeStock bool,
) *EntryService {
	if costStrategy == nil {
		costStrategy = ledger.NewWeightedAverageCostStrategy()
	}
	return &EntryService{
		txScope:            txScope,
		supplyRepo:         supplyRepo,
		entryRepo:          entryRepo,
		costStrategy:       costStrategy,
		allowNegativeStock: allowNegativeStock,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *EntryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RecordAddition appends a positive entry for stock received
func (s *EntryService) RecordAddition(ctx context.Context, businessID uuid.UUID, req RecordAdditionRequest) (*EntryResponse, error) {
	var created *ledger.SupplyEntry
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		supply, err := repos.SupplyRepo().FindByIDForUpdate(ctx, businessID, req.SupplyID)
		if err != nil {
			return err
		}

		entry, err := ledger.NewAdditionEntry(businessID, supply.ID, req.Amount, req.UnitCost, req.ProviderID)
		if err != nil {
			return err
		}
		if req.Notes != "" {
			entry.WithNotes(req.Notes)
		}
		if err := repos.EntryRepo().Create(ctx, entry); err != nil {
			return err
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ledger.NewEntryRecordedEvent(created))
	response := ToEntryResponse(created)
	return &response, nil
}

// RecordConsumption appends consumption entries for stock removed. The draw
// is attributed to addition entries in FIFO order, one consumption entry per
// addition drawn, carrying the informational source-entry reference. Under
// the default policy a draw beyond current stock fails with
// InsufficientStock before anything is written.
func (s *EntryService) RecordConsumption(ctx context.Context, businessID uuid.UUID, req RecordConsumptionRequest) ([]EntryResponse, error) {
	var created []*ledger.SupplyEntry
	var lowStock *ledger.StockBelowMinimumEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		entries, supply, err := ConsumeFromSupply(ctx, repos, businessID, req.SupplyID, req.Amount, nil, s.allowNegativeStock)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if req.Notes != "" {
				entry.WithNotes(req.Notes)
			}
		}
		if err := repos.EntryRepo().CreateBatch(ctx, entries); err != nil {
			return err
		}
		created = entries

		remaining, err := repos.EntryRepo().SumAmountBySupply(ctx, businessID, supply.ID)
		if err != nil {
			return err
		}
		if remaining.LessThan(supply.MinStock) {
			lowStock = ledger.NewStockBelowMinimumEvent(supply, remaining)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, entry := range created {
		s.publish(ctx, ledger.NewEntryRecordedEvent(entry))
	}
	if lowStock != nil {
		s.publish(ctx, lowStock)
	}

	responses := make([]EntryResponse, 0, len(created))
	for _, entry := range created {
		responses = append(responses, ToEntryResponse(entry))
	}
	return responses, nil
}

// History returns a supply's entries in chronological order
func (s *EntryService) History(ctx context.Context, businessID, supplyID uuid.UUID) ([]EntryResponse, error) {
	if _, err := s.supplyRepo.FindByID(ctx, businessID, supplyID); err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.FindBySupply(ctx, businessID, supplyID)
	if err != nil {
		return nil, err
	}
	return ToEntryResponses(entries), nil
}

// DeactivateEntry soft-deletes an entry as an administrative correction.
// Stock derivation skips inactive entries from then on.
func (s *EntryService) DeactivateEntry(ctx context.Context, businessID, entryID uuid.UUID) error {
	if _, err := s.entryRepo.FindByID(ctx, businessID, entryID); err != nil {
		return err
	}
	return s.entryRepo.Deactivate(ctx, businessID, entryID)
}

func (s *EntryService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, event)
}

// ConsumeFromSupply builds the consumption entries for one supply inside an
// open transaction. The supply row is locked first so concurrent movements
// serialize; the stock check and the FIFO draw plan both read the locked
// history. Nothing is persisted here; the caller writes the returned entries
// through the same transaction.
func ConsumeFromSupply(
	ctx context.Context,
	repos TransactionalRepositories,
	businessID, supplyID uuid.UUID,
	amount decimal.Decimal,
	productionID *uuid.UUID,
	allowNegativeStock bool,
) ([]*ledger.SupplyEntry, *ledger.Supply, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, shared.NewValidationError("Consumption amount must be positive")
	}

	supply, err := repos.SupplyRepo().FindByIDForUpdate(ctx, businessID, supplyID)
	if err != nil {
		return nil, nil, err
	}

	entries, err := repos.EntryRepo().FindBySupply(ctx, businessID, supplyID)
	if err != nil {
		return nil, nil, err
	}

	current := ledger.CurrentStock(entries)
	if current.LessThan(amount) && !allowNegativeStock {
		return nil, nil, shared.NewInsufficientStockError(supply.Name, amount, current)
	}

	draws, err := ledger.PlanEntryDraws(entries, amount)
	if err != nil {
		return nil, nil, err
	}

	consumptions := make([]*ledger.SupplyEntry, 0, len(draws)+1)
	covered := decimal.Zero
	for _, draw := range draws {
		additionID := draw.AdditionID
		entry, err := ledger.NewConsumptionEntry(businessID, supplyID, draw.Amount, draw.UnitCost, &additionID)
		if err != nil {
			return nil, nil, err
		}
		if productionID != nil {
			entry.WithProduction(*productionID)
		}
		consumptions = append(consumptions, entry)
		covered = covered.Add(draw.Amount)
	}

	// Permissive negative-stock mode: the uncovered remainder becomes one
	// entry without a source reference, priced at the current average cost.
	if covered.LessThan(amount) {
		avgCost := ledger.NewWeightedAverageCostStrategy().UnitCost(entries)
		entry, err := ledger.NewConsumptionEntry(businessID, supplyID, amount.Sub(covered), avgCost, nil)
		if err != nil {
			return nil, nil, err
		}
		if productionID != nil {
			entry.WithProduction(*productionID)
		}
		consumptions = append(consumptions, entry)
	}
	return consumptions, supply, nil
}
