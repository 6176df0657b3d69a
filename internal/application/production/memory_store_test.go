package production

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bomcraft/backend/internal/domain/bom"
	"github.com/bomcraft/backend/internal/domain/ledger"
	"github.com/bomcraft/backend/internal/domain/production"
	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memoryStore backs the service tests with in-memory repositories and a
// transaction scope that restores a snapshot on error, mimicking a rollback.
type memoryStore struct {
	supplies   map[uuid.UUID]ledger.Supply
	entries    []ledger.SupplyEntry
	components map[uuid.UUID]bom.Component
	edges      map[uuid.UUID][]bom.BOMEdge
	batches    map[uuid.UUID]production.ComponentProduction
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		supplies:   make(map[uuid.UUID]ledger.Supply),
		entries:    make([]ledger.SupplyEntry, 0),
		components: make(map[uuid.UUID]bom.Component),
		edges:      make(map[uuid.UUID][]bom.BOMEdge),
		batches:    make(map[uuid.UUID]production.ComponentProduction),
	}
}

func (m *memoryStore) clone() *memoryStore {
	c := newMemoryStore()
	for k, v := range m.supplies {
		c.supplies[k] = v
	}
	c.entries = append(c.entries, m.entries...)
	for k, v := range m.components {
		c.components[k] = v
	}
	for k, v := range m.edges {
		c.edges[k] = append([]bom.BOMEdge(nil), v...)
	}
	for k, v := range m.batches {
		c.batches[k] = v
	}
	return c
}

func (m *memoryStore) restore(from *memoryStore) {
	m.supplies = from.supplies
	m.entries = from.entries
	m.components = from.components
	m.edges = from.edges
	m.batches = from.batches
}

// memoryTxScope implements the production TransactionScope with rollback
type memoryTxScope struct {
	store *memoryStore
}

func (s *memoryTxScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	snapshot := s.store.clone()
	if err := fn(s.store); err != nil {
		s.store.restore(snapshot)
		return err
	}
	return nil
}

var _ TransactionScope = (*memoryTxScope)(nil)
var _ TransactionalRepositories = (*memoryStore)(nil)

func (m *memoryStore) SupplyRepo() ledger.SupplyRepository             { return (*memorySupplyRepo)(m) }
func (m *memoryStore) EntryRepo() ledger.SupplyEntryRepository         { return (*memoryEntryRepo)(m) }
func (m *memoryStore) ComponentRepo() bom.ComponentRepository          { return (*memoryComponentRepo)(m) }
func (m *memoryStore) ProductionRepo() production.ProductionRepository { return (*memoryProductionRepo)(m) }

type memorySupplyRepo memoryStore

func (r *memorySupplyRepo) Create(_ context.Context, supply *ledger.Supply) error {
	r.supplies[supply.ID] = *supply
	return nil
}

func (r *memorySupplyRepo) Update(_ context.Context, supply *ledger.Supply) error {
	if _, ok := r.supplies[supply.ID]; !ok {
		return shared.ErrNotFound
	}
	r.supplies[supply.ID] = *supply
	return nil
}

func (r *memorySupplyRepo) FindByID(_ context.Context, businessID, id uuid.UUID) (*ledger.Supply, error) {
	supply, ok := r.supplies[id]
	if !ok || supply.BusinessID != businessID {
		return nil, shared.ErrNotFound
	}
	return &supply, nil
}

func (r *memorySupplyRepo) FindByName(_ context.Context, businessID uuid.UUID, name string) (*ledger.Supply, error) {
	for _, supply := range r.supplies {
		if supply.BusinessID == businessID && strings.EqualFold(supply.Name, name) {
			s := supply
			return &s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memorySupplyRepo) FindAll(_ context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[ledger.Supply], error) {
	items := make([]ledger.Supply, 0)
	for _, supply := range r.supplies {
		if supply.BusinessID == businessID {
			items = append(items, supply)
		}
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *memorySupplyRepo) FindByIDForUpdate(ctx context.Context, businessID, id uuid.UUID) (*ledger.Supply, error) {
	return r.FindByID(ctx, businessID, id)
}

type memoryEntryRepo memoryStore

func (r *memoryEntryRepo) Create(_ context.Context, entry *ledger.SupplyEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memoryEntryRepo) CreateBatch(ctx context.Context, entries []*ledger.SupplyEntry) error {
	for _, entry := range entries {
		if err := r.Create(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (r *memoryEntryRepo) FindByID(_ context.Context, businessID, id uuid.UUID) (*ledger.SupplyEntry, error) {
	for i := range r.entries {
		if r.entries[i].ID == id && r.entries[i].BusinessID == businessID {
			entry := r.entries[i]
			return &entry, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryEntryRepo) FindBySupply(_ context.Context, businessID, supplyID uuid.UUID) ([]ledger.SupplyEntry, error) {
	matches := make([]ledger.SupplyEntry, 0)
	for i := range r.entries {
		if r.entries[i].BusinessID == businessID && r.entries[i].SupplyID == supplyID && r.entries[i].Active {
			matches = append(matches, r.entries[i])
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].EntryDate.Before(matches[j].EntryDate)
	})
	return matches, nil
}

func (r *memoryEntryRepo) FindAll(_ context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[ledger.SupplyEntry], error) {
	items := make([]ledger.SupplyEntry, 0)
	for i := range r.entries {
		if r.entries[i].BusinessID == businessID {
			items = append(items, r.entries[i])
		}
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *memoryEntryRepo) SumAmountBySupply(ctx context.Context, businessID, supplyID uuid.UUID) (decimal.Decimal, error) {
	entries, err := r.FindBySupply(ctx, businessID, supplyID)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.CurrentStock(entries), nil
}

func (r *memoryEntryRepo) Deactivate(_ context.Context, businessID, id uuid.UUID) error {
	for i := range r.entries {
		if r.entries[i].ID == id && r.entries[i].BusinessID == businessID {
			r.entries[i].Active = false
			return nil
		}
	}
	return shared.ErrNotFound
}

type memoryComponentRepo memoryStore

func (r *memoryComponentRepo) Create(_ context.Context, component *bom.Component) error {
	r.components[component.ID] = *component
	return nil
}

func (r *memoryComponentRepo) Update(_ context.Context, component *bom.Component) error {
	if _, ok := r.components[component.ID]; !ok {
		return shared.ErrNotFound
	}
	r.components[component.ID] = *component
	return nil
}

func (r *memoryComponentRepo) FindByID(_ context.Context, businessID, id uuid.UUID) (*bom.Component, error) {
	component, ok := r.components[id]
	if !ok || component.BusinessID != businessID {
		return nil, shared.ErrNotFound
	}
	return &component, nil
}

func (r *memoryComponentRepo) FindByName(_ context.Context, businessID uuid.UUID, name string) (*bom.Component, error) {
	for _, component := range r.components {
		if component.BusinessID == businessID && strings.EqualFold(component.Name, name) {
			c := component
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryComponentRepo) FindAll(_ context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[bom.Component], error) {
	items := make([]bom.Component, 0)
	for _, component := range r.components {
		if component.BusinessID == businessID {
			items = append(items, component)
		}
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *memoryComponentRepo) EdgesOf(_ context.Context, businessID, componentID uuid.UUID) ([]bom.BOMEdge, error) {
	edges := make([]bom.BOMEdge, 0)
	for _, edge := range r.edges[componentID] {
		if edge.BusinessID == businessID {
			edges = append(edges, edge)
		}
	}
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].SortOrder < edges[j].SortOrder })
	return edges, nil
}

func (r *memoryComponentRepo) ReplaceEdges(_ context.Context, _, componentID uuid.UUID, edges []bom.BOMEdge) error {
	r.edges[componentID] = append([]bom.BOMEdge(nil), edges...)
	return nil
}

func (r *memoryComponentRepo) UsageCount(_ context.Context, businessID, itemID uuid.UUID, itemType bom.ItemType) (int64, error) {
	var count int64
	for _, edges := range r.edges {
		for _, edge := range edges {
			if edge.BusinessID == businessID && edge.ChildID == itemID && edge.ItemType == itemType {
				count++
			}
		}
	}
	return count, nil
}

type memoryProductionRepo memoryStore

func (r *memoryProductionRepo) Create(_ context.Context, batch *production.ComponentProduction) error {
	r.batches[batch.ID] = *batch
	return nil
}

func (r *memoryProductionRepo) Update(_ context.Context, batch *production.ComponentProduction) error {
	existing, ok := r.batches[batch.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if existing.Version != batch.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.batches[batch.ID] = *batch
	return nil
}

func (r *memoryProductionRepo) FindByID(_ context.Context, businessID, id uuid.UUID) (*production.ComponentProduction, error) {
	batch, ok := r.batches[id]
	if !ok || batch.BusinessID != businessID {
		return nil, shared.ErrNotFound
	}
	return &batch, nil
}

func (r *memoryProductionRepo) FindByIDForUpdate(ctx context.Context, businessID, id uuid.UUID) (*production.ComponentProduction, error) {
	return r.FindByID(ctx, businessID, id)
}

func (r *memoryProductionRepo) FindByComponent(_ context.Context, businessID, componentID uuid.UUID) ([]production.ComponentProduction, error) {
	matches := make([]production.ComponentProduction, 0)
	for _, batch := range r.batches {
		if batch.BusinessID == businessID && batch.ComponentID == componentID && batch.Active {
			matches = append(matches, batch)
		}
	}
	sortBatches(matches)
	return matches, nil
}

func (r *memoryProductionRepo) FindAvailableByComponent(_ context.Context, businessID, componentID uuid.UUID, now time.Time) ([]production.ComponentProduction, error) {
	matches := make([]production.ComponentProduction, 0)
	for _, batch := range r.batches {
		if batch.BusinessID == businessID && batch.ComponentID == componentID && batch.IsAvailable(now) {
			matches = append(matches, batch)
		}
	}
	sortBatches(matches)
	return matches, nil
}

func (r *memoryProductionRepo) FindAll(_ context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[production.ComponentProduction], error) {
	items := make([]production.ComponentProduction, 0)
	for _, batch := range r.batches {
		if batch.BusinessID == businessID {
			items = append(items, batch)
		}
	}
	sortBatches(items)
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *memoryProductionRepo) CountByComponent(_ context.Context, businessID, componentID uuid.UUID) (int64, error) {
	var count int64
	for _, batch := range r.batches {
		if batch.BusinessID == businessID && batch.ComponentID == componentID {
			count++
		}
	}
	return count, nil
}

func (r *memoryProductionRepo) FindExpiring(_ context.Context, businessID uuid.UUID, componentID *uuid.UUID, window time.Duration, now time.Time) ([]production.ComponentProduction, error) {
	matches := make([]production.ComponentProduction, 0)
	for _, batch := range r.batches {
		if batch.BusinessID != businessID {
			continue
		}
		if componentID != nil && batch.ComponentID != *componentID {
			continue
		}
		if batch.IsAvailable(now) && batch.WillExpireWithin(window, now) {
			matches = append(matches, batch)
		}
	}
	sortBatches(matches)
	return matches, nil
}

func sortBatches(batches []production.ComponentProduction) {
	sort.SliceStable(batches, func(i, j int) bool {
		return batches[i].ProductionDate.Before(batches[j].ProductionDate)
	})
}
