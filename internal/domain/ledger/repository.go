package ledger

import (
	"context"

	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplyRepository defines persistence for supplies
type SupplyRepository interface {
	Create(ctx context.Context, supply *Supply) error
	Update(ctx context.Context, supply *Supply) error
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*Supply, error)
	FindByName(ctx context.Context, businessID uuid.UUID, name string) (*Supply, error)
	FindAll(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[Supply], error)
	// FindByIDForUpdate loads the supply under a row lock so concurrent
	// movements against the same supply serialize. Must run in a transaction.
	FindByIDForUpdate(ctx context.Context, businessID, id uuid.UUID) (*Supply, error)
}

// SupplyEntryRepository defines persistence for the append-only entry ledger
type SupplyEntryRepository interface {
	Create(ctx context.Context, entry *SupplyEntry) error
	CreateBatch(ctx context.Context, entries []*SupplyEntry) error
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*SupplyEntry, error)
	// FindBySupply returns active entries for a supply ordered by entry date
	// ascending, creation time as tiebreaker.
	FindBySupply(ctx context.Context, businessID, supplyID uuid.UUID) ([]SupplyEntry, error)
	FindAll(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[SupplyEntry], error)
	// SumAmountBySupply returns the signed sum over active entries, which is
	// the supply's current stock.
	SumAmountBySupply(ctx context.Context, businessID, supplyID uuid.UUID) (decimal.Decimal, error)
	// Deactivate soft-deletes an entry. Entries are never updated in place.
	Deactivate(ctx context.Context, businessID, id uuid.UUID) error
}
