package production

import (
	"context"
	"time"

	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductionRepository defines persistence for production batches
type ProductionRepository interface {
	Create(ctx context.Context, batch *ComponentProduction) error
	// Update persists batch changes guarded by the version column. A stale
	// version fails with ErrConcurrencyConflict and writes nothing.
	Update(ctx context.Context, batch *ComponentProduction) error
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*ComponentProduction, error)
	// FindByIDForUpdate loads the batch under a row lock so concurrent
	// draws on the same batch serialize. Must run inside a transaction.
	FindByIDForUpdate(ctx context.Context, businessID, id uuid.UUID) (*ComponentProduction, error)
	// FindByComponent returns all active batches of a component, oldest first
	FindByComponent(ctx context.Context, businessID, componentID uuid.UUID) ([]ComponentProduction, error)
	// FindAvailableByComponent returns active, unexhausted, non-expired
	// batches of a component as of the given instant, oldest first.
	FindAvailableByComponent(ctx context.Context, businessID, componentID uuid.UUID, now time.Time) ([]ComponentProduction, error)
	FindAll(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[ComponentProduction], error)
	// CountByComponent counts batches referencing the component
	CountByComponent(ctx context.Context, businessID, componentID uuid.UUID) (int64, error)
	// FindExpiring returns available batches across components (or one
	// component when componentID is non-nil) expiring within the window.
	FindExpiring(ctx context.Context, businessID uuid.UUID, componentID *uuid.UUID, window time.Duration, now time.Time) ([]ComponentProduction, error)
}
