package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bomcraft/backend/internal/domain/production"
	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductionRepository implements ProductionRepository using GORM
type GormProductionRepository struct {
	db *gorm.DB
}

// NewGormProductionRepository creates a new GormProductionRepository
func NewGormProductionRepository(db *gorm.DB) *GormProductionRepository {
	return &GormProductionRepository{db: db}
}

// Create persists a new production batch
func (r *GormProductionRepository) Create(ctx context.Context, batch *production.ComponentProduction) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

// Update saves changes to an existing batch with optimistic locking. The
// domain mutators increment the version first, so the predicate matches the
// version the batch was loaded at; a stale save affects no rows.
func (r *GormProductionRepository) Update(ctx context.Context, batch *production.ComponentProduction) error {
	result := r.db.WithContext(ctx).
		Model(batch).
		Where("id = ? AND version = ?", batch.ID, batch.Version-1).
		Updates(map[string]interface{}{
			"amount_consumed": batch.AmountConsumed,
			"active":          batch.Active,
			"notes":           batch.Notes,
			"version":         batch.Version,
			"updated_at":      batch.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a batch by ID within a business
func (r *GormProductionRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*production.ComponentProduction, error) {
	var batch production.ComponentProduction
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByIDForUpdate loads a batch under a row lock so concurrent draws on
// the same batch serialize. Must run inside a transaction.
func (r *GormProductionRepository) FindByIDForUpdate(ctx context.Context, businessID, id uuid.UUID) (*production.ComponentProduction, error) {
	var batch production.ComponentProduction
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByComponent returns all active batches of a component, oldest first
func (r *GormProductionRepository) FindByComponent(ctx context.Context, businessID, componentID uuid.UUID) ([]production.ComponentProduction, error) {
	var batches []production.ComponentProduction
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND component_id = ? AND active = ?", businessID, componentID, true).
		Order("production_date ASC, created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindAvailableByComponent returns active, unexhausted, non-expired batches
// of a component as of the given instant, oldest first
func (r *GormProductionRepository) FindAvailableByComponent(ctx context.Context, businessID, componentID uuid.UUID, now time.Time) ([]production.ComponentProduction, error) {
	var batches []production.ComponentProduction
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND component_id = ? AND active = ?", businessID, componentID, true).
		Where("amount_consumed < produced_amount").
		Where("expiration_date IS NULL OR expiration_date > ?", now).
		Order("production_date ASC, created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindAll returns batches for a business matching the filter
func (r *GormProductionRepository) FindAll(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[production.ComponentProduction], error) {
	base := r.db.WithContext(ctx).Model(&production.ComponentProduction{}).Where("business_id = ?", businessID)
	base = r.applyFilterWithoutPagination(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[production.ComponentProduction]{}, err
	}

	var batches []production.ComponentProduction
	if err := applyPagination(base, filter).Find(&batches).Error; err != nil {
		return shared.Paginated[production.ComponentProduction]{}, err
	}
	return shared.NewPaginated(batches, total, filter.Page, filter.PageSize), nil
}

// CountByComponent counts batches referencing the component
func (r *GormProductionRepository) CountByComponent(ctx context.Context, businessID, componentID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&production.ComponentProduction{}).
		Where("business_id = ? AND component_id = ?", businessID, componentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindExpiring returns available batches expiring within the window, soonest
// first. A nil componentID spans all components of the business.
func (r *GormProductionRepository) FindExpiring(ctx context.Context, businessID uuid.UUID, componentID *uuid.UUID, window time.Duration, now time.Time) ([]production.ComponentProduction, error) {
	deadline := now.Add(window)
	query := r.db.WithContext(ctx).
		Where("business_id = ? AND active = ?", businessID, true).
		Where("amount_consumed < produced_amount").
		Where("expiration_date IS NOT NULL AND expiration_date > ? AND expiration_date <= ?", now, deadline)
	if componentID != nil {
		query = query.Where("component_id = ?", *componentID)
	}

	var batches []production.ComponentProduction
	if err := query.Order("expiration_date ASC").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "component_id":
			query = query.Where("component_id = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		case "batch_number":
			query = query.Where("batch_number = ?", value)
		}
	}
	return query
}

// Ensure GormProductionRepository implements ProductionRepository
var _ production.ProductionRepository = (*GormProductionRepository)(nil)
