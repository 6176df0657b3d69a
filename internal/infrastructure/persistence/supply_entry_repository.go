package persistence

import (
	"context"
	"errors"

	"github.com/bomcraft/backend/internal/domain/ledger"
	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSupplyEntryRepository implements SupplyEntryRepository using GORM.
// Entries are append-only: rows are inserted and at most soft-deactivated,
// never updated in place.
type GormSupplyEntryRepository struct {
	db *gorm.DB
}

// NewGormSupplyEntryRepository creates a new GormSupplyEntryRepository
func NewGormSupplyEntryRepository(db *gorm.DB) *GormSupplyEntryRepository {
	return &GormSupplyEntryRepository{db: db}
}

// Create appends one entry to the ledger
func (r *GormSupplyEntryRepository) Create(ctx context.Context, entry *ledger.SupplyEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateBatch appends multiple entries at once
func (r *GormSupplyEntryRepository) CreateBatch(ctx context.Context, entries []*ledger.SupplyEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(entries).Error
}

// FindByID finds an entry by ID within a business
func (r *GormSupplyEntryRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*ledger.SupplyEntry, error) {
	var entry ledger.SupplyEntry
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindBySupply returns active entries for a supply, oldest first
func (r *GormSupplyEntryRepository) FindBySupply(ctx context.Context, businessID, supplyID uuid.UUID) ([]ledger.SupplyEntry, error) {
	var entries []ledger.SupplyEntry
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND supply_id = ? AND active = ?", businessID, supplyID, true).
		Order("entry_date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAll returns entries for a business matching the filter
func (r *GormSupplyEntryRepository) FindAll(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[ledger.SupplyEntry], error) {
	base := r.db.WithContext(ctx).Model(&ledger.SupplyEntry{}).Where("business_id = ?", businessID)
	base = r.applyFilterWithoutPagination(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[ledger.SupplyEntry]{}, err
	}

	var entries []ledger.SupplyEntry
	if err := applyPagination(base, filter).Find(&entries).Error; err != nil {
		return shared.Paginated[ledger.SupplyEntry]{}, err
	}
	return shared.NewPaginated(entries, total, filter.Page, filter.PageSize), nil
}

// SumAmountBySupply sums signed amounts over active entries, yielding the
// supply's current stock without loading the full history.
func (r *GormSupplyEntryRepository) SumAmountBySupply(ctx context.Context, businessID, supplyID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&ledger.SupplyEntry{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("business_id = ? AND supply_id = ? AND active = ?", businessID, supplyID, true).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Deactivate soft-deletes an entry
func (r *GormSupplyEntryRepository) Deactivate(ctx context.Context, businessID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&ledger.SupplyEntry{}).
		Where("business_id = ? AND id = ? AND active = ?", businessID, id, true).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSupplyEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "supply_id":
			query = query.Where("supply_id = ?", value)
		case "entry_type":
			query = query.Where("entry_type = ?", value)
		case "production_id":
			query = query.Where("production_id = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		case "from":
			query = query.Where("entry_date >= ?", value)
		case "to":
			query = query.Where("entry_date <= ?", value)
		}
	}
	return query
}

// Ensure GormSupplyEntryRepository implements SupplyEntryRepository
var _ ledger.SupplyEntryRepository = (*GormSupplyEntryRepository)(nil)
