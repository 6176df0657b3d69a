package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bomcraft/backend/internal/domain/ledger"
	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSupplyRepository implements SupplyRepository using GORM
type GormSupplyRepository struct {
	db *gorm.DB
}

// NewGormSupplyRepository creates a new GormSupplyRepository
func NewGormSupplyRepository(db *gorm.DB) *GormSupplyRepository {
	return &GormSupplyRepository{db: db}
}

// Create persists a new supply
func (r *GormSupplyRepository) Create(ctx context.Context, supply *ledger.Supply) error {
	return r.db.WithContext(ctx).Create(supply).Error
}

// Update saves changes to an existing supply
func (r *GormSupplyRepository) Update(ctx context.Context, supply *ledger.Supply) error {
	return r.db.WithContext(ctx).Save(supply).Error
}

// FindByID finds a supply by ID within a business
func (r *GormSupplyRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*ledger.Supply, error) {
	var supply ledger.Supply
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&supply).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supply, nil
}

// FindByName finds a supply by exact name within a business
func (r *GormSupplyRepository) FindByName(ctx context.Context, businessID uuid.UUID, name string) (*ledger.Supply, error) {
	var supply ledger.Supply
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND LOWER(name) = LOWER(?)", businessID, name).
		First(&supply).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supply, nil
}

// FindAll returns supplies for a business matching the filter
func (r *GormSupplyRepository) FindAll(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[ledger.Supply], error) {
	base := r.db.WithContext(ctx).Model(&ledger.Supply{}).Where("business_id = ?", businessID)
	base = r.applyFilterWithoutPagination(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[ledger.Supply]{}, err
	}

	var supplies []ledger.Supply
	if err := applyPagination(base, filter).Find(&supplies).Error; err != nil {
		return shared.Paginated[ledger.Supply]{}, err
	}
	return shared.NewPaginated(supplies, total, filter.Page, filter.PageSize), nil
}

// FindByIDForUpdate loads a supply under a row lock so concurrent stock
// movements on the same supply serialize. Must run inside a transaction.
func (r *GormSupplyRepository) FindByIDForUpdate(ctx context.Context, businessID, id uuid.UUID) (*ledger.Supply, error) {
	var supply ledger.Supply
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&supply).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supply, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSupplyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "unit":
			query = query.Where("unit = ?", value)
		}
	}
	return query
}

// applyPagination applies pagination and ordering to the query
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// Ensure GormSupplyRepository implements SupplyRepository
var _ ledger.SupplyRepository = (*GormSupplyRepository)(nil)
