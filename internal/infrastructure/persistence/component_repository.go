package persistence

import (
	"context"
	"errors"

	"github.com/bomcraft/backend/internal/domain/bom"
	"github.com/bomcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormComponentRepository implements ComponentRepository using GORM
type GormComponentRepository struct {
	db *gorm.DB
}

// NewGormComponentRepository creates a new GormComponentRepository
func NewGormComponentRepository(db *gorm.DB) *GormComponentRepository {
	return &GormComponentRepository{db: db}
}

// Create persists a new component
func (r *GormComponentRepository) Create(ctx context.Context, component *bom.Component) error {
	return r.db.WithContext(ctx).Omit("Edges").Create(component).Error
}

// Update saves changes to an existing component. Recipe edges are managed
// through ReplaceEdges, never through the association.
func (r *GormComponentRepository) Update(ctx context.Context, component *bom.Component) error {
	return r.db.WithContext(ctx).Omit("Edges").Save(component).Error
}

// FindByID finds a component by ID within a business
func (r *GormComponentRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*bom.Component, error) {
	var component bom.Component
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&component).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &component, nil
}

// FindByName finds a component by exact name within a business
func (r *GormComponentRepository) FindByName(ctx context.Context, businessID uuid.UUID, name string) (*bom.Component, error) {
	var component bom.Component
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND LOWER(name) = LOWER(?)", businessID, name).
		First(&component).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &component, nil
}

// FindAll returns components for a business matching the filter
func (r *GormComponentRepository) FindAll(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[bom.Component], error) {
	base := r.db.WithContext(ctx).Model(&bom.Component{}).Where("business_id = ?", businessID)
	base = r.applyFilterWithoutPagination(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[bom.Component]{}, err
	}

	var components []bom.Component
	if err := applyPagination(base, filter).Find(&components).Error; err != nil {
		return shared.Paginated[bom.Component]{}, err
	}
	return shared.NewPaginated(components, total, filter.Page, filter.PageSize), nil
}

// EdgesOf returns the component's recipe ordered by sort order
func (r *GormComponentRepository) EdgesOf(ctx context.Context, businessID, componentID uuid.UUID) ([]bom.BOMEdge, error) {
	var edges []bom.BOMEdge
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND parent_component_id = ?", businessID, componentID).
		Order("sort_order ASC, created_at ASC").
		Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

// ReplaceEdges swaps the component's full edge set. Callers run it inside a
// transaction together with the cycle check so no partial recipe is visible.
func (r *GormComponentRepository) ReplaceEdges(ctx context.Context, businessID, componentID uuid.UUID, edges []bom.BOMEdge) error {
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND parent_component_id = ?", businessID, componentID).
		Delete(&bom.BOMEdge{}).Error; err != nil {
		return err
	}
	if len(edges) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&edges).Error
}

// UsageCount counts recipe edges referencing the item as a child
func (r *GormComponentRepository) UsageCount(ctx context.Context, businessID, itemID uuid.UUID, itemType bom.ItemType) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&bom.BOMEdge{}).
		Where("business_id = ? AND child_id = ? AND item_type = ?", businessID, itemID, itemType).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormComponentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		}
	}
	return query
}

// Ensure GormComponentRepository implements ComponentRepository
var _ bom.ComponentRepository = (*GormComponentRepository)(nil)
